package nes

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// mixer paces the APU's master-rate output down to the host sample
// rate and fans samples out to the mix stream and the recording taps.
type mixer struct {
	Output chan float32

	p1, p2, noise, mixTap *tap

	cycles  uint64
	divider uint64
}

func newMixer(bufferSize int, sampleRate float32) *mixer {
	return &mixer{
		Output:  make(chan float32, bufferSize),
		divider: uint64(masterFreq / float64(sampleRate)),
		p1:      newTap("pulse_1", sampleRate),
		p2:      newTap("pulse_2", sampleRate),
		noise:   newTap("noise", sampleRate),
		mixTap:  newTap("mix", sampleRate),
	}
}

func (m *mixer) taps() []*tap {
	return []*tap{m.p1, m.p2, m.noise, m.mixTap}
}

// mix is called once per master tick. Every divider ticks one sample
// is produced. The output channel never blocks; when the host lags,
// samples are dropped rather than stalling emulation.
func (m *mixer) mix(p1, p2, noise, final float64) {
	if m.cycles%m.divider == 0 {
		m.p1.process(float32(p1))
		m.p2.process(float32(p2))
		m.noise.process(float32(noise))
		m.mixTap.process(float32(final))

		select {
		case m.Output <- float32(final):
		default:
		}
	}

	m.cycles++
}

func (m *mixer) startRecording(makeFile func(tap string) (io.WriteSeeker, error)) error {
	for _, t := range m.taps() {
		if err := t.start(makeFile); err != nil {
			return err
		}
	}
	return nil
}

func (m *mixer) pauseRecording() {
	for _, t := range m.taps() {
		t.pause()
	}
}

func (m *mixer) unpauseRecording() {
	for _, t := range m.taps() {
		t.unpause()
	}
}

func (m *mixer) stopRecording() error {
	var err error
	for _, t := range m.taps() {
		if e := t.stop(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// tap records one channel of the mix as 32-bit float WAV.
type tap struct {
	name       string
	sampleRate float32

	recording bool
	paused    bool
	enc       *wav.Encoder
}

func newTap(name string, sampleRate float32) *tap {
	return &tap{
		name:       name,
		sampleRate: sampleRate,
	}
}

func (t *tap) start(makeFile func(tap string) (io.WriteSeeker, error)) error {
	if t.recording {
		t.paused = false
		return nil
	}
	if makeFile == nil {
		return fmt.Errorf("nes: tap %s: no sink configured", t.name)
	}

	f, err := makeFile(t.name)
	if err != nil {
		return fmt.Errorf("nes: tap %s: %w", t.name, err)
	}

	// 0x0003 is WAVE_FORMAT_IEEE_FLOAT.
	t.enc = wav.NewEncoder(f, int(t.sampleRate), 32, 1, 0x0003)
	t.recording = true
	t.paused = false
	return nil
}

func (t *tap) process(v float32) error {
	if !t.recording || t.paused {
		return nil
	}
	return t.enc.WriteFrame(v)
}

func (t *tap) pause() {
	t.paused = true
}

func (t *tap) unpause() {
	t.paused = false
}

func (t *tap) stop() error {
	if !t.recording {
		return nil
	}
	t.recording = false
	t.paused = false
	return t.enc.Close()
}

// StartRecording begins writing each channel tap and the final mix as
// WAV through makeFile, one sink per tap.
func (a *APU) StartRecording(makeFile func(tap string) (io.WriteSeeker, error)) error {
	return a.mixer.startRecording(makeFile)
}

func (a *APU) PauseRecording() {
	a.mixer.pauseRecording()
}

func (a *APU) UnpauseRecording() {
	a.mixer.unpauseRecording()
}

func (a *APU) StopRecording() error {
	return a.mixer.stopRecording()
}
