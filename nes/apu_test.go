package nes

import (
	"math"
	"testing"
)

// apuTicks advances the APU by n APU-domain ticks (six master ticks
// each).
func apuTicks(a *APU, n int) {
	for i := 0; i < n*6; i++ {
		a.Clock()
	}
}

func TestSequencer_TimerCountdown(t *testing.T) {
	a := NewAPU(16, 44100)

	a.CPUWrite(0x4015, 0x01) // enable pulse 1
	a.CPUWrite(0x4000, 0x7F)
	a.CPUWrite(0x4002, 0x08)
	a.CPUWrite(0x4003, 0x00)

	if got := a.pulse1.seq.timer; got != 0x0008 {
		t.Fatalf("expected timer to latch %04X, got %04X", 0x0008, got)
	}

	apuTicks(a, 4)
	if got := a.pulse1.seq.timer; got != 0x0004 {
		t.Errorf("expected timer to be %04X after 4 ticks, got %04X", 0x0004, got)
	}

	apuTicks(a, 5)
	if got := a.pulse1.seq.timer; got != 0x0009 {
		t.Errorf("expected timer to reload to %04X after 9 ticks, got %04X", 0x0009, got)
	}
}

func TestSequencer_RotatesDuty(t *testing.T) {
	s := sequencer{enable: true, reload: 0, sequence: 0b00000011}

	var outputs []byte
	for i := 0; i < 8; i++ {
		s.clock(rotateDuty)
		outputs = append(outputs, s.output)
	}

	// 25% duty: two high steps per eight.
	var high int
	for _, o := range outputs {
		high += int(o)
	}
	if high != 2 {
		t.Errorf("expected 2 high steps out of 8, got %v (%v)", high, outputs)
	}
}

func TestEnvelope_DecaysFromFifteen(t *testing.T) {
	e := envelope{volume: 0, start: true}

	e.clock()
	if e.decay != 15 || e.start {
		t.Fatalf("expected start to arm decay at 15, got decay=%v start=%v", e.decay, e.start)
	}
	if e.output != 15 {
		t.Errorf("expected output to be %v, got %v", 15, e.output)
	}

	// With volume 0 the divider reloads instantly, so each beat drops
	// the decay by one.
	for want := uint16(14); want > 0; want-- {
		e.clock()
		if e.output != want {
			t.Fatalf("expected output to be %v, got %v", want, e.output)
		}
	}

	e.clock()
	if e.output != 0 {
		t.Errorf("expected decay to stop at 0, got %v", e.output)
	}

	e.clock()
	if e.output != 0 {
		t.Errorf("expected non-looped envelope to stay at 0, got %v", e.output)
	}
}

func TestEnvelope_Loops(t *testing.T) {
	e := envelope{volume: 0, start: true, looped: true}

	e.clock()
	for i := 0; i < 15; i++ {
		e.clock()
	}
	if e.output != 0 {
		t.Fatalf("expected decay to reach 0, got %v", e.output)
	}

	e.clock()
	if e.output != 15 {
		t.Errorf("expected looped envelope to rearm at 15, got %v", e.output)
	}
}

func TestEnvelope_ConstantVolume(t *testing.T) {
	e := envelope{volume: 9, disable: true, start: true}

	e.clock()
	e.clock()
	e.clock()
	if e.output != 9 {
		t.Errorf("expected constant volume %v, got %v", 9, e.output)
	}
}

func TestLengthCounter_Table(t *testing.T) {
	// A counter loaded from any table slot reaches zero after exactly
	// that many half-frame beats.
	for i, want := range lengthTable {
		lc := lengthCounter{counter: want, enable: true}

		var beats int
		for lc.counter > 0 {
			lc.clock()
			beats++
			if beats > 300 {
				t.Fatalf("slot %d never reached zero", i)
			}
		}

		if beats != int(want) {
			t.Errorf("slot %d: expected %v beats, got %v", i, want, beats)
		}
	}
}

func TestLengthCounter_DisableForcesZero(t *testing.T) {
	lc := lengthCounter{counter: 30, enable: false}
	lc.clock()
	if lc.counter != 0 {
		t.Errorf("expected disabled counter to be 0, got %v", lc.counter)
	}
}

func TestLengthCounter_HaltFreezes(t *testing.T) {
	lc := lengthCounter{counter: 30, enable: true, halt: true}
	lc.clock()
	lc.clock()
	if lc.counter != 30 {
		t.Errorf("expected halted counter to stay at 30, got %v", lc.counter)
	}
}

func TestAPU_LengthCounterViaRegisters(t *testing.T) {
	a := NewAPU(16, 44100)

	// Latch length slot 0b11111 (30) while the channel is disabled,
	// then enable and take one half-frame beat.
	a.CPUWrite(0x4003, 0b11111<<3)
	if got := a.pulse1.lc.counter; got != 30 {
		t.Fatalf("expected counter to latch 30, got %v", got)
	}

	a.CPUWrite(0x4015, 0x01)

	apuTicks(a, 7457)
	if got := a.pulse1.lc.counter; got != 29 {
		t.Errorf("expected counter to be 29 after one half frame, got %v", got)
	}
}

func TestAPU_DisableZeroesLengthCounter(t *testing.T) {
	a := NewAPU(16, 44100)

	a.CPUWrite(0x4015, 0x01)
	a.CPUWrite(0x4003, 0b11111<<3)
	a.CPUWrite(0x4015, 0x00)

	if got := a.pulse1.lc.counter; got != 0 {
		t.Errorf("expected counter to be 0 after disabling, got %v", got)
	}
}

func TestAPU_FrameCounterBeats(t *testing.T) {
	a := NewAPU(16, 44100)

	// Arm the pulse 1 envelope and watch the first quarter frame
	// consume the start flag.
	a.CPUWrite(0x4015, 0x01)
	a.CPUWrite(0x4000, 0x0F) // full volume, decaying envelope
	a.CPUWrite(0x4003, 0x00) // sets env.start

	apuTicks(a, 3728)
	if !a.pulse1.env.start {
		t.Fatal("expected envelope start to still be pending before the first quarter frame")
	}

	apuTicks(a, 1)
	if a.pulse1.env.start {
		t.Error("expected the quarter frame at 3729 to consume the start flag")
	}
	if a.pulse1.env.decay != 15 {
		t.Errorf("expected decay to arm at 15, got %v", a.pulse1.env.decay)
	}

	// The counter wraps at 14916.
	apuTicks(a, 14916-3729)
	if a.frameCounter != 0 {
		t.Errorf("expected frame counter to wrap to 0, got %v", a.frameCounter)
	}
}

func TestSweeper_MuteTracksTarget(t *testing.T) {
	s := sweeper{enabled: true, shift: 1}

	s.track(4)
	if !s.mute {
		t.Error("expected target below 8 to mute")
	}

	s.track(0x400)
	if s.mute {
		t.Error("expected target in range to unmute")
	}

	s.track(0x900)
	if !s.mute {
		t.Error("expected target above 0x7FF to mute")
	}
}

func TestSweeper_ChannelOffset(t *testing.T) {
	// Sweeping down differs by one between the two pulse channels.
	mk := func(channel bool) *sweeper {
		s := &sweeper{enabled: true, down: true, shift: 2, channel: channel}
		s.track(0x100)
		return s
	}

	a := mk(false)
	if got := a.clock(0x100); got != 0x100-0x40 {
		t.Errorf("expected channel A to subtract the full change, got %04X", got)
	}

	b := mk(true)
	if got := b.clock(0x100); got != 0x100-0x3F {
		t.Errorf("expected channel B to subtract change minus one, got %04X", got)
	}
}

func TestSweeper_SweepsUp(t *testing.T) {
	s := &sweeper{enabled: true, shift: 2}
	s.track(0x100)

	if got := s.clock(0x100); got != 0x140 {
		t.Errorf("expected target to rise to %04X, got %04X", 0x140, got)
	}
}

func TestSweeper_TimerGatesSweep(t *testing.T) {
	s := &sweeper{enabled: true, shift: 2, period: 2}
	s.track(0x100)

	// First beat sweeps (timer starts at 0) and reloads the timer;
	// the next two only count down.
	got := s.clock(0x100)
	if got == 0x100 {
		t.Fatal("expected the first beat to sweep")
	}
	if s.timer != 2 {
		t.Fatalf("expected timer to reload to 2, got %v", s.timer)
	}

	got = s.clock(0x100)
	if got != 0x100 {
		t.Error("expected no sweep while the timer counts down")
	}
	got = s.clock(0x100)
	if got != 0x100 {
		t.Error("expected no sweep while the timer counts down")
	}
}

func TestNoise_LFSRFeedback(t *testing.T) {
	// Normal mode: feedback is bit0 XOR bit1 into bit 14.
	if got := shiftNoise(0b11, false); got != 0x0001 {
		t.Errorf("expected %04X, got %04X", 0x0001, got)
	}
	if got := shiftNoise(0b01, false); got != 0x4000 {
		t.Errorf("expected %04X, got %04X", 0x4000, got)
	}

	// Short mode: feedback is bit0 XOR bit6.
	if got := shiftNoise(0b1000001, true); got != 0x20 {
		t.Errorf("expected %04X, got %04X", 0x20, got)
	}
}

func TestNoise_PeriodTable(t *testing.T) {
	a := NewAPU(16, 44100)

	a.CPUWrite(0x400E, 0x0F)
	if got := a.noise.seq.reload; got != 4068 {
		t.Errorf("expected reload %v, got %v", 4068, got)
	}

	a.CPUWrite(0x400E, 0x81)
	if got := a.noise.seq.reload; got != 4 {
		t.Errorf("expected reload %v, got %v", 4, got)
	}
	if !a.noise.seq.mode {
		t.Error("expected bit 7 to select short mode")
	}
}

func TestAPU_StatusRead(t *testing.T) {
	a := NewAPU(16, 44100)

	a.CPUWrite(0x4015, 0x0B)
	a.CPUWrite(0x4003, 0b00010<<3) // pulse 1 length 20
	a.CPUWrite(0x400F, 0b00010<<3) // noise length 20

	status, ok := a.CPURead(0x4015)
	if !ok {
		t.Fatal("expected the status read to be handled")
	}
	if status != 0x09 {
		t.Errorf("expected status %02X, got %02X", 0x09, status)
	}
}

func TestAPU_FramePortReadFallsThrough(t *testing.T) {
	a := NewAPU(16, 44100)

	if _, ok := a.CPURead(0x4017); ok {
		t.Error("expected the APU to decline frame port reads")
	}

	// The frame port write is applied but passed on, since controller
	// 2 shares the address and its strobe line must see it too.
	if a.CPUWrite(0x4017, 0x80) {
		t.Error("expected the frame port write to fall through to controller 2")
	}
	if !a.fiveStep {
		t.Error("expected bit 7 to latch 5-step mode")
	}
}

func TestAPU_Mixer(t *testing.T) {
	a := NewAPU(16, 44100)

	a.pulse1.sample = 1.0
	a.pulse2.sample = 0.5
	a.noise.sample = 0.25

	want := (1.0-0.8)*0.3 + (0.5-0.8)*0.3 + 2*(0.25-0.5)*0.3
	if got := a.Sample(); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected mix %v, got %v", want, got)
	}
}

func TestAPU_TriangleAndDMCWritesAreAccepted(t *testing.T) {
	a := NewAPU(16, 44100)

	for _, addr := range []uint16{0x4008, 0x4009, 0x400A, 0x400B, 0x4010, 0x4011, 0x4012, 0x4013} {
		if !a.CPUWrite(addr, 0xFF) {
			t.Errorf("expected write to %04X to be accepted", addr)
		}
	}

	if s := a.Sample(); s != (0-0.8)*0.3+(0-0.8)*0.3+2*(0-0.5)*0.3 {
		t.Errorf("expected silent channels to mix their rest level, got %v", s)
	}
}
