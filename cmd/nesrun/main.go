package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/valente/nes/nes"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: nesrun [flags] rom.nes\n")
	flag.PrintDefaults()
}

func main() {
	frames := flag.Int("frames", 600, "number of frames to run")
	trace := flag.Bool("trace", false, "log executed instructions to stderr")
	audio := flag.Bool("audio", false, "play the mix through the default audio device")
	lowLatency := flag.Bool("lowlatency", false, "use low latency audio buffers")
	record := flag.String("record", "", "directory to record channel WAVs into")
	rate := flag.Float64("rate", 44100, "sample rate used without -audio")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *frames, *trace, *audio, *lowLatency, *record, float32(*rate)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(romPath string, frames int, trace, audio, lowLatency bool, record string, rate float32) error {
	var out io.Writer
	if trace {
		out = os.Stderr
	}

	var engine *audioEngine
	if audio {
		engine = &audioEngine{}
		if err := engine.init(lowLatency); err != nil {
			return err
		}
		defer engine.quit()
		rate = float32(engine.sampleRate())
	}

	console := nes.NewConsole(rate, out)
	if err := console.LoadPath(romPath); err != nil {
		return err
	}

	if record != "" {
		makeFile := func(tap string) (io.WriteSeeker, error) {
			return os.Create(filepath.Join(record, tap+".wav"))
		}
		if err := console.APU.StartRecording(makeFile); err != nil {
			return err
		}
		defer console.APU.StopRecording()
	}

	if engine != nil {
		engine.setChannel(console.AudioChannel())
		if err := engine.play(); err != nil {
			return err
		}

		// Pace emulation at NTSC frame rate so the stream stays fed.
		tick := time.NewTicker(time.Second / 60)
		defer tick.Stop()
		for i := 0; i < frames; i++ {
			if err := stepFrame(console); err != nil {
				return err
			}
			<-tick.C
		}
		return nil
	}

	for i := 0; i < frames; i++ {
		if err := stepFrame(console); err != nil {
			return err
		}
	}

	return nil
}

// stepFrame surfaces wiring faults as errors instead of crashing the
// shell mid-frame.
func stepFrame(console *nes.Console) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if busErr, ok := r.(*nes.BusError); ok {
			err = busErr
			return
		}
		panic(r)
	}()

	console.StepFrame()
	return nil
}
