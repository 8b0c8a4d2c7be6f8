// Command ntsctv renders one or more image/video/camera sources through a
// synthetic NTSC composite-video pipeline and writes the demodulated result
// to a video file or an on-screen window.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kvistgaard/ntsctv/control"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/internal/xlog"
	"github.com/kvistgaard/ntsctv/runner"
	"github.com/kvistgaard/ntsctv/sink"
	"github.com/kvistgaard/ntsctv/source"
)

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ntsctv: %v\n", err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(-1)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "ntsctv: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage: ntsctv --in SRC [SRC...] --out DST [DST...] --control SPEC
              [--size W H] [--seed N] [--verbose 0-5]`

func run(a *cliArgs) error {
	log := xlog.New(a.verbose)

	cs, err := parseControl(a.control)
	if err != nil {
		return fmt.Errorf("invalid --control: %w", err)
	}

	outW, outH := a.width, a.height
	if !a.hasSize {
		outW, outH = 320, 240
	}

	seed := a.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var ctrl control.Controller
	if cs.random {
		ctrl = control.NewRandomController(uint32(seed), cs.fixsettings, float64(cs.fps), float64(cs.duration), cs.powerup)
	} else {
		sc, err := control.LoadScript(cs.scenario)
		if err != nil {
			return err
		}
		ctrl = sc
		cs.fps = 30
	}

	g := geometry.Default
	r := runner.New(g, uint32(seed), outW, outH, float64(cs.fps), ctrl, log)

	decoder := source.NewImageDecoder()
	for _, spec := range a.in {
		src, err := source.Open(spec, decoder, outW, outH)
		if err != nil {
			return fmt.Errorf("source %q: %w", spec, err)
		}
		if err := r.AddStation(src); err != nil {
			return fmt.Errorf("source %q: %w", spec, err)
		}
	}

	for _, spec := range a.out {
		s, err := sink.Open(spec, outW, outH, float64(cs.fps))
		if err != nil {
			return fmt.Errorf("sink %q: %w", spec, err)
		}
		r.AddSink(s)
	}

	prog := tea.NewProgram(progressModel{})
	r.Progress = func(frame, channel int, act control.ActionType) {
		prog.Send(frameMsg{frame: frame, channel: channel, action: act})
	}

	runErr := make(chan error, 1)
	go func() {
		err := r.Run()
		prog.Send(doneMsg{err: err})
		runErr <- err
	}()

	if _, err := prog.Run(); err != nil {
		log.Logf(1, "progress display exited: %v", err)
	}

	return <-runErr
}
