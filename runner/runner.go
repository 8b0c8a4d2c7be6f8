// Package runner composes sources, a Controller, the TVEngine and sinks
// into the per-frame loop described in SPEC_FULL.md §5/§6: refresh every
// station's InputSignal, ask the controller what to do, render, blit.
package runner

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvistgaard/ntsctv/control"
	"github.com/kvistgaard/ntsctv/encoder"
	"github.com/kvistgaard/ntsctv/engine"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/internal/xlog"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
	"github.com/kvistgaard/ntsctv/sink"
	"github.com/kvistgaard/ntsctv/source"
)

// station is one --in entry: an InputSignal a source refreshes, either
// every frame (ordinary FrameSource) or exactly once (StaticEncoder).
type station struct {
	sig    *signal.InputSignal
	src    source.FrameSource
	static source.StaticEncoder
}

// Runner owns the full pipeline for one run.
type Runner struct {
	geom geometry.Geometry
	tv   *engine.TVEngine
	enc  *encoder.SourceEncoder
	ctrl control.Controller
	log  *xlog.Logger

	stations []*station
	sinks    []sink.FrameSink

	outW, outH int
	fps        float64

	// Progress, if set, is called once per rendered frame so a caller (the
	// CLI's Bubble Tea status line) can report channel/frame progress
	// without the Runner importing any UI package.
	Progress func(frameIndex, channel int, act control.ActionType)
}

// New builds a Runner. ctrl must not have had CreateChannels/Run called
// yet; Run drives that sequencing itself once every station is added.
func New(g geometry.Geometry, seed uint32, outW, outH int, fps float64, ctrl control.Controller, log *xlog.Logger) *Runner {
	tv := engine.New(g, seed)
	tv.Configure(outW, outH)
	return &Runner{
		geom: g,
		tv:   tv,
		enc:  encoder.New(g),
		ctrl: ctrl,
		log:  log,
		outW: outW,
		outH: outH,
		fps:  fps,
	}
}

// AddStation registers one --in source. Static sources (":bars") are
// encoded once immediately; ordinary sources are refreshed every frame in
// Run's loop.
func (r *Runner) AddStation(src source.FrameSource) error {
	sig := signal.New(r.geom)
	st := &station{sig: sig}

	if se, ok := src.(source.StaticEncoder); ok {
		se.EncodeInto(r.enc, sig, r.outW, r.outH)
		st.static = se
		src.Close()
	} else {
		pic, err := src.Next()
		if err != nil {
			return fmt.Errorf("runner: initial frame from source: %w", err)
		}
		r.enc.LoadXImage(sig, pic, nil, 0, 0, pic.Width, pic.Height, r.outW, r.outH)
		st.src = src
	}

	r.stations = append(r.stations, st)
	return nil
}

// AddSink registers one --out destination.
func (r *Runner) AddSink(s sink.FrameSink) {
	r.sinks = append(r.sinks, s)
}

// bluescreen is the RuntimeDecodeFailure placeholder picture (spec.md §7):
// a plain blue field substituted for a station whose source dropped a
// frame or hit end of stream, so one bad channel never aborts the run.
func bluescreen(w, h int) *raster.Raster {
	r := raster.New(w, h)
	r.Fill(0, 0, 180, 255)
	return r
}

// refreshStations pulls one new frame from every non-static station and
// re-encodes it, substituting bluescreen on a decode failure.
func (r *Runner) refreshStations() {
	for _, st := range r.stations {
		if st.src == nil {
			continue
		}
		pic, err := st.src.Next()
		if err != nil {
			r.log.Logf(1, "runner: source read failed, substituting bluescreen: %v", err)
			pic = bluescreen(r.outW, r.outH)
		}
		r.enc.LoadXImage(st.sig, pic, nil, 0, 0, pic.Width, pic.Height, r.outW, r.outH)
	}
}

// signals returns the InputSignal for every station, in AddStation order,
// for the controller's channel-table construction.
func (r *Runner) signals() []*signal.InputSignal {
	sigs := make([]*signal.InputSignal, len(r.stations))
	for i, st := range r.stations {
		sigs[i] = st.sig
	}
	return sigs
}

// Run drives the frame loop until the controller reports ActionQuit or the
// process receives SIGINT/SIGTERM. It closes every source and sink before
// returning.
func (r *Runner) Run() error {
	if len(r.stations) == 0 {
		return fmt.Errorf("runner: no stations configured")
	}
	defer func() {
		for _, st := range r.stations {
			if st.src != nil {
				st.src.Close()
			}
		}
		for _, s := range r.sinks {
			s.Close()
		}
	}()

	r.ctrl.CreateChannels(r.signals())
	r.ctrl.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	frameTick := time.Duration(float64(time.Second) / r.fps)
	ticker := time.NewTicker(frameTick)
	defer ticker.Stop()

	frameIndex := 0
	for {
		select {
		case <-sigChan:
			r.log.Logf(0, "runner: interrupted, shutting down")
			return nil
		case <-ticker.C:
		}

		act := r.ctrl.Next()
		if act.Type == control.ActionSwitch {
			r.tv.ChannelChangeCycles = 200000
			r.log.Logf(2, "runner: switched to channel %d", act.Channel)
		}

		r.refreshStations()
		r.ctrl.Apply(r.tv)

		setting := r.ctrl.Setting(act.Channel)
		r.tv.Output = raster.New(r.outW, r.outH)
		if err := r.tv.Draw(setting.NoiseLevel, setting.Receptions); err != nil {
			return fmt.Errorf("runner: draw: %w", err)
		}

		for _, s := range r.sinks {
			if err := s.Write(r.tv.Output); err != nil {
				return fmt.Errorf("runner: sink write: %w", err)
			}
		}

		if r.Progress != nil {
			r.Progress(frameIndex, act.Channel, act.Type)
		}
		frameIndex++

		if act.Type == control.ActionQuit {
			return nil
		}
	}
}
