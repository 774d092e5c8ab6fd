// Package ledshow renders audio-reactive color patterns onto an APA102 LED
// chain in real time.
//
// The pipeline has four stages: capture (audio backend callback), analysis
// (FFT + frequency sensor), render (features to colors) and output (topology
// remap, wire encode, bus write). Each stage is a single goroutine; all
// coordination happens over the channels between them. Backpressure differs
// by position: capture never blocks and keeps only the newest sample window,
// analysis-to-render is a small buffered channel, and render-to-output is a
// rendezvous where frames are dropped rather than queued when the bus is
// behind.
package ledshow

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"libdb.so/ledshow/internal/apa102"
	"libdb.so/ledshow/internal/audio"
	"libdb.so/ledshow/internal/bus"
	"libdb.so/ledshow/internal/led"
	"libdb.so/ledshow/internal/vis"
)

// fpsSample is how many frames pass between FPS debug lines.
const fpsSample = 256

// Daemon is the ledshow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new daemon. The configuration is validated here and
// treated as immutable afterwards.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the pipeline and blocks until the given context is canceled or
// a stage fails.
func (d *Daemon) Run(ctx context.Context) error {
	b, err := d.openBus()
	if err != nil {
		return err
	}
	defer b.Close()

	remap, err := d.remap()
	if err != nil {
		return err
	}

	source, err := audio.NewSource(d.cfg.Audio)
	if err != nil {
		return err
	}
	analyzer := audio.NewAnalyzer(d.cfg.Audio, d.cfg.Strip.Length, d.cfg.Sensor)

	display := NewDisplay()
	features := make(chan *audio.Features, 4)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return source.Run(ctx)
	})
	errg.Go(func() error {
		return analyzer.Run(ctx, source.Windows(), features)
	})
	errg.Go(func() error {
		return d.renderLoop(ctx, features, display)
	})
	errg.Go(func() error {
		return d.outputLoop(display, remap, b)
	})

	return errg.Wait()
}

// renderLoop turns features into frames. When the output stage has not taken
// the previous frame yet, the new one is discarded: latency never builds up
// behind a slow bus, at the cost of skipped frames.
func (d *Daemon) renderLoop(ctx context.Context, features <-chan *audio.Features, display *Display) error {
	defer display.Close()

	visualizer := vis.New(d.cfg.Visualizer, d.cfg.Strip.Strips, d.cfg.Strip.Length)
	var dropped int

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-features:
			if !ok {
				return nil
			}

			frame := visualizer.Render(f)
			if !display.TryWrite(frame) {
				dropped++
				if dropped%fpsSample == 0 {
					d.logger.Debug("output is behind, dropping frames", "dropped", dropped)
				}
			}
		}
	}
}

// outputLoop drains the display, remaps each frame to wiring order, encodes
// it and pushes it onto the bus. A failed bus write is logged and skipped; a
// closed display ends the loop.
func (d *Daemon) outputLoop(display *Display, remap led.Transform, b bus.Bus) error {
	encoder := apa102.New(d.cfg.Strip.NumLEDs())

	var frames int
	then := time.Now()

	for frame := range display.Frames() {
		encoder.Update(remap.Apply(frame))
		if err := b.Write(encoder.Buffer()); err != nil {
			d.logger.Warn("failed to write frame to bus", "error", err)
			continue
		}

		frames++
		if frames%fpsSample == 0 {
			now := time.Now()
			d.logger.Debug("output pacing",
				"fps", float64(fpsSample)/now.Sub(then).Seconds())
			then = now
		}
	}

	return nil
}

// SetStatic fills the whole chain with one color and returns. The frame is
// written twice so the first transfer has finished clocking out before the
// bus is closed.
func (d *Daemon) SetStatic(c led.ARGB8) error {
	b, err := d.openBus()
	if err != nil {
		return err
	}
	defer b.Close()

	n := d.cfg.Strip.NumLEDs()
	frame := led.NewFrame(n)
	frame.Fill(c)

	encoder := apa102.New(n)
	encoder.Update(frame)

	for i := 0; i < 2; i++ {
		if err := b.Write(encoder.Buffer()); err != nil {
			return errors.Wrap(err, "failed to write frame")
		}
	}
	return nil
}

// TestFPS spams constant frames at the bus for the given duration and
// returns the achieved frame rate. Useful for spotting flicker and sizing
// the SPI clock.
func (d *Daemon) TestFPS(duration time.Duration) (float64, error) {
	b, err := d.openBus()
	if err != nil {
		return 0, err
	}
	defer b.Close()

	n := d.cfg.Strip.NumLEDs()
	frame := led.NewFrame(n)
	frame.Fill(led.ARGB8{A: 1, R: 1, G: 1, B: 1})

	encoder := apa102.New(n)
	encoder.Update(frame)

	var frames int
	start := time.Now()
	for time.Since(start) < duration {
		if err := b.Write(encoder.Buffer()); err != nil {
			return 0, errors.Wrap(err, "failed to write frame")
		}
		frames++
	}

	return float64(frames) / time.Since(start).Seconds(), nil
}

func (d *Daemon) openBus() (bus.Bus, error) {
	switch d.cfg.Driver {
	case DriverSPI, "":
		return bus.OpenSPI(d.cfg.Device, d.cfg.Clock)
	case DriverSerial:
		return bus.OpenSerial(d.cfg.Device, d.cfg.Baud)
	case DriverNone:
		return &bus.Null{}, nil
	default:
		return nil, errors.Errorf("unknown driver %q", d.cfg.Driver)
	}
}

func (d *Daemon) remap() (led.Transform, error) {
	s := &d.cfg.Strip
	remap, err := led.NewRemap(s.Strips, s.Length, s.Reversed, s.XMap)
	if err != nil {
		return nil, errors.Wrap(err, "invalid strip topology")
	}
	return remap, nil
}
