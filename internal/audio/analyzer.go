package audio

import (
	"context"
	"math/cmplx"

	"github.com/noriah/catnip/dsp/window"
	"github.com/noriah/catnip/fft"
	"github.com/noriah/catnip/input"
)

// Analyzer is the analysis stage: windowed FFT, log-scale bucketing, then
// the frequency sensor. It owns all of its buffers; only the Features it
// emits escape.
type Analyzer struct {
	cfg      Config
	sensor   *Sensor
	bucketer *Bucketer

	plan     *fft.Plan
	winBuf   []input.Sample
	fftBuf   []complex128
	spectrum []float64
	bins     []float64
}

// NewAnalyzer creates an analyzer emitting Features with length spatial
// positions.
func NewAnalyzer(cfg Config, length int, params SensorParams) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		sensor:   NewSensor(cfg.Bins, length, params),
		winBuf:   make([]input.Sample, cfg.Window),
		fftBuf:   make([]complex128, cfg.Window/2+1),
		spectrum: make([]float64, cfg.Window/2+1),
		bins:     make([]float64, cfg.Bins),
	}
	a.bucketer = NewBucketer(
		len(a.spectrum), cfg.Window, cfg.Bins,
		cfg.MinFrequency, cfg.MaxFrequency, cfg.SampleRate)
	a.plan = &fft.Plan{Input: a.winBuf, Output: a.fftBuf}
	a.plan.Init()
	return a
}

// Run consumes sample windows and emits one Features value per window. The
// send into features blocks; the capture boundary upstream keeps only the
// newest window, so a slow consumer costs staleness, not memory. The
// features channel is closed on return.
func (a *Analyzer) Run(ctx context.Context, windows <-chan []float64, features chan<- *Features) error {
	defer close(features)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case win, ok := <-windows:
			if !ok {
				return nil
			}

			f := a.analyze(win)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case features <- f:
			}
		}
	}
}

func (a *Analyzer) analyze(win []float64) *Features {
	copy(a.winBuf, win)
	window.Lanczos(a.winBuf)
	a.plan.Execute()

	norm := float64(len(a.winBuf))
	for i, c := range a.fftBuf {
		a.spectrum[i] = cmplx.Abs(c) / norm
	}

	a.bucketer.Bucket(a.spectrum, a.bins)
	return a.sensor.Process(a.bins)
}
