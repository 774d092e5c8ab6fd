package audio

import (
	"context"

	"github.com/noriah/catnip/input"
	"github.com/pkg/errors"

	// Register the portable capture backends.
	_ "github.com/noriah/catnip/input/ffmpeg"
	_ "github.com/noriah/catnip/input/parec"
)

// Config selects and shapes the audio input.
type Config struct {
	// Backend is a catnip input backend name, e.g. "ffmpeg-alsa" or "parec".
	Backend string `toml:"backend"`
	// Device is the backend-specific device name. Empty picks the default.
	Device     string  `toml:"device"`
	SampleRate float64 `toml:"sample_rate"`
	// Window is the analysis window size in samples. Must be a power of two.
	Window int `toml:"window"`
	// Bins is the number of frequency buckets the sensor tracks.
	Bins         int     `toml:"bins"`
	MinFrequency float64 `toml:"min_frequency"`
	MaxFrequency float64 `toml:"max_frequency"`
}

// DefaultAudioConfig returns a config for a 44.1kHz mono capture.
func DefaultAudioConfig() Config {
	return Config{
		Backend:      "ffmpeg-alsa",
		SampleRate:   44100,
		Window:       1024,
		Bins:         16,
		MinFrequency: 32,
		MaxFrequency: 16000,
	}
}

// Source owns the capture session. The backend keeps a rolling window of the
// most recent samples in a shared buffer; Source snapshots it on every
// delivery and hands the copies out through Windows.
type Source struct {
	backend input.Backend
	session input.Session
	buffers [][]input.Sample
	windows chan []float64
}

// NewSource opens the configured capture backend and prepares a session.
func NewSource(cfg Config) (*Source, error) {
	backend := input.FindBackend(cfg.Backend)
	if backend == nil {
		return nil, errors.Errorf("unknown audio backend %q", cfg.Backend)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize audio backend")
	}

	device, err := findDevice(backend, cfg.Device)
	if err != nil {
		backend.Close()
		return nil, err
	}

	session, err := backend.Start(input.SessionConfig{
		Device:     device,
		SampleRate: cfg.SampleRate,
		SampleSize: cfg.Window,
		FrameSize:  1, // mono
	})
	if err != nil {
		backend.Close()
		return nil, errors.Wrap(err, "failed to start audio session")
	}

	return &Source{
		backend: backend,
		session: session,
		buffers: [][]input.Sample{make([]input.Sample, cfg.Window)},
		windows: make(chan []float64, 1),
	}, nil
}

func findDevice(backend input.Backend, name string) (input.Device, error) {
	if name == "" {
		device, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default audio device")
		}
		return device, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate audio devices")
	}
	for _, device := range devices {
		if device.String() == name {
			return device, nil
		}
	}
	return nil, errors.Errorf("unknown audio device %q", name)
}

// Windows returns the stream of sample-window snapshots.
func (s *Source) Windows() <-chan []float64 { return s.windows }

// Run drives the capture session until ctx is canceled. The delivery
// callback runs on the backend's schedule and must stay quick, so it only
// copies the window and performs a newest-wins hand-off.
func (s *Source) Run(ctx context.Context) error {
	defer s.backend.Close()
	defer close(s.windows)

	err := s.session.Start(ctx, s.buffers, (*windowSnapshotter)(s))
	if err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "audio session failed")
	}
	return ctx.Err()
}

// windowSnapshotter is the capture boundary: it implements input.Processor
// without blocking. A full channel means analysis is behind; the stale
// snapshot is discarded so the newest always wins.
type windowSnapshotter Source

func (w *windowSnapshotter) Process() {
	snap := make([]float64, len(w.buffers[0]))
	copy(snap, w.buffers[0])

	for {
		select {
		case w.windows <- snap:
			return
		default:
		}
		select {
		case <-w.windows:
		default:
		}
	}
}
