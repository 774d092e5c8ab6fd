package ledshow

import (
	"context"

	"libdb.so/ledshow/internal/led"
)

// Display is the hand-off point between whoever finishes a frame and whoever
// writes it to hardware. It has no internal capacity: a send completes only
// when the consumer takes the frame, so a blocking Write rate-matches
// production to the actual write rate, and TryWrite implements the
// newest-frame-wins drop policy instead.
type Display struct {
	frames chan led.Frame
}

// NewDisplay creates a display hand-off.
func NewDisplay() *Display {
	return &Display{frames: make(chan led.Frame)}
}

// Frames returns the consumer side. It is closed by Close.
func (d *Display) Frames() <-chan led.Frame {
	return d.frames
}

// Write blocks until the consumer takes the frame or ctx is canceled.
// Ownership of the frame transfers on send.
func (d *Display) Write(ctx context.Context, frame led.Frame) error {
	select {
	case d.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryWrite hands the frame off only if the consumer is already waiting for
// it. Otherwise the frame is discarded and TryWrite reports false. It never
// blocks.
func (d *Display) TryWrite(frame led.Frame) bool {
	select {
	case d.frames <- frame:
		return true
	default:
		return false
	}
}

// Close ends the stream. The consumer's receive loop terminates once the
// channel drains.
func (d *Display) Close() {
	close(d.frames)
}
