package ledshow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/ledshow/internal/led"
)

func TestDisplayDropsWithoutReceiver(t *testing.T) {
	d := NewDisplay()

	// No receiver: every try-send must discard immediately, never queue.
	for i := 0; i < 100; i++ {
		assert.False(t, d.TryWrite(led.NewFrame(1)))
	}
}

func TestDisplayNewestFrameWins(t *testing.T) {
	d := NewDisplay()

	received := make(chan led.Frame)
	go func() {
		for frame := range d.Frames() {
			received <- frame
		}
		close(received)
	}()

	// Give the consumer a moment to block on the rendezvous.
	time.Sleep(10 * time.Millisecond)

	first := led.NewFrame(1)
	first[0] = led.ARGB8{R: 1}
	require.True(t, d.TryWrite(first))

	// The consumer is now busy forwarding the first frame; everything sent
	// until it comes back is dropped.
	var dropped int
	for i := 0; i < 50; i++ {
		if !d.TryWrite(led.NewFrame(1)) {
			dropped++
		}
	}
	assert.NotZero(t, dropped)

	// Frames are delivered in order, at most one pending at a time.
	got := <-received
	assert.Equal(t, first, got)

	d.Close()
	for range received {
	}
}

func TestDisplayBlockingWrite(t *testing.T) {
	d := NewDisplay()

	done := make(chan error, 1)
	go func() {
		done <- d.Write(context.Background(), led.NewFrame(1))
	}()

	select {
	case err := <-done:
		t.Fatalf("write returned before a receiver took the frame: %v", err)
	case <-time.After(10 * time.Millisecond):
	}

	<-d.Frames()
	require.NoError(t, <-done)
}

func TestDisplayWriteCanceled(t *testing.T) {
	d := NewDisplay()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Write(ctx, led.NewFrame(1))
	assert.ErrorIs(t, err, context.Canceled)
}
