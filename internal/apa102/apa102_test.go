package apa102_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/ledshow/internal/apa102"
	"libdb.so/ledshow/internal/led"
)

func TestBufferSize(t *testing.T) {
	for _, length := range []int{1, 15, 16, 17, 144, 576} {
		s := apa102.New(length)
		assert.Len(t, s.Buffer(), 4*(length+1)+6+length/16, "length %d", length)
	}
}

func TestStartFrame(t *testing.T) {
	s := apa102.New(8)
	frame := led.NewFrame(8)
	frame.Fill(led.ARGB8{A: 31, R: 255, G: 255, B: 255})
	s.Update(frame)

	assert.Equal(t, []byte{0, 0, 0, 0}, s.Buffer()[:4])
}

func TestBrightnessByte(t *testing.T) {
	s := apa102.New(2)
	s.Update(led.Frame{
		{A: 31, R: 1, G: 2, B: 3},
		{A: 0, R: 4, G: 5, B: 6},
	})

	buf := s.Buffer()
	// The top three bits are forced on regardless of brightness.
	assert.Equal(t, byte(0xFF), buf[4])
	assert.Equal(t, []byte{3, 2, 1}, buf[5:8])
	assert.Equal(t, byte(0xE0), buf[8])
	assert.Equal(t, []byte{6, 5, 4}, buf[9:12])
}

func TestEndFrame(t *testing.T) {
	length := 144
	s := apa102.New(length)

	frame := led.NewFrame(length)
	frame.Fill(led.ARGB8{A: 31, R: 255, G: 255, B: 255})
	s.Update(frame)

	end := s.Buffer()[4*(length+1):]
	require.Len(t, end, 6+length/16)
	assert.Equal(t, byte(0xFF), end[0])
	for i, b := range end[1:] {
		assert.Equal(t, byte(0), b, "end frame byte %d", i+1)
	}
}

func TestUpdateOnlyTouchesLEDFrames(t *testing.T) {
	length := 32
	s := apa102.New(length)

	before := append([]byte(nil), s.Buffer()...)

	frame := led.NewFrame(length)
	frame.Fill(led.ARGB8{A: 9, R: 10, G: 11, B: 12})
	s.Update(frame)

	buf := s.Buffer()
	assert.Equal(t, before[:4], buf[:4])
	assert.Equal(t, before[4*(length+1):], buf[4*(length+1):])

	// Back-to-back updates reuse the same buffer.
	frame.Fill(led.ARGB8{})
	s.Update(frame)
	for i := 0; i < length; i++ {
		assert.Equal(t, []byte{0xE0, 0, 0, 0}, buf[4*(1+i):4*(2+i)], "pixel %d", i)
	}
}
