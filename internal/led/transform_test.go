package led_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libdb.so/ledshow/internal/led"
)

func numberedFrame(n int) led.Frame {
	frame := led.NewFrame(n)
	for i := range frame {
		frame[i] = led.ARGB8{A: 31, R: uint8(i), G: uint8(i >> 8), B: 0}
	}
	return frame
}

func TestRemapInvalidTopology(t *testing.T) {
	tests := []struct {
		name     string
		strips   int
		length   int
		reversed []bool
		xMap     []int
	}{
		{"short reversed", 2, 4, []bool{false}, []int{0, 1}},
		{"short x_map", 2, 4, []bool{false, false}, []int{0}},
		{"not a permutation", 2, 4, []bool{false, false}, []int{0, 0}},
		{"out of range", 2, 4, []bool{false, false}, []int{0, 2}},
		{"zero strips", 0, 4, nil, nil},
		{"zero length", 2, 0, []bool{false, false}, []int{0, 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := led.NewRemap(test.strips, test.length, test.reversed, test.xMap)
			assert.Error(t, err)
		})
	}
}

func TestRemapIdentity(t *testing.T) {
	remap, err := led.NewRemap(4, 8, make([]bool, 4), []int{0, 1, 2, 3})
	require.NoError(t, err)

	frame := numberedFrame(32)
	assert.Equal(t, frame, remap.Apply(frame))
}

func TestRemapReverse(t *testing.T) {
	remap, err := led.NewRemap(3, 4, []bool{false, true, false}, []int{0, 1, 2})
	require.NoError(t, err)

	frame := numberedFrame(12)
	out := remap.Apply(frame)

	// Only the middle strip's segment is reversed.
	assert.Equal(t, frame[0:4], out[0:4])
	assert.Equal(t, frame[8:12], out[8:12])
	for i := 0; i < 4; i++ {
		assert.Equal(t, frame[4+i], out[8-1-i])
	}
}

func TestRemapPermutation(t *testing.T) {
	remap, err := led.NewRemap(3, 4, make([]bool, 3), []int{2, 0, 1})
	require.NoError(t, err)

	frame := numberedFrame(12)
	out := remap.Apply(frame)

	// Logical strip x draws from physical segment x_map[x], contents intact.
	assert.Equal(t, frame[8:12], out[0:4])
	assert.Equal(t, frame[0:4], out[4:8])
	assert.Equal(t, frame[4:8], out[8:12])
}

func TestRemapWritePixel(t *testing.T) {
	remap, err := led.NewRemap(4, 6, []bool{false, true, false, true}, []int{0, 2, 1, 3})
	require.NoError(t, err)

	c := led.ARGB8{A: 31, R: 255}

	// A pixel written at (x, y) must land at logical (x, y) after Apply.
	for x := 0; x < 4; x++ {
		for y := 0; y < 6; y++ {
			frame := led.NewFrame(24)
			require.NoError(t, remap.WritePixel(frame, x, y, c))

			out := remap.Apply(frame)
			for i, got := range out {
				if i == x*6+y {
					assert.Equal(t, c, got, "pixel (%d,%d)", x, y)
				} else {
					assert.Equal(t, led.ARGB8{}, got, "pixel (%d,%d) leaked to %d", x, y, i)
				}
			}
		}
	}
}

func TestRemapWritePixelOutOfRange(t *testing.T) {
	remap, err := led.NewRemap(2, 4, []bool{false, true}, []int{1, 0})
	require.NoError(t, err)

	frame := led.NewFrame(8)
	assert.Error(t, remap.WritePixel(frame, 2, 0, led.ARGB8{}))
	assert.Error(t, remap.WritePixel(frame, 0, 4, led.ARGB8{}))
	assert.Error(t, remap.WritePixel(frame, -1, 0, led.ARGB8{}))
	assert.Error(t, remap.WritePixel(frame, 0, -1, led.ARGB8{}))
}

func TestIdentityTransform(t *testing.T) {
	frame := numberedFrame(8)
	assert.Equal(t, frame, led.Identity{}.Apply(frame))
}
