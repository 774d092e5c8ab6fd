package led

import (
	"github.com/pkg/errors"
)

// Transform reorders a logical frame into physical wiring order. The set of
// implementations is closed: Identity for a straight chain, Remap for strips
// that are reversed or wired out of order.
type Transform interface {
	// Apply returns the frame in physical wiring order. The input frame is
	// not modified.
	Apply(frame Frame) Frame
}

// Identity passes frames through untouched.
type Identity struct{}

func (Identity) Apply(frame Frame) Frame { return frame }

// Remap maps a row-major multi-strip canvas onto the physical chain. Logical
// strip x draws its pixels from physical segment XMap[x]; segments with
// Reversed[x] set are emitted back to front.
type Remap struct {
	numStrips   int
	stripLength int
	reversed    []bool
	xMap        []int
}

// NewRemap validates the topology descriptor and builds a Remap. The reversed
// and xMap slices must both have exactly numStrips entries, and xMap must be
// a permutation of the strip indices.
func NewRemap(numStrips, stripLength int, reversed []bool, xMap []int) (*Remap, error) {
	if numStrips <= 0 || stripLength <= 0 {
		return nil, errors.Errorf("invalid topology %dx%d", numStrips, stripLength)
	}
	if len(reversed) != numStrips || len(xMap) != numStrips {
		return nil, errors.Errorf(
			"reversed (%d) and x_map (%d) must both have exactly %d entries",
			len(reversed), len(xMap), numStrips)
	}

	seen := make([]bool, numStrips)
	for _, phys := range xMap {
		if phys < 0 || phys >= numStrips || seen[phys] {
			return nil, errors.Errorf("x_map %v is not a permutation of 0..%d", xMap, numStrips-1)
		}
		seen[phys] = true
	}

	return &Remap{
		numStrips:   numStrips,
		stripLength: stripLength,
		reversed:    reversed,
		xMap:        xMap,
	}, nil
}

// Size returns the total number of pixels the transform expects.
func (t *Remap) Size() int {
	return t.numStrips * t.stripLength
}

// Apply implements Transform.
func (t *Remap) Apply(frame Frame) Frame {
	l := t.stripLength
	out := make(Frame, len(frame))

	for x := 0; x < t.numStrips; x++ {
		src := frame[l*t.xMap[x] : l*(t.xMap[x]+1)]
		dst := out[l*x : l*(x+1)]
		if t.reversed[x] {
			for i, c := range src {
				dst[l-1-i] = c
			}
		} else {
			copy(dst, src)
		}
	}

	return out
}

// WritePixel writes a color addressed by (logical strip, position) directly
// into the slot Apply would read it from, so the pixel lands at (x, y) after
// the transform.
func (t *Remap) WritePixel(frame Frame, x, y int, c ARGB8) error {
	if x < 0 || x >= t.numStrips || y < 0 || y >= t.stripLength {
		return errors.Errorf("pixel {x:%d y:%d} out of range for {%d,%d}",
			x, y, t.numStrips, t.stripLength)
	}

	l := t.stripLength
	idx := l * t.xMap[x]
	if t.reversed[x] {
		idx += l - 1 - y
	} else {
		idx += y
	}
	frame[idx] = c
	return nil
}
