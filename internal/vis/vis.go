// Package vis turns audio features into colored frames.
//
// Each position along the strip gets a phase offset, identical across bins,
// which spreads the hue into a traveling wave. The per-bin signal deviation
// drives lightness and brightness through a shared sigmoid table.
package vis

import (
	"math"

	"libdb.so/ledshow/internal/audio"
	"libdb.so/ledshow/internal/led"
)

// Params are the fixed shape parameters of the visualization. Loaded once at
// startup and read-only while rendering.
// Scale pairs are [gain, offset], applied as gain*x + offset.
type Params struct {
	ValueScale     []float64 `toml:"value_scale"`
	LightnessScale []float64 `toml:"lightness_scale"`
	AlphaScale     []float64 `toml:"alpha_scale"`
	MaxAlpha       float64   `toml:"max_alpha"`
	Cycle          float64   `toml:"cycle"`
}

// DefaultParams returns parameters that look good on a 4x144 wall.
func DefaultParams() Params {
	return Params{
		ValueScale:     []float64{1, 0},
		LightnessScale: []float64{0.76, 0},
		AlphaScale:     []float64{1, -1},
		MaxAlpha:       0.125,
		Cycle:          1.0 / 256,
	}
}

// Visualizer is the render stage. It owns the two lookup tables, which are
// immutable after construction and safe to read from any goroutine.
type Visualizer struct {
	params  Params
	bins    int
	length  int
	sigmoid *sigmoid
	clut    *clut
}

// New creates a visualizer for a canvas of length positions by bins strips.
func New(params Params, bins, length int) *Visualizer {
	return &Visualizer{
		params:  params,
		bins:    bins,
		length:  length,
		sigmoid: newSigmoid(),
		clut:    newClut(),
	}
}

// Render produces one frame from one set of features. The frame is freshly
// allocated; ownership passes to the caller.
func (v *Visualizer) Render(features *audio.Features) led.Frame {
	frame := led.NewFrame(v.bins * v.length)

	scales := features.Scales
	energy := features.Energy
	ws := 2 * math.Pi / float64(v.length)

	for i := 0; i < v.length; i++ {
		amp := features.Amplitude(i)
		phi := ws * float64(i)

		for j := 0; j < v.bins; j++ {
			val := scales[j] * (amp[j] - 1)
			frame[j*v.length+i] = v.pixel(val, energy[j], phi)
		}
	}

	return frame
}

func (v *Visualizer) pixel(val, e, phi float64) led.ARGB8 {
	p := &v.params
	vs := p.ValueScale
	ls := p.LightnessScale
	als := p.AlphaScale

	hue := turns(p.Cycle*e + phi)
	value := ls[0]*v.sigmoid.f(vs[0]*val+vs[1]) + ls[1]
	alpha := p.MaxAlpha * v.sigmoid.f(als[0]*val+als[1])

	r, g, b := v.clut.lookup(hue, value)
	return led.ARGB8{
		A: clamp8(31.5*alpha, 31),
		R: clamp8(255.5*r, 255),
		G: clamp8(255.5*g, 255),
		B: clamp8(255.5*b, 255),
	}
}

// turns reduces an angle in radians to [0, 1) turns.
func turns(rad float64) float64 {
	t := math.Mod(rad/(2*math.Pi), 1)
	if t < 0 {
		t++
	}
	return t
}

func clamp8(x float64, max uint8) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= float64(max) {
		return max
	}
	return uint8(x)
}
