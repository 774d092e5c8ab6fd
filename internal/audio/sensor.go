package audio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FilterParams holds the coefficients of a two-level low-pass filter. Each
// level is out' = [0]*in + [1]*out; the second level is a slow corrector
// whose output is folded back into the first, which cancels DC so the filter
// tracks deviation rather than absolute level.
type FilterParams struct {
	Level0 []float64 `toml:"level0"`
	Level1 []float64 `toml:"level1"`
}

// SensorParams shape the frequency sensor's response.
type SensorParams struct {
	// GainFilter smooths the per-bin amplitude.
	GainFilter FilterParams `toml:"gain_filter"`
	// DiffFilter smooths the amplitude differential that drives energy.
	DiffFilter FilterParams `toml:"diff_filter"`
	// VGC is the variable gain controller's [proportional, damping] pair.
	// It holds each bin's normalized amplitude near the 1.0 baseline.
	VGC []float64 `toml:"vgc"`
	// Offset and Gain place the filtered deviation onto the baseline:
	// amplitude = Offset + Gain*deviation.
	Offset float64 `toml:"offset"`
	Gain   float64 `toml:"gain"`
	// DiffGain converts the smoothed differential into energy drain.
	DiffGain float64 `toml:"diff_gain"`
	// Sync pulls each bin's energy toward the mean, keeping hues loosely
	// aligned across bins.
	Sync float64 `toml:"sync"`
}

// DefaultSensorParams returns the tuning used by the reference wall.
func DefaultSensorParams() SensorParams {
	return SensorParams{
		GainFilter: FilterParams{
			Level0: []float64{0.80, 0.20},
			Level1: []float64{-0.005, 0.995},
		},
		DiffFilter: FilterParams{
			Level0: []float64{0.95, 0.10},
			Level1: []float64{-0.04, 0.96},
		},
		VGC:      []float64{0.05, 0.95},
		Offset:   1,
		Gain:     1,
		DiffGain: 4e-3,
		Sync:     1.8e-3,
	}
}

// Sensor accumulates per-bin state across cycles and produces one Features
// snapshot per processed spectrum. It is owned by the analysis loop and is
// not safe for concurrent use.
type Sensor struct {
	params SensorParams
	bins   int
	length int

	gain    []float64 // variable gain per bin
	gainVel []float64

	ampState  [2][]float64
	diffState [2][]float64
	diff      []float64

	energy []float64
	amps   [][]float64 // [length][bins], amps[0] is the newest column
}

// NewSensor creates a sensor for the given number of bins and spatial
// positions.
func NewSensor(bins, length int, params SensorParams) *Sensor {
	s := &Sensor{
		params:  params,
		bins:    bins,
		length:  length,
		gain:    make([]float64, bins),
		gainVel: make([]float64, bins),
		diff:    make([]float64, bins),
		energy:  make([]float64, bins),
		amps:    make([][]float64, length),
	}
	for i := range s.gain {
		s.gain[i] = 1
	}
	for lv := 0; lv < 2; lv++ {
		s.ampState[lv] = make([]float64, bins)
		s.diffState[lv] = make([]float64, bins)
	}
	for i := range s.amps {
		s.amps[i] = make([]float64, bins)
		for j := range s.amps[i] {
			s.amps[i][j] = params.Offset
		}
	}
	return s
}

// Process consumes one bucketed spectrum (len == bins) and returns the
// features for this cycle. The input slice is mutated.
func (s *Sensor) Process(frame []float64) *Features {
	s.applyGain(frame)
	s.applyFilters(frame)
	s.applyEffects(frame)
	s.applySync()
	return s.snapshot()
}

// applyGain normalizes each bin toward the 1.0 baseline with a damped
// proportional controller, so quiet and loud sources land in the same range.
func (s *Sensor) applyGain(frame []float64) {
	kp, kd := s.params.VGC[0], s.params.VGC[1]
	for i := range frame {
		frame[i] *= s.gain[i]
		e := 1 - frame[i]
		s.gainVel[i] = kd*s.gainVel[i] + kp*e
		s.gain[i] = clampF(s.gain[i]+s.gainVel[i], 1e-2, 1e4)
	}
}

func (s *Sensor) applyFilters(frame []float64) {
	filter(frame, s.ampState, s.params.GainFilter, s.diff)
	filter(s.diff, s.diffState, s.params.DiffFilter, nil)
}

// filter runs the two-level filter in place over x. If diff is non-nil it
// receives the first level's per-cycle change.
func filter(x []float64, state [2][]float64, p FilterParams, diff []float64) {
	coeffs := [2][]float64{p.Level0, p.Level1}
	for level := 0; level < 2; level++ {
		a := coeffs[level]
		st := state[level]
		for i := range x {
			out := a[0]*x[i] + a[1]*st[i]
			if level == 0 && diff != nil {
				diff[i] = out - st[i]
			}
			x[i] = out
			st[i] = out
		}
	}
	// Fold the corrector back into the first level.
	for i := range x {
		state[0][i] += state[1][i]
		x[i] = state[0][i]
	}
}

// applyEffects ages the amplitude history one column and writes the newest
// filtered deviations at the front, then drains energy by the differential.
func (s *Sensor) applyEffects(filtered []float64) {
	decay := 1 - 2/float64(s.length)
	for i := s.length - 2; i >= 0; i-- {
		prev, next := s.amps[i], s.amps[i+1]
		for j := range next {
			next[j] = s.params.Offset + decay*(prev[j]-s.params.Offset)
		}
	}
	for j := range filtered {
		s.amps[0][j] = s.params.Offset + s.params.Gain*filtered[j]
		s.energy[j] += 0.001 - s.params.DiffGain*math.Abs(s.diff[j])
	}
}

// applySync wraps the mean energy back into one turn and pulls outliers
// toward it, quadratically in their distance.
func (s *Sensor) applySync() {
	avg := floats.Sum(s.energy) / float64(s.bins)
	if avg < -2*math.Pi {
		floats.AddConst(2*math.Pi, s.energy)
		avg += 2 * math.Pi
	}
	if avg > 2*math.Pi {
		floats.AddConst(-2*math.Pi, s.energy)
		avg -= 2 * math.Pi
	}
	for i, e := range s.energy {
		d := avg - e
		if d < 0 {
			d = -(d * d)
		} else {
			d = d * d
		}
		s.energy[i] = e + s.params.Sync*d
	}
}

func (s *Sensor) snapshot() *Features {
	f := &Features{
		Bins:       s.bins,
		Length:     s.length,
		Scales:     append([]float64(nil), s.gain...),
		Energy:     append([]float64(nil), s.energy...),
		Amplitudes: make([][]float64, s.length),
	}
	for i := range f.Amplitudes {
		f.Amplitudes[i] = append([]float64(nil), s.amps[i]...)
	}
	return f
}

func clampF(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
