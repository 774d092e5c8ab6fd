// Package audio captures samples and distills them into the perceptual
// features that drive the visualization.
package audio

// Features is one cycle's worth of analysis output: a gain scale and an
// accumulated energy per frequency bin, plus an amplitude vector per spatial
// position. Every snapshot is freshly allocated, so ownership transfers to
// the consumer on send.
type Features struct {
	Bins   int
	Length int

	// Scales is the per-bin normalization gain. Multiplying a bin's
	// amplitude deviation by its scale recovers a comparable signal across
	// bins.
	Scales []float64
	// Energy is the per-bin accumulated energy, used as a hue angle.
	Energy []float64
	// Amplitudes is indexed [position][bin]. Values sit near the 1.0
	// baseline; deviation from it is the signal.
	Amplitudes [][]float64
}

// Amplitude returns the per-bin amplitude vector at position i.
func (f *Features) Amplitude(i int) []float64 {
	return f.Amplitudes[i]
}
