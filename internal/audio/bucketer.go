package audio

import "math"

// Bucketer folds a linear FFT magnitude spectrum into a small number of
// log-spaced frequency buckets, which tracks pitch perception better than
// equal-width slices.
type Bucketer struct {
	// Indices are the bucket edges as spectrum indices. Bucket k covers
	// [Indices[k], Indices[k+1]).
	Indices []int
	bins    int
}

// NewBucketer builds edges for a spectrum of the given size produced by an
// fftSize-point transform at sampleRate, spanning [fMin, fMax] Hz.
func NewBucketer(size, fftSize, bins int, fMin, fMax, sampleRate float64) *Bucketer {
	nyquist := sampleRate / 2
	if fMax > nyquist {
		fMax = nyquist
	}

	indices := make([]int, bins+1)
	ratio := fMax / fMin
	for k := 0; k <= bins; k++ {
		f := fMin * math.Pow(ratio, float64(k)/float64(bins))
		idx := int(f * float64(fftSize) / sampleRate)
		// Every bucket gets at least one index, even where the log curve is
		// denser than the spectrum.
		if k > 0 && idx <= indices[k-1] {
			idx = indices[k-1] + 1
		}
		if idx > size {
			idx = size
		}
		indices[k] = idx
	}

	return &Bucketer{Indices: indices, bins: bins}
}

// Bucket writes the mean magnitude of each bucket into dst (len == bins) and
// returns it.
func (b *Bucketer) Bucket(spectrum, dst []float64) []float64 {
	for k := 0; k < b.bins; k++ {
		lo, hi := b.Indices[k], b.Indices[k+1]
		if hi <= lo {
			dst[k] = 0
			continue
		}
		var sum float64
		for i := lo; i < hi; i++ {
			sum += spectrum[i]
		}
		dst[k] = sum / float64(hi-lo)
	}
	return dst
}
