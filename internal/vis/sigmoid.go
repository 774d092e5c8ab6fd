package vis

import "math"

// sigmoid is a precomputed logistic function, 1/(1+e^-x), sampled over
// [-sigmoidRange, sigmoidRange]. 2048 entries over a domain of width 20 give
// a resolution of about 0.01, plenty for an 8-bit channel, so lookups do not
// interpolate.
type sigmoid struct {
	lut [sigmoidSize]float64
}

const (
	sigmoidSize  = 2048
	sigmoidRange = 10.0
	sigmoidScale = sigmoidSize / (2 * sigmoidRange)
)

func newSigmoid() *sigmoid {
	s := &sigmoid{}
	const hl = sigmoidSize / 2
	for i := range s.lut {
		x := float64(i-hl) / hl * sigmoidRange
		s.lut[i] = 1 / (1 + math.Exp(-x))
	}
	return s
}

// f returns the LUT sample nearest below x. Inputs outside the domain
// saturate to the boundary entries.
func (s *sigmoid) f(x float64) float64 {
	switch {
	case x >= sigmoidRange:
		return s.lut[sigmoidSize-1]
	case x <= -sigmoidRange:
		return s.lut[0]
	default:
		return s.lut[int(x*sigmoidScale)+sigmoidSize/2]
	}
}
