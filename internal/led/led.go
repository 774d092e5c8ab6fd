// Package led holds the pixel and frame types shared by the render and
// output stages.
package led

// ARGB8 is a single pixel: a 5-bit global brightness field (0-31) and 8-bit
// red, green and blue channels. It is a plain value; copy it freely.
type ARGB8 struct {
	A uint8
	R uint8
	G uint8
	B uint8
}

// Frame is one complete set of pixel colors for the whole canvas, laid out
// row-major as strip*stripLength + position.
type Frame []ARGB8

// NewFrame creates a frame of the given size with all pixels off.
func NewFrame(size int) Frame {
	return make(Frame, size)
}

// Fill sets every pixel to c.
func (f Frame) Fill(c ARGB8) {
	for i := range f {
		f[i] = c
	}
}

// Clone returns a fresh copy of the frame.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	copy(out, f)
	return out
}
