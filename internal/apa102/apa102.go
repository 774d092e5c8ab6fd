// Package apa102 implements the APA102 ("DotStar") wire format.
//
// A transfer is a 4-byte zero start frame, one 4-byte LED frame per pixel,
// and a trailing end-frame region of 6 + length/16 bytes whose first byte is
// 0xFF. The end-frame bytes are extra clock pulses; their size grows with the
// chain so the last pixels still latch.
package apa102

import "libdb.so/ledshow/internal/led"

const startFrameSize = 4

// Strip encodes frames for an APA102 chain of a fixed length. The transfer
// buffer is allocated once and mutated in place; Update only touches the LED
// frame region.
type Strip struct {
	length int
	buffer []byte
}

// New creates an encoder for a chain of the given number of pixels.
func New(length int) *Strip {
	ledFrames := 4 * (length + 1)
	endFrames := 6 + length/16

	buffer := make([]byte, ledFrames+endFrames)
	buffer[ledFrames] = 0xFF

	return &Strip{
		length: length,
		buffer: buffer,
	}
}

// Length returns the number of pixels the encoder was sized for.
func (s *Strip) Length() int { return s.length }

// Update encodes the frame into the transfer buffer. Each pixel becomes
// [0xE0|brightness, blue, green, red]; the top three bits of the first byte
// are always set, per the protocol.
func (s *Strip) Update(frame led.Frame) {
	for i := 0; i < s.length; i++ {
		idx := startFrameSize * (1 + i)
		p := frame[i]
		s.buffer[idx] = 0xE0 | p.A&0x1F
		s.buffer[idx+1] = p.B
		s.buffer[idx+2] = p.G
		s.buffer[idx+3] = p.R
	}
}

// Buffer returns the transfer buffer. The caller must not retain it across
// Update calls that it does not own.
func (s *Strip) Buffer() []byte { return s.buffer }
