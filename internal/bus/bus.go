// Package bus abstracts the byte transport to the LED hardware.
package bus

// Bus accepts complete protocol buffers and transmits them. A failed write
// is transient: the caller logs it and keeps going.
type Bus interface {
	Write(p []byte) error
	Close() error
}

// Null discards every write. Used for dry runs and throughput tests.
type Null struct {
	// Writes counts discarded frames.
	Writes int
}

func (n *Null) Write(p []byte) error { n.Writes++; return nil }
func (n *Null) Close() error         { return nil }
