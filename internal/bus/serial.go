package bus

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Serial streams protocol buffers through a UART bridge, for setups where
// the strip hangs off a USB-serial adapter instead of a local SPI header.
type Serial struct {
	port serial.Port
}

var _ Bus = (*Serial)(nil)

// OpenSerial opens the serial device (e.g. /dev/ttyUSB0) at the given baud
// rate.
func OpenSerial(device string, baud int) (*Serial, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}
	return &Serial{port: port}, nil
}

func (s *Serial) Write(p []byte) error {
	for len(p) > 0 {
		n, err := s.port.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}
