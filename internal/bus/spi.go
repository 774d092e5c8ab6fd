package bus

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var hostInit sync.Once

// SPI drives the strip over a hardware SPI port.
type SPI struct {
	port spi.Port
	conn spi.Conn
}

var _ Bus = (*SPI)(nil)

// OpenSPI opens the named SPI port ("" picks the first available) at the
// given clock in hertz.
func OpenSPI(name string, clockHz int) (*SPI, error) {
	var initErr error
	hostInit.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, errors.Wrap(initErr, "failed to initialize host drivers")
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SPI port")
	}

	s, err := NewSPI(port, clockHz)
	if err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI connects an already-open port. Split out so tests can inject a
// recording port.
func NewSPI(port spi.Port, clockHz int) (*SPI, error) {
	conn, err := port.Connect(physic.Frequency(clockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to SPI port")
	}
	return &SPI{port: port, conn: conn}, nil
}

func (s *SPI) Write(p []byte) error {
	return s.conn.Tx(p, nil)
}

func (s *SPI) Close() error {
	if closer, ok := s.port.(spi.PortCloser); ok {
		return closer.Close()
	}
	return nil
}
