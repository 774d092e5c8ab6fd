package ledshow

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"libdb.so/ledshow/internal/audio"
	"libdb.so/ledshow/internal/vis"
)

// Driver names accepted by Config.Driver.
const (
	DriverSPI    = "spi"
	DriverSerial = "serial"
	DriverNone   = "none"
)

// Config is the configuration for the ledshow daemon.
type Config struct {
	// Driver selects the output bus: "spi", "serial" or "none".
	Driver string `toml:"driver"`
	// Device is the bus device. For SPI this is a periph port name (empty
	// picks the first available); for serial it is a device file such as
	// /dev/ttyUSB0.
	Device string `toml:"device"`
	// Clock is the SPI clock in hertz.
	Clock int `toml:"clock"`
	// Baud is the serial baud rate.
	Baud int `toml:"baud"`

	Strip      StripConfig        `toml:"strip"`
	Audio      audio.Config       `toml:"audio"`
	Visualizer vis.Params         `toml:"visualizer"`
	Sensor     audio.SensorParams `toml:"sensor"`
}

// StripConfig is the topology descriptor: how the logical canvas maps onto
// the physical chain.
type StripConfig struct {
	// Strips and Length describe a Strips x Length canvas of daisy-chained
	// strips.
	Strips int `toml:"strips"`
	Length int `toml:"length"`
	// Reversed marks logical strips that are wired back to front.
	Reversed []bool `toml:"reversed"`
	// XMap maps each logical strip to its physical segment.
	XMap []int `toml:"x_map"`
}

// NumLEDs returns the total pixel count of the chain.
func (c *StripConfig) NumLEDs() int {
	return c.Strips * c.Length
}

// DefaultConfig returns the configuration for a 4x144 wall on local SPI.
func DefaultConfig() *Config {
	return &Config{
		Driver: DriverSPI,
		Clock:  4000000,
		Baud:   115200,
		Strip: StripConfig{
			Strips:   4,
			Length:   144,
			Reversed: []bool{false, true, false, true},
			XMap:     []int{0, 2, 1, 3},
		},
		Audio:      audio.DefaultAudioConfig(),
		Visualizer: vis.DefaultParams(),
		Sensor:     audio.DefaultSensorParams(),
	}
}

// Validate validates the configuration. Topology mistakes are configuration
// errors and abort startup; nothing here degrades silently.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSPI, "": // SPI is the default bus
		if c.Clock <= 0 {
			return errors.Errorf("invalid SPI clock %d", c.Clock)
		}
	case DriverSerial:
		if c.Device == "" {
			return errors.New("serial driver requires a device")
		}
		if c.Baud <= 0 {
			return errors.Errorf("invalid baud rate %d", c.Baud)
		}
	case DriverNone:
	default:
		return errors.Errorf("unknown driver %q", c.Driver)
	}

	s := &c.Strip
	if s.Strips <= 0 || s.Length <= 0 {
		return errors.Errorf("invalid strip topology %dx%d", s.Strips, s.Length)
	}
	if len(s.Reversed) != s.Strips || len(s.XMap) != s.Strips {
		return errors.Errorf(
			"reversed (%d) and x_map (%d) must both have exactly %d entries",
			len(s.Reversed), len(s.XMap), s.Strips)
	}

	a := &c.Audio
	if a.SampleRate <= 0 {
		return errors.Errorf("invalid sample rate %g", a.SampleRate)
	}
	if a.Window <= 0 || a.Window&(a.Window-1) != 0 {
		return errors.Errorf("audio window %d must be a power of two", a.Window)
	}
	if a.Bins < s.Strips {
		return errors.Errorf("audio bins (%d) must cover all %d strips", a.Bins, s.Strips)
	}
	if a.MinFrequency <= 0 || a.MaxFrequency <= a.MinFrequency {
		return errors.Errorf("invalid frequency range [%g, %g]", a.MinFrequency, a.MaxFrequency)
	}

	for _, pair := range [][]float64{
		c.Visualizer.ValueScale,
		c.Visualizer.LightnessScale,
		c.Visualizer.AlphaScale,
	} {
		if len(pair) != 2 {
			return errors.Errorf("visualizer scale %v must be a [gain, offset] pair", pair)
		}
	}
	if c.Visualizer.MaxAlpha < 0 || c.Visualizer.MaxAlpha > 1 {
		return errors.Errorf("max_alpha %g outside [0, 1]", c.Visualizer.MaxAlpha)
	}

	for _, pair := range [][]float64{
		c.Sensor.GainFilter.Level0, c.Sensor.GainFilter.Level1,
		c.Sensor.DiffFilter.Level0, c.Sensor.DiffFilter.Level1,
		c.Sensor.VGC,
	} {
		if len(pair) != 2 {
			return errors.Errorf("sensor coefficient %v must be a pair", pair)
		}
	}

	return nil
}

// ParseConfig parses a configuration from a reader.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
