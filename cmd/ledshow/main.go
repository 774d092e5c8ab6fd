package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"libdb.so/ledshow"
	"libdb.so/ledshow/internal/led"
)

var (
	config   = "ledshow.toml"
	verbose  = false
	dryRun   = false
	initConf = false
	setColor = ""
	testFPS  = 0
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVarP(&dryRun, "dry-run", "n", dryRun, "run without touching the bus")
	pflag.BoolVar(&initConf, "init", initConf, "write the default configuration file and exit")
	pflag.StringVar(&setColor, "set", setColor, "set all LEDs to \"r,g,b[,a]\" and exit")
	pflag.IntVar(&testFPS, "test-fps", testFPS, "measure bus throughput for this many seconds and exit")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if initConf {
		return writeDefaultConfig()
	}

	cfg, err := readConfig()
	if err != nil {
		return err
	}
	if dryRun {
		cfg.Driver = ledshow.DriverNone
	}

	d, err := ledshow.NewDaemon(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	switch {
	case setColor != "":
		c, err := parseColor(setColor)
		if err != nil {
			return err
		}
		return d.SetStatic(c)

	case testFPS > 0:
		fps, err := d.TestFPS(time.Duration(testFPS) * time.Second)
		if err != nil {
			return err
		}
		fmt.Printf("bus throughput: %.1f fps\n", fps)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon failed: %w", err)
	}

	return nil
}

func readConfig() (*ledshow.Config, error) {
	f, err := os.Open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := ledshow.ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func writeDefaultConfig() error {
	f, err := os.OpenFile(config, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return ledshow.DefaultConfig().Save(f)
}

func parseColor(s string) (led.ARGB8, error) {
	var r, g, b int
	a := 31

	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r, &g, &b, &a); err != nil {
		if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
			return led.ARGB8{}, fmt.Errorf("invalid color %q: want r,g,b[,a]", s)
		}
	}

	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return led.ARGB8{}, fmt.Errorf("channel %d outside 0-255", v)
		}
	}
	if a > 31 {
		a = 31
	}
	if a < 0 {
		a = 0
	}

	return led.ARGB8{A: uint8(a), R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}
