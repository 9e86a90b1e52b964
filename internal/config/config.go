package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/skyflight/internal/led"
)

type Strip struct {
	Dev        string     `yaml:"dev"`      // periph SPI port name, "" for the first one
	SpeedHz    int        `yaml:"speed_hz"` // e.g. 2500000
	Pixels     int        `yaml:"pixels"`
	Columns    int        `yaml:"columns"`
	Serpentine bool       `yaml:"serpentine"`
	Gamma      float64    `yaml:"gamma"`
	Limits     led.Limits `yaml:"limits"`
}

type Config struct {
	Addr       string  `yaml:"addr"`
	Driver     string  `yaml:"driver"` // "sim" | "spi" | "console" | "none"
	Brightness float64 `yaml:"brightness"`
	FPS        int     `yaml:"fps"`
	Curve      string  `yaml:"curve,omitempty"` // catmullrom | centripetal | chordal

	Strip Strip `yaml:"strip"`
}

// Default is what the binaries run with when no file is given.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		Driver:     "sim",
		Brightness: 0.6,
		FPS:        60,
		Curve:      "catmullrom",
		Strip: Strip{
			SpeedHz: 2500000,
			Pixels:  60,
			Columns: 1,
			Gamma:   2.2,
			Limits:  led.DefaultLimits(),
		},
	}
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	switch c.Driver {
	case "sim", "spi", "console", "none":
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	switch c.Curve {
	case "", "catmullrom", "centripetal", "chordal":
	default:
		return fmt.Errorf("config: unknown curve %q", c.Curve)
	}
	if c.FPS < 0 || c.FPS > 240 {
		return fmt.Errorf("config: fps out of range: %d", c.FPS)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("config: brightness must be in [0,1], got %v", c.Brightness)
	}
	if c.Driver != "none" && c.Strip.Pixels <= 0 {
		return fmt.Errorf("config: strip.pixels must be positive")
	}
	return nil
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) { return LoadOver(path, Default()) }

// LoadOver reads path over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := *base
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
