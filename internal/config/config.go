// Package config loads the optional TOML configuration file.
//
// A config file only supplies defaults: the CLI layers environment variables
// and flags on top of it. Unknown keys are rejected so a typo never turns
// into a silently ignored setting.
//
//	[store]
//	url = "mongodb://localhost:27017"
//	database = "thoth"
//	collection = "solver_results"
//
//	[probe]
//	timeout = "10s"
//	rate = 5
//	burst = 1
//	strict_hosts = false
//
//	[metrics]
//	pushgateway = "http://pushgateway:9091"
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultProbeBurst is the limiter bucket size when probe.burst is unset.
const DefaultProbeBurst = 1

// Config is the decoded configuration file.
type Config struct {
	Store   Store   `toml:"store"`
	Probe   Probe   `toml:"probe"`
	Metrics Metrics `toml:"metrics"`
}

// Store selects the result store.
type Store struct {
	URL        string `toml:"url"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	KeyPrefix  string `toml:"key_prefix"`
}

// Probe tunes repository probing.
type Probe struct {
	Timeout     Duration `toml:"timeout"`
	Rate        float64  `toml:"rate"`
	Burst       int      `toml:"burst"`
	StrictHosts bool     `toml:"strict_hosts"`
	UserAgent   string   `toml:"user_agent"`
}

// Metrics configures the Prometheus Pushgateway. An empty Job uses the
// command name.
type Metrics struct {
	Pushgateway string `toml:"pushgateway"`
	Job         string `toml:"job"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads the file at path. An empty path returns [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes TOML text and applies defaults to unset fields.
func Parse(text string) (*Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if c.Probe.Rate < 0 {
		return nil, fmt.Errorf("probe.rate must not be negative")
	}
	c.setDefaults()
	return &c, nil
}

func (c *Config) setDefaults() {
	if c.Probe.Burst <= 0 {
		c.Probe.Burst = DefaultProbeBurst
	}
}
