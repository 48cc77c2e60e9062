// Package config builds the immutable run configuration for the dev container
// health check. Every value is a compiled-in default registered with Viper;
// no file and no environment variable is ever consulted, so two runs of the
// same binary always probe the same targets.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("config: invalid")

// Config is the full set of constants for a single run. It is passed by value
// into the runner and never mutated afterwards.
type Config struct {
	LogDir       string   `mapstructure:"log_dir"`
	LogFile      string   `mapstructure:"log_file"`
	BannerFile   string   `mapstructure:"banner_file"`
	MarkerPrefix string   `mapstructure:"marker_prefix"` // e.g. "LAB4" → "LAB4_DNS_OK"
	DNSHosts     []string `mapstructure:"dns_hosts"`
	ProbeURL     string   `mapstructure:"probe_url"`
	ProbeTimeout string   `mapstructure:"probe_timeout"`
	Packages     []string `mapstructure:"packages"`
	Interpreter  string   `mapstructure:"interpreter"` // used to query package presence
}

// ParsedProbeTimeout returns the HEAD request timeout, defaulting to 6s.
func (c Config) ParsedProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ProbeTimeout)
	if d <= 0 {
		return 6 * time.Second
	}
	return d
}

// LogPath is the append-only marker log.
func (c Config) LogPath() string { return filepath.Join(c.LogDir, c.LogFile) }

// BannerPath is the human-readable status file rewritten on every run.
func (c Config) BannerPath() string { return filepath.Join(c.LogDir, c.BannerFile) }

// DetailsHint is the log location as shown in the banner, relative to the
// workspace root (e.g. "logs/devcontainer_health.log").
func (c Config) DetailsHint() string {
	return filepath.ToSlash(filepath.Join(filepath.Base(c.LogDir), c.LogFile))
}

// Validate reports the first problem that would make a run meaningless.
func (c Config) Validate() error {
	if c.LogDir == "" {
		return fmt.Errorf("%w: log_dir must be set", ErrInvalid)
	}
	if c.LogFile == "" || c.BannerFile == "" {
		return fmt.Errorf("%w: log_file and banner_file must be set", ErrInvalid)
	}
	if len(c.DNSHosts) == 0 {
		return fmt.Errorf("%w: at least one dns host must be defined", ErrInvalid)
	}
	for i, h := range c.DNSHosts {
		if h == "" {
			return fmt.Errorf("%w: dns_hosts[%d] is empty", ErrInvalid, i)
		}
	}
	u, err := url.Parse(c.ProbeURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: probe_url %q must be an absolute http(s) URL", ErrInvalid, c.ProbeURL)
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("%w: at least one package must be defined", ErrInvalid)
	}
	if c.Interpreter == "" {
		return fmt.Errorf("%w: interpreter must be set", ErrInvalid)
	}
	return nil
}

// Load returns the run configuration. It only fails if the compiled-in
// defaults are themselves inconsistent.
func Load() (Config, error) {
	return unmarshal(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("log_dir", "/workspace/logs")
	v.SetDefault("log_file", "devcontainer_health.log")
	v.SetDefault("banner_file", "DEVCONTAINER_STATUS.txt")
	v.SetDefault("marker_prefix", "LAB4")
	v.SetDefault("dns_hosts", []string{
		"github.com",
		"pypi.org",
		"icanhazdadjoke.com",
		"deckofcardsapi.com",
	})
	// The Dad Jokes API doubles as the reachability target for this lab.
	v.SetDefault("probe_url", "https://icanhazdadjoke.com")
	v.SetDefault("probe_timeout", "6s")
	v.SetDefault("packages", []string{"requests"})
	v.SetDefault("interpreter", "python3")

	return v
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
