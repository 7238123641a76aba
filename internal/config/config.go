package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"timeduration/internal/duration"
	"timeduration/internal/interval"
	appLog "timeduration/internal/log"
)

// CalendarConfig describes a single ICS source the CLI reads by default.
type CalendarConfig struct {
	// ID is an internal identifier used for logging and instance keys.
	ID string `yaml:"id" json:"id"`
	// Location is a file path or an http(s) URL.
	Location string `yaml:"location" json:"location"`
	// Name is a human-friendly label.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Config is the top-level CLI configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Designator is the separator used when printing intervals the CLI
	// builds itself: "/" (default) or "--".
	Designator string `yaml:"designator" json:"designator"`

	// MaxOccurrences caps how many occurrences iterate prints and how many
	// occurrences per event ICS expansion keeps.
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences"`

	// Timezone is the IANA timezone occurrences are displayed in
	// (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// Window is how far past now ICS expansion looks, e.g. P3M.
	Window duration.Duration `yaml:"window" json:"window"`

	// Calendars are the ICS sources expanded when none is given on the
	// command line.
	Calendars []CalendarConfig `yaml:"calendars" json:"calendars"`
}

const (
	defaultLogLevel       = "info"
	defaultMaxOccurrences = 100
	defaultTimezone       = "UTC"
	defaultWindow         = "P1Y"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       defaultLogLevel,
		Designator:     interval.Solidus,
		MaxOccurrences: defaultMaxOccurrences,
		Timezone:       defaultTimezone,
		Window:         duration.MustParse(defaultWindow),
		Calendars:      []CalendarConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = defaultLogLevel
	}
	switch c.Designator {
	case interval.Solidus, interval.DoubleHyphen:
	default:
		c.Designator = interval.Solidus
	}
	if c.MaxOccurrences <= 0 {
		c.MaxOccurrences = defaultMaxOccurrences
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.Window.IsZero() || c.Window.UnixMilli() <= 0 {
		c.Window = duration.MustParse(defaultWindow)
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarConfig{}
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", c.Timezone)
	}
	return loc, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms (creating the parent directory) and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			appLog.Info("default config written", "path", path)
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file in the same directory, then rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	tmp, err := os.CreateTemp(dir, ".isodur-config-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp config")
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp config")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp config")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "chmod temp config")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "replace config")
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
