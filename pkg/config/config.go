// Package config loads gdsr settings from TOML files.
//
// A configuration file sets the defaults used by the command line tool:
//
//	units = 1e-6        # user unit in meters
//	precision = 1e-10   # database unit in meters
//	tolerance = 1e-4    # geometric equality tolerance
//	max_depth = -1      # flatten depth, -1 for unlimited
//	strict = false      # fail reads on references to undefined cells
//	filter = ["1/0", "2"]
//
// Keys left out of the file keep their [Default] values. Command line flags
// override file values.
package config

import (
	"errors"
	"io/fs"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/gds"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// Config holds the settings shared by reading, writing and flattening.
type Config struct {
	Units     float64  `toml:"units"`
	Precision float64  `toml:"precision"`
	Tolerance float64  `toml:"tolerance"`
	MaxDepth  int      `toml:"max_depth"`
	Strict    bool     `toml:"strict"`
	Filter    []string `toml:"filter"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Units:     gds.DefaultUnits,
		Precision: gds.DefaultPrecision,
		Tolerance: float64(geom.DefaultTolerance),
		MaxDepth:  layout.Unlimited,
	}
}

// Load reads path on top of [Default]. Unknown keys are rejected so that a
// misspelled setting does not silently fall back to its default.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of [Default]. Like [Load] it rejects
// unknown keys.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return errs.New(errs.ErrCodeInvalidConfig, "unknown keys %s", strings.Join(keys, ", "))
}

// ApplyDefaults fills zero-valued unit and tolerance settings.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Units == 0 {
		c.Units = d.Units
	}
	if c.Precision == 0 {
		c.Precision = d.Precision
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if err := errs.ValidateUnits(c.Units, c.Precision); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "units")
	}
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxDepth < layout.Unlimited {
		return errs.New(errs.ErrCodeInvalidConfig, "max_depth must be -1 or more, got %d", c.MaxDepth)
	}
	if _, err := c.ParsedFilter(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "filter")
	}
	return nil
}

// ParsedFilter converts the filter entries to a [layout.Filter].
func (c Config) ParsedFilter() (layout.Filter, error) {
	if len(c.Filter) == 0 {
		return nil, nil
	}
	return layout.ParseFilter(strings.Join(c.Filter, ","))
}

// GeomTolerance returns the tolerance as a [geom.Tolerance].
func (c Config) GeomTolerance() geom.Tolerance { return geom.Tolerance(c.Tolerance) }

// WriteOptions returns encoder options for these settings.
func (c Config) WriteOptions(logger *log.Logger) gds.Options {
	return gds.Options{Units: c.Units, Precision: c.Precision, Logger: logger}
}

// ReadOptions returns decoder options for these settings.
func (c Config) ReadOptions(logger *log.Logger) gds.ReadOptions {
	return gds.ReadOptions{Strict: c.Strict, Logger: logger}
}

// FlattenOptions returns flatten options for these settings. The filter must
// have passed [Config.Validate].
func (c Config) FlattenOptions() layout.FlattenOptions {
	f, _ := c.ParsedFilter()
	return layout.FlattenOptions{Filter: f, MaxDepth: c.MaxDepth}
}
