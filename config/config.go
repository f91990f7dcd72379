// Package config loads phparse.toml.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/dhamidi/phparse/lalr"
)

const FileName = "phparse.toml"

type Config struct {
	Parse Parse `toml:"parse"`
	Lint  Lint  `toml:"lint"`
	Log   Log   `toml:"log"`
}

type Parse struct {
	// Collect keeps parsing after the first diagnostic.
	Collect     bool `toml:"collect"`
	MaxExpected int  `toml:"max_expected"`
}

type Lint struct {
	Workers int `toml:"workers"`
	// Exclude holds filepath.Match patterns, matched against both the
	// slash separated path and its base name.
	Exclude   []string `toml:"exclude"`
	MaxErrors int      `toml:"max_errors"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

func Default() *Config {
	c := &Config{Parse: Parse{MaxExpected: lalr.DefaultMaxExpected}}
	c.applyDefaults()
	return c
}

// applyDefaults fills settings whose zero value is not usable.
func (c *Config) applyDefaults() {
	if c.Lint.Workers <= 0 {
		c.Lint.Workers = runtime.GOMAXPROCS(0)
	}
}

// Load decodes path over the defaults. Keys the Config does not know are
// an error.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := c.validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) validate() error {
	if c.Parse.MaxExpected < 0 {
		return errors.New("parse.max_expected must not be negative")
	}
	if c.Lint.MaxErrors < 0 {
		return errors.New("lint.max_errors must not be negative")
	}
	for _, pattern := range c.Lint.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return errors.Wrapf(err, "lint.exclude pattern %q", pattern)
		}
	}
	return nil
}

// Find looks for phparse.toml in dir and its parents and returns "" when
// there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadDefault loads the nearest phparse.toml above dir, or the defaults.
func LoadDefault(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range c.Lint.Exclude {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
