package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/eth2030/bls12381g2/log"
)

// Configuration errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// maxBenchIterations bounds a single bench run.
const maxBenchIterations = 1_000_000

// LogConfig controls the tool's logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	Iterations int    `toml:"iterations"`
	Seed       string `toml:"seed"`
}

// Config is the optional TOML configuration of g2tool. Command-line flags
// override values read from the file.
type Config struct {
	Log   LogConfig   `toml:"log"`
	Bench BenchConfig `toml:"bench"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: string(log.FormatText),
		},
		Bench: BenchConfig{
			Iterations: 64,
			Seed:       "g2tool bench",
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return cfg, err
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Bench.Iterations <= 0 || c.Bench.Iterations > maxBenchIterations {
		return fmt.Errorf("%w: bench.iterations must be in 1..%d, got %d",
			ErrInvalidConfig, maxBenchIterations, c.Bench.Iterations)
	}
	return nil
}

// LogOptions converts the log section into logger options. Validate must
// have succeeded first.
func (c Config) LogOptions() log.Options {
	level, _ := log.ParseLevel(c.Log.Level)
	format, _ := log.ParseFormat(c.Log.Format)
	return log.Options{Level: level, Format: format, File: c.Log.File}
}
