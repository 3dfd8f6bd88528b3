package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort       = 8080
	DefaultMaxPlayers = 50
)

var (
	ErrInvalidPort       = errors.New("port must be between 1 and 65535")
	ErrInvalidMaxPlayers = errors.New("max players must be at least 1")
)

// Config holds the startup configuration for the relay server.
// It is read once at startup and never mutated afterwards.
type Config struct {
	// Port is the TCP port the HTTP server listens on (PORT).
	Port int

	// MaxPlayers is the per-room capacity limit (MAX_PLAYERS).
	MaxPlayers int
}

// Default returns the configuration used when no environment overrides exist.
func Default() Config {
	return Config{
		Port:       DefaultPort,
		MaxPlayers: DefaultMaxPlayers,
	}
}

// FromEnv builds a Config from the PORT and MAX_PLAYERS environment
// variables, falling back to defaults for unset variables. Values that are
// set but unparsable or out of range are reported as errors rather than
// silently replaced.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("MAX_PLAYERS"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_PLAYERS %q: %w", v, err)
		}
		cfg.MaxPlayers = max
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.Port)
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPlayers, c.MaxPlayers)
	}
	return nil
}
