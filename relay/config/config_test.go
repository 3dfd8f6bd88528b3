package config

import (
	"errors"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Port)
	}

	if cfg.MaxPlayers != DefaultMaxPlayers {
		t.Errorf("Expected default max players %d, got %d", DefaultMaxPlayers, cfg.MaxPlayers)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_PLAYERS", "4")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}

	if cfg.MaxPlayers != 4 {
		t.Errorf("Expected max players 4, got %d", cfg.MaxPlayers)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAX_PLAYERS", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg != Default() {
		t.Errorf("Expected defaults with empty environment, got %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name       string
		port       string
		maxPlayers string
	}{
		{"non-numeric port", "eighty", "50"},
		{"port out of range", "70000", "50"},
		{"negative port", "-1", "50"},
		{"non-numeric max players", "8080", "many"},
		{"zero max players", "8080", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			t.Setenv("MAX_PLAYERS", tt.maxPlayers)

			if _, err := FromEnv(); err == nil {
				t.Errorf("Expected error for PORT=%q MAX_PLAYERS=%q", tt.port, tt.maxPlayers)
			}
		})
	}
}

func TestValidateSentinels(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidPort) {
		t.Errorf("Expected ErrInvalidPort, got %v", err)
	}

	cfg = Default()
	cfg.MaxPlayers = -5
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxPlayers) {
		t.Errorf("Expected ErrInvalidMaxPlayers, got %v", err)
	}
}
