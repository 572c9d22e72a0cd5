// Package config loads campfinder configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all environment-derived settings for the server.
type Config struct {
	Port          int    `env:"PORT" envDefault:"8080"`
	DatabasePath  string `env:"DATABASE_PATH"`
	SessionSecret string `env:"SESSION_SECRET"`
	GeocoderKey   string `env:"GEOCODER_KEY"`
	GeocoderURL   string `env:"GEOCODER_URL" envDefault:"https://maps.googleapis.com/maps/api/geocode/json"`
	BaseURL       string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DevMode       bool   `env:"DEV_MODE"`
}

// Load reads configuration from a .env file (if present) and the process
// environment. Real environment variables win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// ValidateForServe checks the settings the HTTP server cannot run without.
func (c Config) ValidateForServe() error {
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	if c.GeocoderKey == "" {
		return fmt.Errorf("GEOCODER_KEY is required")
	}
	return nil
}
