// Package config reads the client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is everything the client needs to reach the hosted backend.
type Config struct {
	// BaseURL is the backend project endpoint.
	BaseURL string
	// AnonKey is the public API key.
	AnonKey string
	// Timeout bounds a single request round trip.
	Timeout time.Duration
}

// Load reads configuration from a .env file (when present) and the process
// environment. Environment variables win over the file. The endpoint URL and
// anon key have no usable defaults and must be set.
func Load() (Config, error) {
	// Load .env if it exists; a missing file is not an error.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("GYANSETU")
	v.AutomaticEnv()
	v.SetDefault("timeout", 15*time.Second)

	cfg := Config{
		BaseURL: v.GetString("url"),
		AnonKey: v.GetString("anon_key"),
		Timeout: v.GetDuration("timeout"),
	}
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("GYANSETU_URL is not set")
	}
	if cfg.AnonKey == "" {
		return Config{}, fmt.Errorf("GYANSETU_ANON_KEY is not set")
	}
	return cfg, nil
}
