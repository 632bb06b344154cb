// Package config loads backend configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the backend needs at startup. It is passed
// explicitly into constructors; no package keeps ambient globals.
type Config struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	DatabaseURL string `mapstructure:"database_url"`

	LastFM LastFMConfig `mapstructure:"lastfm"`
	Log    LogConfig    `mapstructure:"log"`
}

// LastFMConfig holds the Last.fm API credentials.
type LastFMConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional .env file and the process
// environment. Environment variables use the MOODFM_ prefix with
// underscores, e.g. MOODFM_LASTFM_API_KEY.
func Load() (*Config, error) {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("moodfm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// AutomaticEnv only resolves keys viper has seen, so bind the ones
	// without defaults explicitly.
	for _, key := range []string{"database_url", "lastfm.api_key", "lastfm.api_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("MOODFM_DATABASE_URL is required")
	}
	if c.LastFM.APIKey == "" {
		return fmt.Errorf("MOODFM_LASTFM_API_KEY is required")
	}
	if c.LastFM.APISecret == "" {
		return fmt.Errorf("MOODFM_LASTFM_API_SECRET is required")
	}
	return nil
}
