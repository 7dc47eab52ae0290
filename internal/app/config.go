package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime wiring options for building the CLI app.
type Config struct {
	Home     string       // config directory, e.g. $HOME/.courier
	RelayURL string       // relay base URL, e.g. http://127.0.0.1:8080
	Hash     string       // hash algorithm name; empty means SHA256
	HTTP     *http.Client // optional; defaults to http.DefaultClient
}

// Duration parses YAML scalars like "90m" or "12h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library form.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig configures the relay daemon.
type ServerConfig struct {
	Listen        string   `yaml:"listen"`
	DataDir       string   `yaml:"data_dir"`
	LogLevel      string   `yaml:"log_level"`
	PurgeInterval Duration `yaml:"purge_interval"`
}

// DefaultServerConfig returns the daemon defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen:        ":8080",
		DataDir:       "courier-data",
		LogLevel:      "info",
		PurgeInterval: Duration(time.Hour),
	}
}

// LoadServerConfig reads the optional YAML file at path, then applies
// environment overrides (COURIER_LISTEN, COURIER_DATA_DIR,
// COURIER_LOG_LEVEL, COURIER_PURGE_INTERVAL). A .env file in the working
// directory seeds the environment when present.
func LoadServerConfig(path string) (ServerConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultServerConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return ServerConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("COURIER_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("COURIER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("COURIER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COURIER_PURGE_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("COURIER_PURGE_INTERVAL: %w", err)
		}
		cfg.PurgeInterval = Duration(parsed)
	}
	return cfg, nil
}
