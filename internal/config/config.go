// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "habitat-pricer/internal/errors"
	"habitat-pricer/internal/logging"
)

// Environment variables that override file settings
const (
	EnvModelURL = "HABITAT_PRICER_MODEL_URL"
	EnvAddr     = "HABITAT_PRICER_ADDR"
	EnvNATSURL  = "HABITAT_PRICER_NATS_URL"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Model selects the predictor
	Model ModelConfig `json:"model"`

	// Server contains HTTP API settings
	Server ServerConfig `json:"server"`

	// Display contains price update sinks
	Display DisplayConfig `json:"display"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ModelConfig chooses between a local artifact and a remote model server
type ModelConfig struct {
	// Path is an HCL or YAML model artifact; empty uses the built-in one
	Path string `json:"path,omitempty"`

	// RemoteURL, when set, sends predictions to a model server instead
	RemoteURL string `json:"remote_url,omitempty"`

	// TimeoutSeconds bounds one remote prediction
	TimeoutSeconds int `json:"timeout_seconds"`

	// Variables are exposed to HCL artifacts as var.<name>
	Variables map[string]float64 `json:"variables,omitempty"`
}

// Timeout returns the remote prediction timeout
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`

	// SessionTTLMinutes is how long an idle session survives
	SessionTTLMinutes int `json:"session_ttl_minutes"`
}

// SessionTTL returns the idle session lifetime
func (s ServerConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// DisplayConfig contains optional price update publishers
type DisplayConfig struct {
	// NATSURL enables publishing of every displayed price
	NATSURL string `json:"nats_url,omitempty"`

	// NATSSubject is the subject prices are published on
	NATSSubject string `json:"nats_subject"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Model: ModelConfig{
			TimeoutSeconds: 5,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			SessionTTLMinutes:   30,
		},
		Display: DisplayConfig{
			NATSSubject: "habitat.price",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.habitat-pricer.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".habitat-pricer.json")
}

// Load loads configuration from a file, falling back to defaults when it is missing
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, apperrors.Config("read "+path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Config("parse "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvModelURL); v != "" {
		c.Model.RemoteURL = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.Display.NATSURL = v
	}
}

// Validate rejects settings no component can run with
func (c *Config) Validate() error {
	if c.Model.TimeoutSeconds <= 0 {
		return apperrors.Config("model.timeout_seconds must be positive", nil)
	}
	if c.Server.SessionTTLMinutes <= 0 {
		return apperrors.Config("server.session_ttl_minutes must be positive", nil)
	}
	if c.Display.NATSURL != "" && c.Display.NATSSubject == "" {
		return apperrors.Config("display.nats_subject is required with display.nats_url", nil)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
