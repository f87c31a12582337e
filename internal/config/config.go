package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the gateway configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	IBM     IBMConfig     `yaml:"ibm"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// AuthConfig contains authentication settings. No keys means the API is
// open, which matches the dashboard's default deployment.
type AuthConfig struct {
	APIKeys []APIKey `yaml:"api_keys"`
}

// APIKey represents an API key for authentication
type APIKey struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

// IBMConfig contains IBM Quantum connection settings. Token and Instance
// missing means the vendor session is disabled and every API endpoint
// answers 503.
type IBMConfig struct {
	Token              string        `yaml:"token"`
	Instance           string        `yaml:"instance"`
	Channel            string        `yaml:"channel"`
	TokenRefreshMargin time.Duration `yaml:"token_refresh_margin"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// SessionConfigured reports whether vendor credentials are present
func (c *Config) SessionConfigured() bool {
	return c.IBM.Token != "" && c.IBM.Instance != ""
}

// Load reads and parses a configuration file, expanding environment
// variables in its contents
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.applyEnvCredentials()
	return &cfg, nil
}

// FromEnv builds a configuration purely from environment variables,
// matching the original deployment where a .env file carried everything
func FromEnv() *Config {
	cfg := &Config{}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")
	cfg.Logging.Format = os.Getenv("LOG_FORMAT")

	cfg.ApplyDefaults()
	cfg.applyEnvCredentials()
	return cfg
}

// ApplyDefaults fills unset fields with their deployment defaults
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Result fetches for completed jobs can take a while
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.IBM.Channel == "" {
		c.IBM.Channel = "ibm_cloud"
	}
	if c.IBM.TokenRefreshMargin == 0 {
		c.IBM.TokenRefreshMargin = 5 * time.Minute
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// applyEnvCredentials lets the environment override credentials so a
// checked-in config file never has to carry them
func (c *Config) applyEnvCredentials() {
	if token := os.Getenv("IBM_QUANTUM_TOKEN"); token != "" {
		c.IBM.Token = token
	}
	if instance := os.Getenv("IBM_QUANTUM_INSTANCE"); instance != "" {
		c.IBM.Instance = instance
	}
	if channel := os.Getenv("IBM_QUANTUM_CHANNEL"); channel != "" {
		c.IBM.Channel = channel
	}
}
