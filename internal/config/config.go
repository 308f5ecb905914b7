// Package config handles configuration management for ntpwire
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quartzlab/ntpwire/pkg/ntpwire"
)

const (
	ConfigFileName = "config.yaml"
	DataDirName    = ".ntpwire"
	LogFileName    = "ntpwire.log"
)

// Config represents the main configuration structure
type Config struct {
	// Servers to query
	Servers []Server `yaml:"servers"`

	// Query settings
	Query QueryConfig `yaml:"query"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// Server represents a single NTP server to query
type Server struct {
	// Server address (hostname or IP)
	Address string `yaml:"address"`

	// Port (default: 123)
	Port int `yaml:"port"`

	// Enabled status
	Enabled bool `yaml:"enabled"`
}

// QueryConfig holds query behavior settings
type QueryConfig struct {
	// Timeout for a single query in seconds
	Timeout int `yaml:"timeout"`

	// Number of retry attempts per server
	Retries int `yaml:"retries"`

	// NTP version to send in requests (3 or 4)
	Version int `yaml:"version"`

	// Refresh interval for watch mode in seconds
	Interval int `yaml:"interval"`

	// Cross-check decoded replies against the reference client
	Verify bool `yaml:"verify"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log to file
	LogToFile bool `yaml:"log_to_file"`

	// Maximum log entries to keep in memory
	MaxLogEntries int `yaml:"max_log_entries"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{
			{Address: "time.google.com", Port: ntpwire.Port, Enabled: true},
			{Address: "time.cloudflare.com", Port: ntpwire.Port, Enabled: true},
			{Address: "pool.ntp.org", Port: ntpwire.Port, Enabled: true},
		},
		Query: QueryConfig{
			Timeout:  5,
			Retries:  3,
			Version:  ntpwire.VersionNTPv4,
			Interval: 30,
			Verify:   false,
		},
		Logging: LoggingConfig{
			Level:         "info",
			LogToFile:     false,
			MaxLogEntries: 1000,
		},
	}
}

// GetDataDir returns the data directory path
func GetDataDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, DataDirName), nil
}

// EnsureDataDir creates the data directory if it doesn't exist
func EnsureDataDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// Load loads configuration from path. An empty path uses the default
// location; a missing file at the default location is created with
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.Save(path); err != nil {
				return nil, fmt.Errorf("failed to save default config: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# ntpwire configuration file\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the codec cannot express
func (c *Config) Validate() error {
	if c.Query.Version != ntpwire.VersionNTPv3 && c.Query.Version != ntpwire.VersionNTPv4 {
		return fmt.Errorf("unsupported NTP version %d: must be 3 or 4", c.Query.Version)
	}
	if c.Query.Timeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %d", c.Query.Timeout)
	}
	if c.Query.Retries < 1 {
		return fmt.Errorf("query retries must be at least 1, got %d", c.Query.Retries)
	}
	for _, s := range c.Servers {
		if s.Address == "" {
			return fmt.Errorf("server entry with empty address")
		}
		if s.Port < 0 || s.Port > 65535 {
			return fmt.Errorf("server %s: invalid port %d", s.Address, s.Port)
		}
	}
	return nil
}

// GetEnabledServers returns the list of enabled servers with the default
// port filled in
func (c *Config) GetEnabledServers() []Server {
	var enabled []Server
	for _, s := range c.Servers {
		if s.Enabled {
			if s.Port == 0 {
				s.Port = ntpwire.Port
			}
			enabled = append(enabled, s)
		}
	}
	return enabled
}
