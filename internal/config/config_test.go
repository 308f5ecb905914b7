package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Servers)
	assert.Equal(t, 4, cfg.Query.Version)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
servers:
  - address: "ntp.example.org"
    port: 1123
    enabled: true
  - address: "backup.example.org"
    enabled: false
query:
  timeout: 2
  retries: 1
  version: 3
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Servers, 2)
	assert.Equal(t, "ntp.example.org", cfg.Servers[0].Address)
	assert.Equal(t, 1123, cfg.Servers[0].Port)
	assert.Equal(t, 2, cfg.Query.Timeout)
	assert.Equal(t, 3, cfg.Query.Version)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unspecified fields keep their defaults.
	assert.Equal(t, 30, cfg.Query.Interval)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  version: 7\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported NTP version")
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Query.Timeout = 9
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Query.Timeout)
	assert.Equal(t, cfg.Servers, loaded.Servers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero timeout", func(c *Config) { c.Query.Timeout = 0 }, "timeout"},
		{"zero retries", func(c *Config) { c.Query.Retries = 0 }, "retries"},
		{"empty address", func(c *Config) { c.Servers[0].Address = "" }, "empty address"},
		{"bad port", func(c *Config) { c.Servers[0].Port = 70000 }, "invalid port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnabledServers(t *testing.T) {
	cfg := &Config{Servers: []Server{
		{Address: "a.example.org", Enabled: true},
		{Address: "b.example.org", Port: 1123, Enabled: false},
		{Address: "c.example.org", Port: 2123, Enabled: true},
	}}

	enabled := cfg.GetEnabledServers()
	require.Len(t, enabled, 2)
	assert.Equal(t, "a.example.org", enabled[0].Address)
	assert.Equal(t, 123, enabled[0].Port) // default filled in
	assert.Equal(t, 2123, enabled[1].Port)
}
