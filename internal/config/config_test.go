package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "0.0.0.0:5000", cfg.Addr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "code length", mutate: func(c *Config) { c.CodeLength = 0 }},
		{name: "message size", mutate: func(c *Config) { c.MaxMessageBytes = 0 }},
		{name: "cookie name", mutate: func(c *Config) { c.SessionCookie = "" }},
		{name: "store kind", mutate: func(c *Config) { c.SessionStore = "redis" }},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.SessionStore = SessionStoreSQLite
			c.SessionDBPath = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Port: 8081, LogLevel: "debug", SessionStore: SessionStoreSQLite})

	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, SessionStoreSQLite, cfg.SessionStore)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 4, cfg.CodeLength)
}

func TestLoadWritesDefaultConfig(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, path, resolved)
	require.Equal(t, Default().Port, cfg.Port)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// the written file round-trips
	again, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 7000\ncode_length: 6\nsession_ttl: 2h\nallowed_origins:\n  - https://chat.example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Port)
	require.Equal(t, 6, cfg.CodeLength)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"https://chat.example.com"}, cfg.AllowedOrigins)

	t.Setenv("ROOMRELAY_CODE_LENGTH", "5")
	t.Setenv("ROOMRELAY_PORT", "7100")
	cfg, _, err = Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.CodeLength)
	require.Equal(t, 7100, cfg.Port)

	// the platform PORT variable wins
	t.Setenv("PORT", "7200")
	cfg, _, err = Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, 7200, cfg.Port)
}
