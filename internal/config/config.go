package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Session store kinds.
const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
)

// Config holds server configuration values.
type Config struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	CodeLength        int      `mapstructure:"code_length" yaml:"code_length"`
	MaxMessageBytes   int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MessagesPerMinute int      `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
	AllowedOrigins    []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	SessionSecret string        `mapstructure:"session_secret" yaml:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	SessionCookie string        `mapstructure:"session_cookie" yaml:"session_cookie"`
	SessionStore  string        `mapstructure:"session_store" yaml:"session_store"`
	SessionDBPath string        `mapstructure:"session_db_path" yaml:"session_db_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Host:              "0.0.0.0",
		Port:              5000,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		CodeLength:        4,
		MaxMessageBytes:   64 << 10,
		MessagesPerMinute: 120,
		AllowedOrigins:    []string{"*"},
		SessionTTL:        24 * time.Hour,
		SessionCookie:     "roomrelay_session",
		SessionStore:      SessionStoreMemory,
		SessionDBPath:     "sessions.db",
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.CodeLength < 1 {
		return errors.New("code_length must be at least 1")
	}
	if c.MaxMessageBytes <= 0 {
		return errors.New("max_message_bytes must be positive")
	}
	if c.SessionCookie == "" {
		return errors.New("session_cookie must not be empty")
	}
	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreSQLite:
		if c.SessionDBPath == "" {
			return errors.New("session_db_path is required for the sqlite session store")
		}
	default:
		return fmt.Errorf("unknown session_store %q", c.SessionStore)
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.CodeLength != 0 {
		c.CodeLength = other.CodeLength
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.MessagesPerMinute != 0 {
		c.MessagesPerMinute = other.MessagesPerMinute
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.SessionSecret != "" {
		c.SessionSecret = other.SessionSecret
	}
	if other.SessionTTL != 0 {
		c.SessionTTL = other.SessionTTL
	}
	if other.SessionCookie != "" {
		c.SessionCookie = other.SessionCookie
	}
	if other.SessionStore != "" {
		c.SessionStore = other.SessionStore
	}
	if other.SessionDBPath != "" {
		c.SessionDBPath = other.SessionDBPath
	}
}
