// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package config loads the runtime configuration of the envctx commands from
// an optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/cruxstack/envctx/internal/session"
	"github.com/cruxstack/envctx/internal/shared"
)

// Environment variable names.
const (
	EnvConfigFile       = "ENVCTX_CONFIG"
	EnvPort             = "PORT"
	EnvBasePath         = "BASE_PATH"
	EnvSessionsDisabled = "SESSION_DISABLED"
	EnvSessionStore     = "SESSION_STORE"
	EnvSessionDir       = "SESSION_DIR"
	EnvSessionCookie    = "SESSION_COOKIE"
	EnvSessionTTL       = "SESSION_TTL"
	EnvSessionCacheSize = "SESSION_CACHE_SIZE"
)

// EnvKeys lists the variables Load reads, for resolvers that rewrite the
// environment beforehand.
var EnvKeys = []string{
	EnvPort, shared.EnvLogFormat, EnvBasePath, EnvSessionsDisabled,
	EnvSessionStore, EnvSessionDir, EnvSessionCookie, EnvSessionTTL,
	EnvSessionCacheSize,
}

// Config is the command configuration.
type Config struct {
	Port      int     `json:"port"`
	LogFormat string  `json:"logFormat"`
	BasePath  string  `json:"basePath"`
	Session   Session `json:"session"`
}

// Session configures session continuity.
type Session struct {
	Disabled  bool   `json:"disabled"`
	Store     string `json:"store"`
	Dir       string `json:"dir"`
	Cookie    string `json:"cookie"`
	TTL       string `json:"ttl"`
	CacheSize int    `json:"cacheSize"`

	ttl time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:      shared.DefaultPort,
		LogFormat: shared.LogFormatJSON,
		Session: Session{
			Store:     session.StoreModeMemory,
			Cookie:    shared.DefaultSessionCookie,
			TTL:       shared.DefaultSessionTTL.String(),
			CacheSize: shared.DefaultSessionCacheSize,
		},
	}
}

// Load reads the YAML file at path, when path is not empty, then applies the
// environment overrides. Unknown keys in the file are an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by ENVCTX_CONFIG, if any.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvSessionCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSessionCacheSize, v, err)
		}
		c.Session.CacheSize = n
	}
	if _, ok := os.LookupEnv(EnvSessionsDisabled); ok {
		c.Session.Disabled = shared.GetEnvBool(EnvSessionsDisabled)
	}

	c.LogFormat = shared.GetEnvDefault(shared.EnvLogFormat, c.LogFormat)
	c.BasePath = shared.GetEnvDefault(EnvBasePath, c.BasePath)
	c.Session.Store = shared.GetEnvDefault(EnvSessionStore, c.Session.Store)
	c.Session.Dir = shared.GetEnvDefault(EnvSessionDir, c.Session.Dir)
	c.Session.Cookie = shared.GetEnvDefault(EnvSessionCookie, c.Session.Cookie)
	c.Session.TTL = shared.GetEnvDefault(EnvSessionTTL, c.Session.TTL)
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return fmt.Errorf("invalid session ttl %q: %w", c.Session.TTL, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	c.Session.ttl = ttl

	switch c.Session.Store {
	case session.StoreModeMemory:
	case session.StoreModeFiles, session.StoreModePebble:
		if c.Session.Dir == "" {
			return fmt.Errorf("session store %q needs a directory", c.Session.Store)
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Session.Cookie == "" {
		return fmt.Errorf("session cookie name is empty")
	}
	return nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StoreConfig returns the session store settings.
func (c *Config) StoreConfig() session.StoreConfig {
	return session.StoreConfig{
		Mode:      c.Session.Store,
		Dir:       c.Session.Dir,
		CacheSize: c.Session.CacheSize,
		TTL:       c.Session.ttl,
	}
}

// ManagerOptions returns the session manager settings.
func (c *Config) ManagerOptions() []session.Option {
	return []session.Option{
		session.WithCookieName(c.Session.Cookie),
		session.WithTTL(c.Session.ttl),
	}
}
