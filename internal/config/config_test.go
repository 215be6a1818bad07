// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cruxstack/envctx/internal/session"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range append([]string{EnvConfigFile}, EnvKeys...) {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "envctx.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := session.StoreConfig{
		Mode:      session.StoreModeMemory,
		CacheSize: 1024,
		TTL:       30 * time.Minute,
	}
	if diff := cmp.Diff(want, cfg.StoreConfig()); diff != "" {
		t.Errorf("StoreConfig() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), ":8080")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port: 9000
basePath: /echo
session:
  store: files
  dir: /var/lib/envctx
  cookie: SID
  ttl: 5m
`)
	t.Setenv(EnvSessionTTL, "1h")
	t.Setenv(EnvSessionStore, "pebble")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Port:      9000,
		LogFormat: "json",
		BasePath:  "/echo",
		Session: Session{
			Store:     session.StoreModePebble,
			Dir:       "/var/lib/envctx",
			Cookie:    "SID",
			TTL:       "1h",
			CacheSize: 1024,
			ttl:       time.Hour,
		},
	}
	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(Session{})); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "unknown key", file: "sesion:\n  store: memory\n"},
		{name: "bad yaml", file: "port: [\n"},
		{name: "bad port env", env: map[string]string{EnvPort: "eighty"}},
		{name: "port out of range", env: map[string]string{EnvPort: "70000"}},
		{name: "bad ttl", env: map[string]string{EnvSessionTTL: "forever"}},
		{name: "negative ttl", env: map[string]string{EnvSessionTTL: "-1m"}},
		{name: "unknown store", env: map[string]string{EnvSessionStore: "redis"}},
		{name: "files without dir", env: map[string]string{EnvSessionStore: "files"}},
		{name: "bad cache size", env: map[string]string{EnvSessionCacheSize: "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, writeFile(t, "session:\n  disabled: true\n"))

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if !cfg.Session.Disabled {
		t.Error("Session.Disabled = false, want true")
	}

	t.Setenv(EnvSessionsDisabled, "false")
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Session.Disabled {
		t.Error("Session.Disabled = true, want env override to win")
	}
}

func TestManagerOptions(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSessionCookie, "CUSTOM")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	m := session.NewManager(session.NewMemoryStore(1, time.Minute), cfg.ManagerOptions()...)
	if m.CookieName() != "CUSTOM" {
		t.Errorf("CookieName() = %q, want CUSTOM", m.CookieName())
	}
}
