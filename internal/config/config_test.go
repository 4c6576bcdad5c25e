package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if want := filepath.Join(dir, "gondolin.db"); cfg.Store.Path != want {
		t.Fatalf("store path = %q, want %q", cfg.Store.Path, want)
	}
	if !cfg.Store.CreateMissing {
		t.Fatal("create_missing should default to true")
	}
	if cfg.Server.Port != 56423 {
		t.Fatalf("port = %d, want 56423", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestInit_WritesConfigFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gondolin")

	cfg, err := Init(dir, 8080)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second Init must refuse rather than overwrite.
	if _, err := Init(dir, 9090); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "store:\n  path: /tmp/other.db\n  create_missing: false\nserver:\n  port: 9999\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/other.db" {
		t.Fatalf("store path = %q, want /tmp/other.db", cfg.Store.Path)
	}
	if cfg.Store.CreateMissing {
		t.Fatal("create_missing should be false from the config file")
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port = %d, want 9999", cfg.Server.Port)
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := &Config{
		Store:  StoreConfig{Path: "/tmp/gondolin.db"},
		Server: ServerConfig{Port: -1},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative port")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 56423}}
	if got, want := cfg.ServerAddr(), "127.0.0.1:56423"; got != want {
		t.Fatalf("ServerAddr() = %q, want %q", got, want)
	}
}
