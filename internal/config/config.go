// Package config provides application configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigExists is returned by Init when a configuration file is already
// present in the target directory.
var ErrConfigExists = errors.New("configuration file already exists")

const (
	configFileName = "config.yaml"
	storeFileName  = "gondolin.db"
)

// Config holds all application configuration.
type Config struct {
	Store  StoreConfig
	Server ServerConfig
	Log    LogConfig
}

// StoreConfig binds the record store to its file.
type StoreConfig struct {
	// Path is the store file location.
	Path string

	// CreateMissing controls whether commands initialise a fresh store when
	// the file is absent, instead of failing. This choice deliberately lives
	// here, not inside the store itself.
	CreateMissing bool
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration for the given gondolin directory: defaults first,
// then the config file if one exists, then GONDOLIN_* environment variables.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigFile(filepath.Join(dir, configFileName))
	v.SetEnvPrefix("GONDOLIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default.
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read configuration file: %w", err)
		}
	}

	cfg := &Config{
		Store: StoreConfig{
			Path:          v.GetString("store.path"),
			CreateMissing: v.GetBool("store.create_missing"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes a fresh configuration file into dir, creating the directory if
// needed. It fails with ErrConfigExists rather than overwriting.
func Init(dir string, port int) (*Config, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create gondolin directory: %w", err)
	}

	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return nil, ErrConfigExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("check configuration file: %w", err)
	}

	v := viper.New()
	setDefaults(v, dir)
	v.Set("store.path", filepath.Join(dir, storeFileName))
	v.Set("store.create_missing", true)
	v.Set("server.port", port)
	if err := v.WriteConfigAs(path); err != nil {
		return nil, fmt.Errorf("write configuration file: %w", err)
	}

	return Load(dir)
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("store.path", filepath.Join(dir, storeFileName))
	v.SetDefault("store.create_missing", true)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 56423)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// ServerAddr returns the full listen address for the HTTP server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
