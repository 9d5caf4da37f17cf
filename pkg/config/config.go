// Package config loads easel configuration from TOML.
//
// Configuration lives at $XDG_CONFIG_HOME/easel/config.toml (falling back
// to ~/.config/easel/config.toml). Missing files yield defaults; a present
// file overrides only the fields it sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/imagecache"
)

// Config holds easel configuration.
type Config struct {
	Server  ServerConfig           `toml:"server"`
	Storage StorageConfig          `toml:"storage"`
	Cache   CacheConfig            `toml:"cache"`
	Redis   imagecache.RedisConfig `toml:"redis"`
	Mongo   board.MongoConfig      `toml:"mongo"`
	Service ServiceConfig          `toml:"service"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig controls board persistence.
type StorageConfig struct {
	Backend string `toml:"backend"` // "file" or "mongo"
	DataDir string `toml:"data_dir"`
}

// CacheConfig controls the image cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // "file", "redis", or "none"
	Dir     string `toml:"dir"`
}

// ServiceConfig controls the generation-service client.
type ServiceConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8478"},
		Storage: StorageConfig{Backend: "file"},
		Cache:   CacheConfig{Backend: "file"},
		Redis:   imagecache.RedisConfig{Addr: "localhost:6379"},
		Mongo:   board.MongoConfig{URI: "mongodb://localhost:27017", Database: "easel", Collection: "boards"},
		Service: ServiceConfig{},
	}
}

// ConfigDir returns the easel config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "easel")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at the default path, falling back to defaults
// if the file does not exist.
func Load() *Config {
	cfg, _ := LoadFile(configPath())
	return cfg
}

// LoadFile reads a config file from an explicit path. A missing file yields
// defaults with a nil error; a malformed file yields defaults and the parse
// error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk at the default path.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
