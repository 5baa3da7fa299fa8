// Package config loads server settings from defaults, an optional YAML or
// TOML file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultPort       = 3000
	DefaultStore      = "file"
	DefaultDataFile   = "data.json"
	DefaultSQLitePath = "data.db"
	DefaultStaticDir  = "public"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Config holds the server settings.
type Config struct {
	Port       int    `yaml:"port" toml:"port"`
	Store      string `yaml:"store" toml:"store"`
	DataFile   string `yaml:"data_file" toml:"data_file"`
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	StaticDir  string `yaml:"static_dir" toml:"static_dir"`
	LogLevel   string `yaml:"log_level" toml:"log_level"`
	LogFormat  string `yaml:"log_format" toml:"log_format"`
}

// StorePath returns the file the selected store driver persists to.
func (c *Config) StorePath() string {
	if c.Store == "sqlite" {
		return c.SQLitePath
	}
	return c.DataFile
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load builds the configuration. configPath and envPath may be empty; a
// missing env file is ignored, a missing config file is an error.
func Load(configPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		if err := loadFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envPath, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config with every field set to its default.
func Defaults() *Config {
	return &Config{
		Port:       DefaultPort,
		Store:      DefaultStore,
		DataFile:   DefaultDataFile,
		SQLitePath: DefaultSQLitePath,
		StaticDir:  DefaultStaticDir,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// loadFile decodes the file over cfg. Keys absent from the file keep their
// current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid store %q, must be one of: file, sqlite", c.Store)
	}
	if c.StorePath() == "" {
		return fmt.Errorf("%s store requires a path", c.Store)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be one of: console, json", c.LogFormat)
	}
	return nil
}
