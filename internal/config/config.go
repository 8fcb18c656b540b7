// Package config resolves settings from defaults, TOML files, a .env file,
// environment variables and root flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the resolved application configuration.
type Config struct {
	DataDir        string `toml:"data_dir"`
	Theme          string `toml:"theme"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	DefaultProject string `toml:"default_project"`
	Group          bool   `toml:"group"`
}

const (
	userConfigName    = "config.toml"
	projectConfigName = ".tada.toml"
	dotEnvName        = ".env"
)

// Load builds a Config and parses root flags from args into fs.
// Remaining positional arguments are available through fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Defaults()

	if home, err := os.UserHomeDir(); err == nil {
		if err := loadFile(cfg, filepath.Join(home, ".tada", userConfigName)); err != nil {
			return nil, err
		}
	}
	if err := loadFile(cfg, projectConfigName); err != nil {
		return nil, err
	}

	if err := godotenv.Load(dotEnvName); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotEnvName, err)
	}
	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	dir := ".tada"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".tada")
	}
	return &Config{
		DataDir:        dir,
		Theme:          "classic",
		LogLevel:       "warn",
		LogFormat:      "text",
		DefaultProject: "Inbox",
	}
}

// loadFile decodes a TOML file over cfg. A missing file is not an error.
func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TADA_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_THEME")); v != "" {
		cfg.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_DEFAULT_PROJECT")); v != "" {
		cfg.DefaultProject = v
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding saved projects")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "output theme: classic, neon or mono")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	return fs.Parse(args)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
