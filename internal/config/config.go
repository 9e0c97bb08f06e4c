// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is named explicitly.
const DefaultPath = "config.yaml"

// Config holds all application configuration
type Config struct {
	Data     DataConfig   `yaml:"data"`
	Log      LogConfig    `yaml:"log"`
	Server   ServerConfig `yaml:"server"`
	Currency string       `yaml:"currency"`
}

type DataConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	ReportsDir   string `yaml:"reports_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
	UploadDir   string `yaml:"upload_dir"`
}

// Addr is the listen address for the API server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaults() *Config {
	return &Config{
		Data: DataConfig{
			RawDir:       filepath.Join("data", "raw"),
			ProcessedDir: filepath.Join("data", "processed"),
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			BodyLimitMB: 32,
		},
		Currency: money.INR,
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Load environment variables from .env files when present.
	_ = godotenv.Load()

	cfg.Data.ProcessedDir = getEnv("FINANCE_PROCESSED_DIR", cfg.Data.ProcessedDir)
	cfg.Data.ReportsDir = getEnv("FINANCE_REPORTS_DIR", cfg.Data.ReportsDir)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)

	if cfg.Data.ReportsDir == "" {
		cfg.Data.ReportsDir = filepath.Join(cfg.Data.ProcessedDir, "reports")
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = filepath.Join(cfg.Data.RawDir, "uploads")
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = money.INR
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Data.ProcessedDir == "" {
		return errors.New("data.processed_dir is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be positive, got %d", c.Server.BodyLimitMB)
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
