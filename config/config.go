// Package config loads service settings from config.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"cardioml/logging"
	"cardioml/ml"
)

type Config struct {
	Http struct {
		Host           string        `yaml:"host"`
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	ML  ml.Config      `yaml:"ml"`
	Log logging.Config `yaml:"log"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Http.Host = "0.0.0.0"
	cfg.Http.Port = 5000
	cfg.Http.Timeout = 30 * time.Second
	cfg.Http.AllowedOrigins = []string{"*"}
	cfg.Http.MaxBodyBytes = 1 << 20
	cfg.ML.ModelPath = "model.json"
	cfg.ML.CacheSize = 1024
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	return cfg
}

// Load reads path on top of the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Http.Port = port
	}
	c.Http.Host = getEnv("HOST", c.Http.Host)
	c.ML.ModelPath = getEnv("MODEL_PATH", c.ML.ModelPath)
	c.ML.ModelType = getEnv("MODEL_TYPE", c.ML.ModelType)
	c.ML.ONNX.LibraryPath = getEnv("ONNXRUNTIME_LIB", c.ML.ONNX.LibraryPath)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	return nil
}

func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port must be in 1..65535, got %d", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Http.MaxBodyBytes <= 0 {
		return errors.New("http.max_body_bytes must be positive")
	}
	if c.ML.ModelPath == "" {
		return errors.New("ml.model_path is required")
	}
	if c.ML.CacheSize < 0 {
		return errors.New("ml.cache_size must not be negative")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Http.Host, c.Http.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
