// Package config provides the service configuration.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the resultsboard configuration.
type Config struct {
	// Server settings
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"file:resultsboard.db?cache=shared&mode=rwc"`

	// LLM proxy (opaque generate endpoint, POST {contents} -> {text})
	LLMProxyURL string        `envconfig:"LLM_PROXY_URL" default:"http://localhost:8090/generate"`
	LLMAPIKey   string        `envconfig:"LLM_API_KEY"`
	LLMTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`

	// Chat context
	ContextCap int `envconfig:"CONTEXT_CAP" default:"26000"`

	// Report view
	PageSize int `envconfig:"PAGE_SIZE" default:"50"`

	// PNG export. When empty a builtin bitmap face is used, which cannot
	// shape Arabic text; point this at a TTF for production exports.
	ExportFontPath string `envconfig:"EXPORT_FONT_PATH"`

	// Logging
	LogMode string `envconfig:"LOG_MODE" default:"dev"`
}

// Load loads configuration from the environment, reading .env first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
