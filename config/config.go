// Package config loads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the attendance engine.
type AppConfig struct {
	Port         int
	DatabasePath string
	LogLevel     string
	Environment  string

	// SweepCronSpec drives the periodic absence sweep. Standard 5-field
	// cron syntax.
	SweepCronSpec string

	// SlackWebhookURL is the process-level fallback used when no policy
	// document configures one. Optional.
	SlackWebhookURL string

	// CORSOrigins is a comma-separated list of allowed origins.
	CORSOrigins []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables, and a
	// missing .env is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./attendance.db"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.SweepCronSpec = os.Getenv("SWEEP_CRON_SPEC")
	if cfg.SweepCronSpec == "" {
		cfg.SweepCronSpec = "*/15 * * * *" // Default: every 15 minutes
	}

	cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		cfg.CORSOrigins = []string{"*"}
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
}
