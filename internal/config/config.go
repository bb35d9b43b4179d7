// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// defaultDBPassword is the development password shipped in docker-compose.
const defaultDBPassword = "changeme"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string // "debug", "info", "warn", "error"
	SiteName string

	// PostgreSQL connection. DatabaseURL wins over the individual parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Valkey (Redis-compatible cache + sessions + change relay)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Outbound form-relay endpoint for lead/blog email notifications.
	NotifyWebhookURL string

	// Development seed credentials for the first admin user.
	AdminEmail    string
	AdminPassword string

	// S3-compatible object storage for uploaded images (optional).
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// missing records store-selection values that fell back to defaults.
	missing []string
}

// LoadDotEnv loads variables from the given dotenv files into the process
// environment. Files that don't exist are skipped, and variables already
// present in the environment are never overridden.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil {
			slog.Debug("dotenv loaded", "file", f)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("dotenv load failed", "file", f, "error", err)
		}
	}
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "debug"),
		SiteName: envOrDefault("SITE_NAME", "Synctech Ltd"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:      envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:      envOrDefault("POSTGRES_USER", "synctech"),
		DBPassword:  envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:      envOrDefault("POSTGRES_DB", "synctech"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),

		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@synctech.local"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "admin"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "synctech-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if cfg.DatabaseURL == "" {
		if os.Getenv("POSTGRES_HOST") == "" {
			cfg.missing = append(cfg.missing, "POSTGRES_HOST")
		}
		if os.Getenv("POSTGRES_PASSWORD") == "" {
			cfg.missing = append(cfg.missing, "POSTGRES_PASSWORD")
		}
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// Warnings lists configuration problems that don't prevent startup. The
// server keeps running and the affected calls fail at request time.
func (c *Config) Warnings() []string {
	var out []string
	if len(c.missing) > 0 {
		out = append(out, "database not configured, using defaults for "+strings.Join(c.missing, ", "))
	}
	if c.NotifyWebhookURL == "" {
		out = append(out, "NOTIFY_WEBHOOK_URL not set, email notifications disabled")
	}
	return out
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// S3Enabled reports whether object storage credentials are configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
