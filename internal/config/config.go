// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Session SessionConfig
	NLP     NLPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env         string
	DatabaseDSN string
}

// SessionConfig holds signed-cookie session settings.
type SessionConfig struct {
	Secret   string
	Lifetime int // seconds
}

// NLPConfig holds classifier settings.
type NLPConfig struct {
	ConfidenceThreshold float64
}

// RoleColors maps each role to its default avatar color.
var RoleColors = map[string]string{
	"admin":     "#dc3545",
	"developer": "#17a2b8",
	"expert":    "#28a745",
	"client":    "#6c757d",
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5555"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		App: AppConfig{
			Env:         getEnv("APP_ENV", "development"),
			DatabaseDSN: getEnv("DATABASE_DSN", "legal_ai_platform.db"),
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", "legal-ai-secret-key-12345"),
			Lifetime: getEnvInt("SESSION_LIFETIME", 3600),
		},
		NLP: NLPConfig{
			ConfidenceThreshold: getEnvFloat("NLP_CONFIDENCE_THRESHOLD", 0.3),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvFloat returns the float value of an environment variable or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
