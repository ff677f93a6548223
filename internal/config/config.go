package config

import (
	"os"
)

// Config collects the environment settings the server reads at startup.
// A .env file is honored in development, production sets the vars directly.
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	CORSOrigin    string
}

func Load() Config {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CORSOrigin:    os.Getenv("CORS_ORIGIN"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		cfg.DatabaseURL = "sqlite://classmate.db"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "secret_key_change_me"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	return cfg
}
