package config

import (
	"log"
	"os"
)

const (
	defaultDBPath   = "./lcoe.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DBPath        string
	LogLevel      string
	APIKey        string
	LocationIQKey string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		Port:          os.Getenv("PORT"),
		DBPath:        os.Getenv("DB_PATH"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		APIKey:        os.Getenv("API_KEY"),
		LocationIQKey: os.Getenv("LOCATIONIQ_API_KEY"),
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.LocationIQKey == "" {
		log.Print("warning: LOCATIONIQ_API_KEY is not set; geocoding will be disabled")
	}

	return cfg
}

// IsDev reports whether the service runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env != "production"
}
