package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Redis Configuration (broadcast fan-out transport)
	Redis RedisConfig `json:"redis"`

	// Presence / delivery catch-up Configuration
	Presence PresenceConfig `json:"presence"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port           string   `json:"port"`
	Host           string   `json:"host"`
	Environment    string   `json:"environment"` // development, staging, production
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// RedisConfig contains the pub/sub transport configuration. An empty Addr
// selects the in-process broadcaster (single-node mode).
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// PresenceConfig contains connection catch-up configuration
type PresenceConfig struct {
	// CatchupDays bounds the backlog window scanned when a user connects
	// and their Sent receipts are advanced to Delivered. 0 means unbounded.
	CatchupDays int `json:"catchup_days"`
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           envOr("SERVER_PORT", "8080"),
			Host:           envOr("SERVER_HOST", ""),
			Environment:    envOr("ENV", "development"),
			AllowedOrigins: splitOrigins(envOr("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		},
		Database: DatabaseConfig{
			Host:         envOr("DB_HOST", "localhost"),
			Port:         envOr("DB_PORT", "3306"),
			Username:     envOr("DB_USER", "chatcore"),
			Password:     envOr("DB_PASSWORD", "chatcore123"),
			DatabaseName: envOr("DB_NAME", "chatcore"),
			MaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", ""),
			Password: envOr("REDIS_PASSWORD", ""),
			DB:       envIntOr("REDIS_DB", 0),
		},
		Presence: PresenceConfig{
			CatchupDays: envIntOr("PRESENCE_CATCHUP_DAYS", 30),
		},
	}
}

// DSN builds the MySQL connection string from the database section.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// Addr returns the host:port the HTTP server listens on.
func (cfg *Config) Addr() string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
