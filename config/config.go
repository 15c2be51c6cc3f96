package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Event backends understood by the events package
const (
	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendNATS  = "nats"
)

// Config holds all application configuration
type Config struct {
	ServerPort         int           `json:"server_port"`
	LogLevel           string        `json:"log_level"`
	ShutdownTimeout    time.Duration `json:"shutdown_timeout"`
	Version            string        `json:"version"`
	CORSAllowedOrigins []string      `json:"cors_allowed_origins"`

	// Change feed
	EventsBackend  string `json:"events_backend"`
	RedisURL       string `json:"redis_url"`
	RedisEventsKey string `json:"redis_events_key"` // Redis list receiving task events
	NATSURL        string `json:"nats_url"`
	NATSSubject    string `json:"nats_subject"`

	// Delivery pool in front of the change feed backend
	EventsWorkers    int `json:"events_workers"`
	EventsBufferSize int `json:"events_buffer_size"`
}

// fileConfig mirrors the optional TOML file named by CONFIG_FILE.
type fileConfig struct {
	Port               int      `toml:"port"`
	LogLevel           string   `toml:"log_level"`
	ShutdownTimeout    string   `toml:"shutdown_timeout"`
	Version            string   `toml:"version"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	Events             struct {
		Backend     string `toml:"backend"`
		RedisURL    string `toml:"redis_url"`
		RedisKey    string `toml:"redis_key"`
		NATSURL     string `toml:"nats_url"`
		NATSSubject string `toml:"nats_subject"`
		Workers     int    `toml:"workers"`
		BufferSize  int    `toml:"buffer_size"`
	} `toml:"events"`
}

func defaults() *Config {
	return &Config{
		ServerPort:         5000,
		LogLevel:           "INFO",
		ShutdownTimeout:    15 * time.Second,
		Version:            "1.0.0",
		CORSAllowedOrigins: []string{"*"},
		EventsBackend:      EventsBackendNone,
		RedisURL:           "redis://localhost:6379",
		RedisEventsKey:     "task_events",
		NATSURL:            "nats://127.0.0.1:4222",
		NATSSubject:        "tasks.events",
		EventsWorkers:      1,
		EventsBufferSize:   256,
	}
}

// LoadConfig loads configuration from an optional TOML file (CONFIG_FILE)
// and then environment variables, falling back to sensible defaults.
// Environment variables take precedence over the file.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnvInt("PORT", cfg.ServerPort)
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Version = getEnvString("VERSION", cfg.Version)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.EventsBackend = getEnvString("EVENTS_BACKEND", cfg.EventsBackend)
	cfg.RedisURL = getEnvString("REDIS_URL", cfg.RedisURL)
	cfg.RedisEventsKey = getEnvString("REDIS_EVENTS_KEY", cfg.RedisEventsKey)
	cfg.NATSURL = getEnvString("NATS_URL", cfg.NATSURL)
	cfg.NATSSubject = getEnvString("NATS_SUBJECT", cfg.NATSSubject)
	cfg.EventsWorkers = getEnvInt("EVENTS_WORKERS", cfg.EventsWorkers)
	cfg.EventsBufferSize = getEnvInt("EVENTS_BUFFER_SIZE", cfg.EventsBufferSize)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Address returns the server address in host:port format
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.ServerPort = fc.Port
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid config file %s: shutdown_timeout: %w", path, err)
		}
		c.ShutdownTimeout = d
	}
	if fc.Version != "" {
		c.Version = fc.Version
	}
	if len(fc.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = fc.CORSAllowedOrigins
	}
	if fc.Events.Backend != "" {
		c.EventsBackend = fc.Events.Backend
	}
	if fc.Events.RedisURL != "" {
		c.RedisURL = fc.Events.RedisURL
	}
	if fc.Events.RedisKey != "" {
		c.RedisEventsKey = fc.Events.RedisKey
	}
	if fc.Events.NATSURL != "" {
		c.NATSURL = fc.Events.NATSURL
	}
	if fc.Events.NATSSubject != "" {
		c.NATSSubject = fc.Events.NATSSubject
	}
	if fc.Events.Workers != 0 {
		c.EventsWorkers = fc.Events.Workers
	}
	if fc.Events.BufferSize != 0 {
		c.EventsBufferSize = fc.Events.BufferSize
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// validate performs basic validation of the configuration
func (c *Config) validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server port %d: must be between 1 and 65535", c.ServerPort)
	}

	// Validate and normalize LogLevel
	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true,
	}
	upperLevel := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if !validLevels[upperLevel] {
		return fmt.Errorf("invalid log level '%s': must be DEBUG, INFO, WARN, ERROR, or FATAL", c.LogLevel)
	}
	c.LogLevel = upperLevel

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout)
	}
	if c.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("invalid shutdown timeout %v: must not exceed 5 minutes", c.ShutdownTimeout)
	}

	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("version cannot be empty")
	}
	c.Version = strings.TrimSpace(c.Version)

	c.EventsBackend = strings.ToLower(strings.TrimSpace(c.EventsBackend))
	switch c.EventsBackend {
	case EventsBackendNone:
	case EventsBackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("redis URL cannot be empty when events backend is redis")
		}
		if strings.TrimSpace(c.RedisEventsKey) == "" {
			return fmt.Errorf("redis events key cannot be empty when events backend is redis")
		}
	case EventsBackendNATS:
		if strings.TrimSpace(c.NATSURL) == "" {
			return fmt.Errorf("nats URL cannot be empty when events backend is nats")
		}
		if strings.TrimSpace(c.NATSSubject) == "" {
			return fmt.Errorf("nats subject cannot be empty when events backend is nats")
		}
	default:
		return fmt.Errorf("invalid events backend '%s': must be none, redis, or nats", c.EventsBackend)
	}

	if c.EventsWorkers < 1 || c.EventsWorkers > 64 {
		return fmt.Errorf("invalid events workers %d: must be between 1 and 64", c.EventsWorkers)
	}
	if c.EventsBufferSize < 1 {
		return fmt.Errorf("invalid events buffer size %d: must be positive", c.EventsBufferSize)
	}

	return nil
}
