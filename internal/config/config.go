package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the application settings, read from environment variables.
type Config struct {
	Port      string
	RedisAddr string

	CalendarEnabled       bool
	CalendarID            string
	GoogleCredentialsPath string
	GoogleCredentialsJSON string
	CalendarTimezone      string
	CalendarLookaheadDays int
}

// Load reads settings from the environment, applying defaults.
func Load() Config {
	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		RedisAddr:             getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		CalendarEnabled:       getEnvBool("GOOGLE_CALENDAR_ENABLED", false),
		CalendarID:            getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		CalendarTimezone:      getEnv("GOOGLE_CALENDAR_TIMEZONE", "UTC"),
		CalendarLookaheadDays: getEnvInt("GOOGLE_CALENDAR_LOOKAHEAD_DAYS", 7),
	}
	return cfg
}

// Location resolves the configured calendar timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to UTC", c.CalendarTimezone)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q", key, v)
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s: %q", key, v)
		return fallback
	}
	return n
}
