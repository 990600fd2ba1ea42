package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// RecordsCeiling is the largest MAX_RECORDS_LIMIT accepted
const RecordsCeiling = 200

// Config represents the application configuration
type Config struct {
	// HTTP server
	ServerAddr string

	// Catalog store backend: "memory" or "redis"
	StoreBackend string

	// Redis configuration
	RedisAddr             string
	RedisDB               int
	RedisKeyPrefix        string
	ReportStream          string
	ReportStreamMaxLength int

	// Memcache configuration, empty disables the partner block cache
	MemcacheAddr string

	// Fetcher configuration
	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	PartnerBlockTime   time.Duration

	// Importer configuration
	DefaultMaxRecords int
	MaxRecordsLimit   int
	DefaultCategory   string

	// Environment
	Environment string

	// parse errors collected by LoadConfig, reported by Validate
	parseErrs []error
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	var errs []error
	redisDB := getEnvInt("REDIS_DB", 0, &errs)
	streamMaxLength := getEnvInt("REPORT_STREAM_MAX_LENGTH", 1000, &errs)
	fetchTimeout := getEnvInt("FETCH_TIMEOUT_SECONDS", 30, &errs)
	blockTime := getEnvInt("PARTNER_BLOCK_SECONDS", 500, &errs)
	defaultMax := getEnvInt("DEFAULT_MAX_RECORDS", 50, &errs)
	maxLimit := getEnvInt("MAX_RECORDS_LIMIT", RecordsCeiling, &errs)

	fetchRate, err := strconv.ParseFloat(getEnv("FETCH_RATE_PER_SECOND", "1"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("FETCH_RATE_PER_SECOND: %w", err))
	}

	return &Config{
		ServerAddr:            getEnv("SERVER_ADDR", ":8080"),
		StoreBackend:          getEnv("STORE_BACKEND", "memory"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:               redisDB,
		RedisKeyPrefix:        getEnv("REDIS_KEY_PREFIX", "catalog"),
		ReportStream:          os.Getenv("REPORT_STREAM"),
		ReportStreamMaxLength: streamMaxLength,
		MemcacheAddr:          os.Getenv("MEMCACHE_ADDR"),
		FetchTimeout:          time.Duration(fetchTimeout) * time.Second,
		FetchRatePerSecond:    fetchRate,
		PartnerBlockTime:      time.Duration(blockTime) * time.Second,
		DefaultMaxRecords:     defaultMax,
		MaxRecordsLimit:       maxLimit,
		DefaultCategory:       getEnv("DEFAULT_CATEGORY", "medicines"),
		Environment:           getEnv("IMPORTER_ENVIRONMENT", "development"),
		parseErrs:             errs,
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return errors.Join(c.parseErrs...)
	}

	switch c.StoreBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.ReportStream != "" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REPORT_STREAM is set")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchRatePerSecond <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be positive")
	}
	if c.PartnerBlockTime < time.Second {
		return fmt.Errorf("PARTNER_BLOCK_SECONDS must be at least 1")
	}
	if c.MaxRecordsLimit < 1 || c.MaxRecordsLimit > RecordsCeiling {
		return fmt.Errorf("MAX_RECORDS_LIMIT must be between 1 and %d", RecordsCeiling)
	}
	if c.DefaultMaxRecords < 1 || c.DefaultMaxRecords > c.MaxRecordsLimit {
		return fmt.Errorf("DEFAULT_MAX_RECORDS must be between 1 and %d", c.MaxRecordsLimit)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt reads an integer variable, recording a parse error instead of
// silently falling back
func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return n
}
