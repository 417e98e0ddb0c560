// Package config loads gateway configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Env var holding a service-account key JSON. Checked before the stored token.
const ServiceAccountEnv = "EE_SERVICE_ACCOUNT"

// Default env var holding a stored OAuth refresh token JSON.
const DefaultTokenEnv = "EARTHENGINE_TOKEN"

type InvalidationCfg struct {
	Enabled bool
	Topic   string
	Brokers string
	GroupID string
}

type Config struct {
	Addr     string
	LogLevel string

	// Remote tiling/catalog backend.
	APIBaseURL string
	Project    string
	TokenEnv   string

	// Tile URL cache.
	CacheEnabled   bool
	RedisAddr      string
	CacheOpTimeout time.Duration
	CacheTTL       time.Duration
	CacheLRUSize   int

	Invalidation InvalidationCfg
}

func FromEnv() Config {
	return Config{
		Addr:     getenv("ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		APIBaseURL: getenv("EE_API_URL", "https://earthengine.googleapis.com/v1"),
		Project:    getenv("EE_PROJECT", ""),
		TokenEnv:   getenv("EE_TOKEN_ENV", DefaultTokenEnv),

		CacheEnabled:   getbool("CACHE_ENABLED", false),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		CacheOpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		CacheTTL:       getduration("CACHE_TTL", 30*time.Minute),
		CacheLRUSize:   getint("CACHE_LRU_SIZE", 1024),

		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Topic:   getenv("KAFKA_TOPIC", "asset-updates"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "tilegate-invalidator"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
