package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string

	// JWTSigningKey signs and verifies the admin bearer tokens guarding
	// mutating routes.
	JWTSigningKey string

	// PostgresURL selects the Postgres-backed registry stores when set.
	// Empty means in-memory stores (tests, local development).
	PostgresURL string

	Redis RedisConfig

	// InstitutionCacheTTL bounds staleness of the redis institution cache
	// sitting in front of the presence-verification hot path.
	InstitutionCacheTTL time.Duration
}

// RedisConfig holds connection settings for the optional redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("SCHOOLGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	cacheTTL := 5 * time.Minute
	if raw := os.Getenv("INSTITUTION_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		}
	}

	return Server{
		Addr:                addr,
		JWTSigningKey:       jwtSigningKey,
		PostgresURL:         os.Getenv("DATABASE_URL"),
		Redis:               redisFromEnv(),
		InstitutionCacheTTL: cacheTTL,
	}
}

func redisFromEnv() RedisConfig {
	cfg := RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if raw := os.Getenv("REDIS_POOL_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PoolSize = n
		}
	}
	return cfg
}
