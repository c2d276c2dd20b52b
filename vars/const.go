package vars

import (
	"os"
)

// GetEnv returns the value of an environment variable, or fallback when
// it is unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Environment configuration (Docker friendly).
var (
	// PG
	PGUSER = GetEnv("PGUSER", "postgres")
	PGPWD  = GetEnv("PGPWD", "postgres")
	PGDB   = GetEnv("PGDB", "licensing")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// HTTP
	PORT = GetEnv("PORT", "8081")

	// Expiry sweeper; any Go duration string.
	SWEEPINTERVAL = GetEnv("SWEEP_INTERVAL", "30s")

	// Optional catalog cache. Empty disables caching.
	REDISADDR       = GetEnv("REDIS_ADDR", "")
	CATALOGCACHETTL = GetEnv("CATALOG_CACHE_TTL", "10m")
)
