package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Addr              string
	StoreDriver       string
	DBPath            string
	MongoURL          string
	MongoDatabase     string
	LogLevel          string
	StoreTimeout      time.Duration
	LeaderboardLimit  int
	ImportWorkerCount int
	ImportQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		StoreDriver:       strings.ToLower(envOr("STORE_DRIVER", DriverSQLite)),
		DBPath:            envOr("DB_PATH", "file:cardrank.db"),
		MongoURL:          envOr("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase:     envOr("MONGODB_DATABASE", "card_comparison"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		StoreTimeout:      envDurationOr("STORE_TIMEOUT", 5*time.Second),
		LeaderboardLimit:  envIntOr("LEADERBOARD_LIMIT", 20),
		ImportWorkerCount: envIntOr("IMPORT_WORKER_COUNT", 4),
		ImportQueueSize:   envIntOr("IMPORT_QUEUE_SIZE", 64),
	}
}

// Validate reports the first setting that cannot be used to start the service.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGODB_URL cannot be empty")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE cannot be empty")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMongo, c.StoreDriver)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.LeaderboardLimit < 1 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be at least 1, got %d", c.LeaderboardLimit)
	}
	if c.ImportWorkerCount < 1 {
		return fmt.Errorf("IMPORT_WORKER_COUNT must be at least 1, got %d", c.ImportWorkerCount)
	}
	if c.ImportQueueSize < 1 {
		return fmt.Errorf("IMPORT_QUEUE_SIZE must be at least 1, got %d", c.ImportQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
