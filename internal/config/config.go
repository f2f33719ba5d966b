package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Sessions
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	// Admin surface. Approve/Reject are open unless this is set.
	AdminRequireAuth bool

	SeedDemoData bool

	// Redis
	RedisEnabled      bool
	RedisURL          string
	RedisPassword     string
	RateLimitRequests int

	// New Relic
	NewRelicLicenseKey string
	NewRelicAppName    string
	NewRelicEnabled    bool
}

const devSecret = "worknearby-dev-secret"

func Load() (*Config, error) {
	// Load .env file if exists
	godotenv.Load()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Sessions
		JWTSecret:  getEnv("JWT_SECRET", devSecret),
		SessionTTL: time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 24*60)) * time.Minute,
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		AdminRequireAuth: getEnvAsBool("ADMIN_REQUIRE_AUTH", false),
		SeedDemoData:     getEnvAsBool("SEED_DEMO_DATA", true),

		// Redis
		RedisEnabled:      getEnvAsBool("REDIS_ENABLED", false),
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),

		// New Relic
		NewRelicLicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
		NewRelicAppName:    getEnv("NEW_RELIC_APP_NAME", "worknearby"),
		NewRelicEnabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
	}

	if cfg.IsProduction() && cfg.JWTSecret == devSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
