package config

import (
	"os"
	"strings"
)

type Config struct {
	PostgresURI string
	MongoURI    string
	RedisURI    string
	Port        string
	Environment string // ENV: production, development, etc.
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/mywall?sslmode=disable"),
		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/mywall")),
		RedisURI:    getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:        getEnv("PORT", "8080"),
		Environment: env,
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
