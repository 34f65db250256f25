package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"marketcast/internal/predict"
	"marketcast/models"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	AccuracyCacheTTL int // seconds, 0 disables the cache

	ModelURL     string // external price model endpoint, empty disables it
	ModelTimeout int    // seconds

	TelegramToken  string
	TelegramChatID int64

	// Per-timeframe magnitude multipliers for the prediction generator.
	Magnitude30m float64
	Magnitude1h  float64
	Magnitude3h  float64
	Magnitude6h  float64
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "marketcast"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "marketcast"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvIntWithDefault("REDIS_DB", 0),
		AccuracyCacheTTL: getEnvIntWithDefault("ACCURACY_CACHE_TTL", 60),

		ModelURL:     os.Getenv("MODEL_URL"),
		ModelTimeout: getEnvIntWithDefault("MODEL_TIMEOUT", 10),

		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0),

		Magnitude30m: getEnvFloatWithDefault("MAGNITUDE_30M", 0.005),
		Magnitude1h:  getEnvFloatWithDefault("MAGNITUDE_1H", 0.008),
		Magnitude3h:  getEnvFloatWithDefault("MAGNITUDE_3H", 0.015),
		Magnitude6h:  getEnvFloatWithDefault("MAGNITUDE_6H", 0.025),
	}

	return cfg, nil
}

// Magnitudes assembles the generator's per-timeframe magnitude table.
func (c *Config) Magnitudes() predict.MagnitudeTable {
	return predict.MagnitudeTable{
		models.Timeframe30m: c.Magnitude30m,
		models.Timeframe1h:  c.Magnitude1h,
		models.Timeframe3h:  c.Magnitude3h,
		models.Timeframe6h:  c.Magnitude6h,
	}
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
