package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	DataDir             string  `env:"DATA_DIR" envDefault:"data"`
	ReportDir           string  `env:"REPORT_DIR" envDefault:"reports"`
	HistoryDir          string  `env:"HISTORY_DIR" envDefault:"history"`
	HistoryLimit        int     `env:"HISTORY_LIMIT" envDefault:"200"`
	ForecastYears       int     `env:"FORECAST_YEARS" envDefault:"5"`
	Countries           string  `env:"COUNTRIES" envDefault:"-"` // comma-separated codes, empty = whole catalog
	EnableRefresh       bool    `env:"ENABLE_REFRESH" envDefault:"false"`
	EnableEvaluation    bool    `env:"ENABLE_EVALUATION" envDefault:"true"`
	EvaluationHoldout   int     `env:"EVALUATION_HOLDOUT" envDefault:"3"`
	LogLevel            string  `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout      int     `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	WorldBankBaseURL    string  `env:"WORLDBANK_BASE_URL" envDefault:"https://api.worldbank.org/v2"`
	ProviderRateLimit   float64 `env:"PROVIDER_RATE_LIMIT" envDefault:"5"` // requests per second
	HTTPPort            int     `env:"HTTP_PORT" envDefault:"8080"`
	DBHost              string  `env:"DB_HOST" envDefault:"localhost"`
	DBPort              int     `env:"DB_PORT" envDefault:"5432"`
	DBUser              string  `env:"DB_USER" envDefault:"postgres"`
	DBPassword          string  `env:"DB_PASSWORD" envDefault:"-"`
	DBName              string  `env:"DB_NAME" envDefault:"market_analysis"`
	DBSSLMode           string  `env:"DB_SSLMODE" envDefault:"disable"`
	RedisAddr           string  `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword       string  `env:"REDIS_PASSWORD" envDefault:"-"`
	RedisDB             int     `env:"REDIS_DB" envDefault:"0"`
	CacheTTLMinutes     int     `env:"CACHE_TTL_MINUTES" envDefault:"60"`
	TelegramToken       string  `env:"TELEGRAM_TOKEN" envDefault:"-"`
	StripeSecretKey     string  `env:"STRIPE_SECRET_KEY" envDefault:"-"`
	StripePriceID       string  `env:"STRIPE_PRICE_ID" envDefault:"-"`
	StripeWebhookSecret string  `env:"STRIPE_WEBHOOK_SECRET" envDefault:"-"`
	SubscriptionPrice   int64   `env:"SUBSCRIPTION_PRICE" envDefault:"999"` // cents
	SubscriptionDays    int     `env:"SUBSCRIPTION_DAYS" envDefault:"30"`
	BaseURL             string  `env:"BASE_URL" envDefault:"http://localhost:8080"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	// Load values from environment variables
	cfg.DataDir = getEnvWithDefault("DATA_DIR", "data")
	cfg.ReportDir = getEnvWithDefault("REPORT_DIR", "reports")
	cfg.HistoryDir = getEnvWithDefault("HISTORY_DIR", "history")
	cfg.HistoryLimit = getEnvIntWithDefault("HISTORY_LIMIT", 200)
	cfg.ForecastYears = getEnvIntWithDefault("FORECAST_YEARS", 5)
	cfg.Countries = os.Getenv("COUNTRIES")
	cfg.EnableRefresh = getEnvBoolWithDefault("ENABLE_REFRESH", false)
	cfg.EnableEvaluation = getEnvBoolWithDefault("ENABLE_EVALUATION", true)
	cfg.EvaluationHoldout = getEnvIntWithDefault("EVALUATION_HOLDOUT", 3)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.WorldBankBaseURL = getEnvWithDefault("WORLDBANK_BASE_URL", "https://api.worldbank.org/v2")
	cfg.ProviderRateLimit = getEnvFloatWithDefault("PROVIDER_RATE_LIMIT", 5)
	cfg.HTTPPort = getEnvIntWithDefault("HTTP_PORT", 8080)
	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvIntWithDefault("DB_PORT", 5432)
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "market_analysis")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")
	cfg.RedisAddr = getEnvWithDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntWithDefault("REDIS_DB", 0)
	cfg.CacheTTLMinutes = getEnvIntWithDefault("CACHE_TTL_MINUTES", 60)
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.StripePriceID = os.Getenv("STRIPE_PRICE_ID")
	cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.SubscriptionPrice = int64(getEnvIntWithDefault("SUBSCRIPTION_PRICE", 999))
	cfg.SubscriptionDays = getEnvIntWithDefault("SUBSCRIPTION_DAYS", 30)
	cfg.BaseURL = getEnvWithDefault("BASE_URL", "http://localhost:8080")

	return &cfg, nil
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

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
