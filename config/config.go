package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PlatformFeeBps int64  // platform share of each checkout, in basis points
	OnboardRefresh string // organizer is sent back here when the link expires
	OnboardReturn  string
	SuccessURL     string
	CancelURL      string
}

type CheckoutConfig struct {
	// ReservationTTL bounds how long a pending checkout holds a spot.
	// Matches the hosted checkout session expiry.
	ReservationTTL time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PlatformFeeBps: getEnvInt64("STRIPE_PLATFORM_FEE_BPS", 500),
			OnboardRefresh: getEnv("STRIPE_ONBOARD_REFRESH_URL", "http://localhost:8080/connect/onboarding"),
			OnboardReturn:  getEnv("STRIPE_ONBOARD_RETURN_URL", "http://localhost:8080/connect/status"),
			SuccessURL:     getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:8080/payment/success"),
			CancelURL:      getEnv("CHECKOUT_CANCEL_URL", "http://localhost:8080/payment/cancel"),
		},
		Checkout: CheckoutConfig{
			ReservationTTL: getEnvDuration("CHECKOUT_RESERVATION_TTL", 30*time.Minute),
		},
	}

	return AppConfig
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "pitchpay"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		panic(err)
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}
	return d
}
