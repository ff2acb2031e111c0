// Package config handles loading and managing application configuration.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Supabase (auth + Postgres-over-REST) configuration
	Supabase SupabaseConfig

	// PayPal REST API configuration
	PayPal PayPalConfig

	// Mercado Pago configuration
	MercadoPago MercadoPagoConfig

	// Payment behaviour settings
	Payments PaymentsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          string
	GinMode       string // "debug", "release", or "test"
	PublicBaseURL string // used to build fallback payment return URLs
}

// SupabaseConfig holds the Postgres-over-REST backend configuration.
type SupabaseConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string // HS256 secret used to validate Supabase-issued JWTs
}

// PayPalConfig holds PayPal REST API credentials.
type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// MercadoPagoConfig holds Mercado Pago credentials.
type MercadoPagoConfig struct {
	AccessToken string
	WebhookURL  string
}

// PaymentsConfig holds payment-intent behaviour settings.
type PaymentsConfig struct {
	// MethodCandidates is the ordered fallback list of method tags tried
	// when the storage schema rejects one. The pagos table enforces a
	// closed enum that may lag behind the provider configuration.
	MethodCandidates []string
}

// Load reads configuration from environment variables.
// A local .env file is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "4001")

	return &Config{
		Server: ServerConfig{
			Port:          port,
			GinMode:       getEnv("GIN_MODE", "debug"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		},
		Supabase: SupabaseConfig{
			URL:        getEnv("SUPABASE_URL", ""),
			AnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
		},
		PayPal: PayPalConfig{
			BaseURL:      getEnv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken: getEnv("MP_ACCESS_TOKEN", ""),
			WebhookURL:  getEnv("MP_WEBHOOK_URL", ""),
		},
		Payments: PaymentsConfig{
			MethodCandidates: []string{"paypal", "mercadopago", "mp", "online", "tarjeta", "efectivo"},
		},
	}
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer with a fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
