package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	HTTPListenAddr string
	ServiceName    string
	LogLevel       string

	JWTSecret           string
	StripeWebhookSecret string

	// Hosted checkout. The create-checkout endpoint reports unavailable
	// when the secret key is unset.
	StripeSecretKey  string
	StripePriceBasic string
	StripePricePro   string
	FrontendURL      string

	// Workflow automation engine.
	EngineURL                string
	EngineAPIKey             string
	EngineTemplateWorkflowID string

	// Fixed upstream endpoint for the unauthenticated demo relay.
	DemoWebhookURL string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		RedisURL:                 getEnv("REDIS_URL", "redis://localhost:6379"),
		HTTPListenAddr:           getEnv("HTTP_LISTEN_ADDR", ":8090"),
		ServiceName:              getEnv("SERVICE_NAME", "chatrelay-api"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		StripeWebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeSecretKey:          getEnv("STRIPE_SECRET_KEY", ""),
		StripePriceBasic:         getEnv("STRIPE_PRICE_BASIC", ""),
		StripePricePro:           getEnv("STRIPE_PRICE_PRO", ""),
		FrontendURL:              getEnv("FRONTEND_URL", ""),
		EngineURL:                getEnv("ENGINE_URL", ""),
		EngineAPIKey:             getEnv("ENGINE_API_KEY", ""),
		EngineTemplateWorkflowID: getEnv("ENGINE_TEMPLATE_WORKFLOW_ID", ""),
		DemoWebhookURL:           getEnv("DEMO_WEBHOOK_URL", ""),
	}

	return cfg, nil
}

// Validate checks that every field the API server cannot run without is set.
// DEMO_WEBHOOK_URL and the STRIPE_SECRET_KEY / STRIPE_PRICE_* / FRONTEND_URL
// group are optional; their endpoints report unavailable when unset.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.EngineURL == "" {
		missing = append(missing, "ENGINE_URL")
	}
	if c.EngineAPIKey == "" {
		missing = append(missing, "ENGINE_API_KEY")
	}
	if c.EngineTemplateWorkflowID == "" {
		missing = append(missing, "ENGINE_TEMPLATE_WORKFLOW_ID")
	}
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
