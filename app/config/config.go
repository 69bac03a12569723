package config

import (
	"log"
	"os"
	"strconv"
	"time"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

const defaultFreeDailyLimit = 2 * time.Minute

type Config struct {
	DB           PostgresConfig
	Gemini       GeminiConfig
	Stripe       StripeConfig
	Usage        UsageConfig
	EncryptKey   string // 32 bytes for AES-256; empty means clear-text storage
	CallQueueURL string
	CronSecret   string
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type StripeConfig struct {
	SecretKey             string
	WebhookSecret         string
	PriceIDPremiumMonthly string
	FrontendURL           string
}

type UsageConfig struct {
	FreeDailyLimit time.Duration
}

func LoadConfig() (*Config, error) {
	limit := defaultFreeDailyLimit
	if v := os.Getenv("FREE_DAILY_LIMIT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			log.Printf("ignoring invalid FREE_DAILY_LIMIT_SECONDS=%q", v)
		} else {
			limit = time.Duration(secs) * time.Second
		}
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	encryptKey := os.Getenv("ENCRYPTION_KEY")
	if encryptKey != "" && len(encryptKey) != 32 {
		log.Printf("ENCRYPTION_KEY is %d bytes, want 32; message content will be stored in the clear", len(encryptKey))
	}

	cfg := &Config{
		DB: PostgresConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			URL:      os.Getenv("POSTGRES_URL"),
			Port:     os.Getenv("POSTGRES_PORT"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GOOGLE_API_KEY"),
			Model:  model,
		},
		Stripe: StripeConfig{
			SecretKey:             os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:         os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PriceIDPremiumMonthly: os.Getenv("STRIPE_PRICE_ID_PREMIUM_MONTHLY"),
			FrontendURL:           os.Getenv("FRONTEND_URL"),
		},
		Usage:        UsageConfig{FreeDailyLimit: limit},
		EncryptKey:   encryptKey,
		CallQueueURL: os.Getenv("CALL_QUEUE_URL"),
		CronSecret:   os.Getenv("CRON_SECRET"),
	}

	return cfg, nil
}
