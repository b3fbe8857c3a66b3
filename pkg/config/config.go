package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once in main and handed to every service. Handlers never
// read the environment directly.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	Storage  StorageConfig
	Email    EmailConfig
	AI       AIConfig
	Site     SiteConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type StorageConfig struct {
	AccountID     string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

type AIConfig struct {
	APIKey   string
	Endpoint string
	Model    string
}

type SiteConfig struct {
	BaseURL     string
	AdminEmails []string
}

type JWTConfig struct {
	Secret string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Storage: StorageConfig{
			AccountID:     getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:     getEnv("R2_ACCESS_KEY", ""),
			SecretKey:     getEnv("R2_SECRET_KEY", ""),
			Bucket:        getEnv("R2_BUCKET", "stacklist-assets"),
			PublicBaseURL: getEnv("R2_PUBLIC_URL", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "StackList <noreply@stacklist.dev>"),
		},
		AI: AIConfig{
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			Endpoint: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
			Model:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Site: SiteConfig{
			BaseURL:     getEnv("SITE_URL", "http://localhost:3000"),
			AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "stacklist-dev-secret"),
		},
	}
}

// IsAdminEmail reports whether the address is on the admin allow-list.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.Site.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
