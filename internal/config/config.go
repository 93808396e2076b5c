package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"shopkart"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET"`

	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:""`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"order_events"`

	PhonePeBaseURL      string `env:"PHONEPE_BASE_URL" envDefault:"https://api-preprod.phonepe.com/apis/pg-sandbox"`
	PhonePeClientID     string `env:"PHONEPE_CLIENT_ID"`
	PhonePeClientSecret string `env:"PHONEPE_CLIENT_SECRET"`
	PhonePeRedirectURL  string `env:"PHONEPE_REDIRECT_URL" envDefault:"http://localhost:8080/api/orders/status"`

	ShiprocketBaseURL  string `env:"SR_BASE_URL" envDefault:"https://apiv2.shiprocket.in/v1/external"`
	ShiprocketEmail    string `env:"SR_API_EMAIL"`
	ShiprocketPassword string `env:"SR_API_PASSWORD"`
	PickupLocation     string `env:"SR_PICKUP_LOCATION" envDefault:"Primary"`

	SMTPHost   string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort   int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASSWORD"`
	FromEmail  string `env:"FROM_EMAIL"`
	AdminEmail string `env:"ADMIN_EMAIL"`

	InvoiceDir string `env:"INVOICE_DIR" envDefault:"invoices"`
}

func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment variables")
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	return c, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func (c Config) KafkaBrokersSlice() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPass,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}
