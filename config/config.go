package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`
	WebDir     string `env:"WEB_DIR"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`

	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Broker   BrokerConfig
	Storage  StorageConfig
	Images   ImageConfig
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"alternativa"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	DBName   string `env:"DB_NAME" envDefault:"alternativa_db"`
	UseSSL   bool   `env:"DB_USE_SSL" envDefault:"false"`
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"3h"`
	SecureCookie bool          `env:"AUTH_SECURE_COOKIE" envDefault:"false"`
}

// MailConfig selects the relay used for contact form submissions.
// Provider is "smtp" or "sendgrid".
type MailConfig struct {
	Provider       string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	From           string `env:"EMAIL_USER"`
	To             string `env:"EMAIL_TO"`
	SMTPHost       string `env:"SMTP_HOST" envDefault:"carl.dnsserve.rs"`
	SMTPPort       int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPPassword   string `env:"EMAIL_PASS"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
}

// BrokerConfig selects how contact submissions reach the mailer.
// Backend "none" sends inline from the request handler.
type BrokerConfig struct {
	Backend      string `env:"BROKER_BACKEND" envDefault:"none"`
	ContactTopic string `env:"BROKER_CONTACT_TOPIC" envDefault:"contact-submissions"`
	RabbitMQ     RabbitMQConfig
	PubSub       PubSubConfig
}

type RabbitMQConfig struct {
	URL             string `env:"RABBITMQ_URL"`
	QueueDurable    bool   `env:"RABBITMQ_QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"RABBITMQ_QUEUE_AUTO_DELETE" envDefault:"false"`
	PrefetchCount   int    `env:"RABBITMQ_PREFETCH" envDefault:"1"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PUBSUB_PROJECT_ID"`
	CredentialsFile    string `env:"PUBSUB_CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"PUBSUB_SUBSCRIPTION_SUFFIX" envDefault:"-mailer"`
	MaxInFlight        int    `env:"PUBSUB_MAX_IN_FLIGHT" envDefault:"1"`
}

// StorageConfig selects where compressed images go. With backend "none"
// images stay inline as data URIs.
type StorageConfig struct {
	Backend       string `env:"STORAGE_BACKEND" envDefault:"none"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`
	Minio         MinioConfig
	GCS           GCSConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"alternativa"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	ProjectID       string `env:"GCS_PROJECT_ID"`
	CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	Location        string `env:"GCS_LOCATION" envDefault:"EUROPE-WEST3"`
}

type ImageConfig struct {
	MaxBytes     int `env:"IMAGE_MAX_BYTES" envDefault:"2097152"`
	MaxDimension int `env:"IMAGE_MAX_DIMENSION" envDefault:"1200"`
	Quality      int `env:"IMAGE_QUALITY" envDefault:"80"`
}

func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Mail.Provider = strings.ToLower(strings.TrimSpace(cfg.Mail.Provider))
	cfg.Broker.Backend = strings.ToLower(strings.TrimSpace(cfg.Broker.Backend))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	switch c.Broker.Backend {
	case "none", "rabbitmq", "pubsub":
	default:
		return fmt.Errorf("unknown BROKER_BACKEND %q", c.Broker.Backend)
	}
	switch c.Storage.Backend {
	case "none", "minio", "gcs":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Mail.Provider {
	case "smtp", "sendgrid":
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	return nil
}

// Recipient is where contact submissions are delivered. The relay account
// receives them when no explicit recipient is configured.
func (c MailConfig) Recipient() string {
	if strings.TrimSpace(c.To) != "" {
		return c.To
	}
	return c.From
}
