package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	StoreDriver                      string `mapstructure:"STORE_DRIVER"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseStorageBucket            string `mapstructure:"FIREBASE_STORAGE_BUCKET"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	ClientURL  string `mapstructure:"CLIENT_URL"`
	AppBaseURL string `mapstructure:"APP_BASE_URL"`

	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	PackageCacheTTL  time.Duration `mapstructure:"PACKAGE_CACHE_TTL"`
	PackageCacheSize int           `mapstructure:"PACKAGE_CACHE_SIZE"`

	SearchURL   string `mapstructure:"SEARCH_URL"`
	CatalogFile string `mapstructure:"CATALOG_FILE"`

	AMQPURL   string `mapstructure:"AMQP_URL"`
	AMQPQueue string `mapstructure:"AMQP_QUEUE"`

	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   int    `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	NotifyFrom string `mapstructure:"NOTIFY_FROM"`
	NotifyTo   string `mapstructure:"NOTIFY_TO"`

	// ProtectedPrefixes is a comma separated list of page path prefixes behind the edge gate.
	ProtectedPrefixes string `mapstructure:"PROTECTED_PREFIXES"`
	LeadRatePerMinute int    `mapstructure:"LEAD_RATE_PER_MINUTE"`
}

var envKeys = []string{
	"PORT", "GIN_MODE",
	"STORE_DRIVER", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "FIREBASE_STORAGE_BUCKET",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET",
	"CLIENT_URL", "APP_BASE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "PACKAGE_CACHE_TTL", "PACKAGE_CACHE_SIZE",
	"SEARCH_URL", "CATALOG_FILE",
	"AMQP_URL", "AMQP_QUEUE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "NOTIFY_FROM", "NOTIFY_TO",
	"PROTECTED_PREFIXES", "LEAD_RATE_PER_MINUTE",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORE_DRIVER", StoreDriverFirestore)
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("PACKAGE_CACHE_TTL", 5*time.Minute)
	v.SetDefault("PACKAGE_CACHE_SIZE", 1024)
	v.SetDefault("AMQP_QUEUE", "site-events")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("PROTECTED_PREFIXES", "/admin,/account")
	v.SetDefault("LEAD_RATE_PER_MINUTE", 10)

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields for the selected store driver.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory:
		return nil
	case StoreDriverFirestore:
	default:
		return errors.New("STORE_DRIVER must be 'firestore' or 'memory'")
	}

	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.AppBaseURL == "" {
		return errors.New("APP_BASE_URL is required")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// GatePrefixes returns the trimmed, non-empty entries of ProtectedPrefixes.
func (c *Config) GatePrefixes() []string {
	var prefixes []string
	for _, p := range strings.Split(c.ProtectedPrefixes, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
