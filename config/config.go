package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // civil timezone must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/marcelsud/complaint-notifier/webhook"
	"github.com/spf13/viper"
)

/* Config is read from an optional config.toml and .env, and every key can be
 * overridden by an environment variable of the same name
 */

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	NotificationsEnabled        bool   `mapstructure:"NOTIFICATIONS_ENABLED"`
	WebhookBaseURL              string `mapstructure:"WEBHOOK_BASE_URL"`
	WebhookComplaintCreatedPath string `mapstructure:"WEBHOOK_COMPLAINT_CREATED_PATH"`
	WebhookTextRewritePath      string `mapstructure:"WEBHOOK_TEXT_REWRITE_PATH"`
	WebhookRoutesFile           string `mapstructure:"WEBHOOK_ROUTES_FILE"`
	WebhookSigningSecret        string `mapstructure:"WEBHOOK_SIGNING_SECRET"`
	WebhookTimeoutSeconds       int    `mapstructure:"WEBHOOK_TIMEOUT_SECONDS"`
	WebhookMaxAttempts          int    `mapstructure:"WEBHOOK_MAX_ATTEMPTS"`
	WebhookPollIntervalMS       int    `mapstructure:"WEBHOOK_POLL_INTERVAL_MS"`

	QueueBackend  string `mapstructure:"QUEUE_BACKEND"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	ReminderEnabled  bool   `mapstructure:"REMINDER_ENABLED"`
	ReminderTimezone string `mapstructure:"REMINDER_TIMEZONE"`
	ReminderHour     int    `mapstructure:"REMINDER_HOUR"`

	MailProvider string `mapstructure:"MAIL_PROVIDER"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	AWSRegion    string `mapstructure:"AWS_REGION"`
}

var defaults = map[string]any{
	"PORT":                           "8080",
	"LOG_LEVEL":                      "info",
	"NOTIFICATIONS_ENABLED":          true,
	"WEBHOOK_BASE_URL":               "",
	"WEBHOOK_COMPLAINT_CREATED_PATH": "/webhook/complaint-created",
	"WEBHOOK_TEXT_REWRITE_PATH":      "/webhook/text-rewrite",
	"WEBHOOK_ROUTES_FILE":            "",
	"WEBHOOK_SIGNING_SECRET":         "",
	"WEBHOOK_TIMEOUT_SECONDS":        30,
	"WEBHOOK_MAX_ATTEMPTS":           3,
	"WEBHOOK_POLL_INTERVAL_MS":       1000,
	"QUEUE_BACKEND":                  "memory",
	"REDIS_ADDR":                     "localhost:6379",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"DATABASE_URL":                   "",
	"REMINDER_ENABLED":               true,
	"REMINDER_TIMEZONE":              "Asia/Bangkok",
	"REMINDER_HOUR":                  9,
	"MAIL_PROVIDER":                  "log",
	"MAIL_FROM":                      "no-reply@localhost",
	"AWS_REGION":                     "ap-southeast-1",
}

func GetConfig() (*Config, error) {
	// .env is optional, real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate rejects values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.WebhookMaxAttempts < 0 {
		return fmt.Errorf("WEBHOOK_MAX_ATTEMPTS cannot be negative")
	}
	if c.WebhookTimeoutSeconds <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT_SECONDS must be positive")
	}
	if c.WebhookPollIntervalMS <= 0 {
		return fmt.Errorf("WEBHOOK_POLL_INTERVAL_MS must be positive")
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23 (got %d)", c.ReminderHour)
	}
	if err := c.Backend().Validate(); err != nil {
		return fmt.Errorf("QUEUE_BACKEND must be %s or %s (got %q): %w", webhook.Memory, webhook.Redis, c.QueueBackend, err)
	}
	if c.MailProvider != "log" && c.MailProvider != "ses" {
		return fmt.Errorf("MAIL_PROVIDER must be log or ses (got %q)", c.MailProvider)
	}
	return nil
}

func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSeconds) * time.Second
}

func (c *Config) WebhookPollInterval() time.Duration {
	return time.Duration(c.WebhookPollIntervalMS) * time.Millisecond
}

// BaseURLConfigured reports whether webhooks have somewhere to go
func (c *Config) BaseURLConfigured() bool {
	return c.WebhookBaseURL != ""
}

// Location loads the civil timezone used for reminder dates
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.ReminderTimezone, err)
	}
	return loc, nil
}

// Backend returns the queue backend selected by QUEUE_BACKEND
func (c *Config) Backend() webhook.Backend {
	return webhook.NewBackend(c.QueueBackend)
}
