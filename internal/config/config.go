package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EmailProviderLog      = "log"
	EmailProviderSES      = "ses"
	EmailProviderPostmark = "postmark"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE"`
	Secret     string `env:"SECRET,required"`

	PostgresqlURL              string `env:"POSTGRESQL_URL"`
	RedisURL                   string `env:"REDIS_URL"`
	RabbitmqURL                string `env:"RABBITMQ_URL"`
	RabbitmqPasswordResetQueue string `env:"RABBITMQ_PASSWORD_RESET_QUEUE" envDefault:"password-reset-links"`

	BcryptHasherCost                  int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetValidDurationMinutes int `env:"PASSWORD_RESET_VALID_DURATION_MINUTES" envDefault:"60"`

	RawBaseURL     string   `env:"BASE_URL" envDefault:"http://localhost:8080"`
	baseURL        url.URL
	HTTPAddress    string   `env:"HTTP_ADDRESS" envDefault:"0.0.0.0:8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	EmailProvider                 string `env:"EMAIL_PROVIDER" envDefault:"log"`
	EmailSender                   string `env:"EMAIL_SENDER"`
	AwsRegion                     string `env:"AWS_REGION"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE"`
	PostmarkServerToken           string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken          string `env:"POSTMARK_ACCOUNT_TOKEN"`

	SessionSecret        string `env:"SESSION_SECRET"`
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`

	SentryDsn string `env:"SENTRY_DSN"`
}

// Load reads an optional .env file from the working directory and then
// the process environment, which takes precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("SECRET must not be empty")
	}
	baseURL, err := url.Parse(c.RawBaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return fmt.Errorf("invalid BASE_URL value: %q", c.RawBaseURL)
	}
	c.baseURL = *baseURL

	if c.PasswordResetValidDurationMinutes <= 0 {
		return fmt.Errorf("PASSWORD_RESET_VALID_DURATION_MINUTES must be positive")
	}
	if c.SessionSecret == "" {
		c.SessionSecret = c.Secret
	}

	switch c.EmailProvider {
	case EmailProviderLog:
	case EmailProviderSES:
		if c.EmailSender == "" || c.AwsRegion == "" || c.AwsEmailPasswordResetTemplate == "" {
			return fmt.Errorf("EMAIL_SENDER, AWS_REGION and AWS_EMAIL_PASSWORD_RESET_TEMPLATE must be set for ses")
		}
	case EmailProviderPostmark:
		if c.EmailSender == "" || c.PostmarkServerToken == "" {
			return fmt.Errorf("EMAIL_SENDER and POSTMARK_SERVER_TOKEN must be set for postmark")
		}
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER value: %q", c.EmailProvider)
	}
	// The outbox stream lives in the API process, so queued links would be lost.
	if c.RabbitmqURL != "" && c.EmailProvider == EmailProviderLog {
		return fmt.Errorf("RABBITMQ_URL requires EMAIL_PROVIDER ses or postmark")
	}
	return nil
}

// SMTPConfigured reports whether reset links leave the system at all.
// It depends on configuration only, never on the request.
func (c *Config) SMTPConfigured() bool {
	return c.EmailProvider != EmailProviderLog
}

func (c *Config) BaseURL() url.URL {
	return c.baseURL
}

func (c *Config) OAuthRedirectURL(provider string) string {
	return c.baseURL.JoinPath("auth", "oauth", provider, "callback").String()
}
