package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	LogLevel           string
	CORSAllowedOrigins []string
	SeedDemoData       bool

	// Optional admin JWT guard
	Auth0Domain   string
	Auth0Audience string

	// Optional report export
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Optional text generation backend
	AssistantURL    string
	AssistantModel  string
	AssistantAPIKey string

	// Simulated collaborators and business rules
	VerificationCode    string
	PaymentConfirmDelay time.Duration
	PayoutMin           int
	PayoutMax           int
	RequirePassword     bool
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// In production environment variables are set directly
		// so it's okay if .env files don't exist
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("no .env file found, using system environment variables")
		}
	} else {
		log.Debug().Str("file", envFile).Msg("loaded configuration file")
	}

	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only
func FromEnv() (*Config, error) {
	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AssistantURL:       getEnv("ASSISTANT_BASE_URL", ""),
		AssistantModel:     getEnv("ASSISTANT_MODEL", ""),
		AssistantAPIKey:    getEnv("ASSISTANT_API_KEY", ""),
		VerificationCode:   getEnv("VERIFICATION_CODE", "123456"),
	}

	var err error
	if config.SeedDemoData, err = getBool("SEED_DEMO_DATA", true); err != nil {
		return nil, err
	}
	if config.RequirePassword, err = getBool("REQUIRE_PASSWORD", false); err != nil {
		return nil, err
	}
	if config.PaymentConfirmDelay, err = getDuration("PAYMENT_CONFIRM_DELAY", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if config.PayoutMin, err = getInt("PAYOUT_MIN", 500); err != nil {
		return nil, err
	}
	if config.PayoutMax, err = getInt("PAYOUT_MAX", 2000); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

var verificationCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.PayoutMin <= 0 || c.PayoutMin > c.PayoutMax {
		return fmt.Errorf("invalid payout band %d-%d", c.PayoutMin, c.PayoutMax)
	}
	if !verificationCodePattern.MatchString(c.VerificationCode) {
		return fmt.Errorf("VERIFICATION_CODE must be 6 digits")
	}
	if c.PaymentConfirmDelay < 0 {
		return fmt.Errorf("PAYMENT_CONFIRM_DELAY cannot be negative")
	}
	if (c.Auth0Domain == "") != (c.Auth0Audience == "") {
		return fmt.Errorf("AUTH0_DOMAIN and AUTH0_AUDIENCE must be set together")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AdminJWTEnabled reports whether admin routes also require an Auth0 token
func (c *Config) AdminJWTEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// ReportExportEnabled reports whether payment reports can be exported to S3
func (c *Config) ReportExportEnabled() bool {
	return c.AWSS3Bucket != ""
}

// AssistantEnabled reports whether a text generation backend is configured
func (c *Config) AssistantEnabled() bool {
	return c.AssistantURL != "" && c.AssistantModel != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
