package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Protocol clients usable for the primary avatar upload path
const (
	ProtocolClientS3    = "s3"
	ProtocolClientMinIO = "minio"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	Env string `env:"ENV" envDefault:"development"`

	Server    ServerConfig
	Supabase  SupabaseConfig  `envPrefix:"SUPABASE_"`
	S3        S3Config        `envPrefix:"S3_"`
	Avatar    AvatarConfig    `envPrefix:"AVATAR_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"3001"`
	FrontendURL  string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:","`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	// APIURL is the public base of the deployed API, listed in the OpenAPI servers
	APIURL string `env:"API_URL"`

	// Redirect targets handed to the auth provider
	OAuthRedirectURL         string `env:"OAUTH_REDIRECT_URL"`
	PasswordResetRedirectURL string `env:"PASSWORD_RESET_REDIRECT_URL"`
}

// SupabaseConfig holds the hosted auth provider settings
type SupabaseConfig struct {
	URL         string `env:"URL"`
	Key         string `env:"KEY"`
	JWTSecret   string `env:"JWT_SECRET"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"authenticated"`
}

// S3Config holds object storage configuration
type S3Config struct {
	Region          string `env:"REGION" envDefault:"us-west-1"`
	Bucket          string `env:"BUCKET" envDefault:"profile-avatars"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	// Endpoint defaults to the Supabase S3 gateway
	Endpoint string `env:"ENDPOINT"`
	// PublicURL is the base that object keys are appended to
	PublicURL      string `env:"PUBLIC_URL"`
	ProtocolClient string `env:"PROTOCOL_CLIENT" envDefault:"s3"`
}

// AvatarConfig holds avatar upload limits
type AvatarConfig struct {
	MaxBytes     int64 `env:"MAX_BYTES" envDefault:"5242880"`
	MaxDimension int   `env:"MAX_DIMENSION" envDefault:"1024"`
}

// RateLimitConfig holds limits for the public auth routes
type RateLimitConfig struct {
	RequestsPerMinute int `env:"REQUESTS_PER_MINUTE" envDefault:"20"`
	Burst             int `env:"BURST" envDefault:"5"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return Parse()
}

// Parse builds a Config from the current environment without touching .env
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills values derived from other settings
func (c *Config) applyDefaults() {
	c.Supabase.URL = strings.TrimRight(c.Supabase.URL, "/")
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{c.Server.FrontendURL}
	}
	if c.S3.Endpoint == "" && c.Supabase.URL != "" {
		c.S3.Endpoint = c.Supabase.URL + "/storage/v1/s3"
	}
	if c.S3.PublicURL == "" && c.Supabase.URL != "" {
		c.S3.PublicURL = c.Supabase.URL + "/storage/v1/object/public"
	}
	if c.Server.OAuthRedirectURL == "" {
		c.Server.OAuthRedirectURL = c.Server.FrontendURL + "/auth/callback"
	}
	if c.Server.PasswordResetRedirectURL == "" {
		c.Server.PasswordResetRedirectURL = c.Server.FrontendURL + "/reset-password"
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.Key == "" {
		return fmt.Errorf("SUPABASE_KEY is required")
	}
	if c.Supabase.JWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	switch c.S3.ProtocolClient {
	case ProtocolClientS3, ProtocolClientMinIO:
	default:
		return fmt.Errorf("S3_PROTOCOL_CLIENT must be %q or %q", ProtocolClientS3, ProtocolClientMinIO)
	}
	if c.Avatar.MaxBytes <= 0 {
		return fmt.Errorf("AVATAR_MAX_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// JWTIssuer returns the expected issuer of access tokens
func (c SupabaseConfig) JWTIssuer() string {
	return c.URL + "/auth/v1"
}
