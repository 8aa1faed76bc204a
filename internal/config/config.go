package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
)

// Config is read from the environment (and .env, loaded by main beforehand).
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER,default=postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME,default=phonebook"`
	DBSSLMode   string `env:"DB_SSLMODE,default=disable"`

	JWTSecret     string        `env:"JWT_SECRET_KEY,required"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION,default=720h"`

	ServerPort    string        `env:"SERVER_PORT,default=8080"`
	GinMode       string        `env:"GIN_MODE,default=release"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE,default=5s"`

	UploadsDir        string   `env:"UPLOADS_DIR,default=uploads"`
	UploadBackend     string   `env:"UPLOAD_BACKEND,default=local"`
	UploadBucket      string   `env:"UPLOAD_BUCKET"`
	UploadPrefix      string   `env:"UPLOAD_PREFIX"`
	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES,default=5242880"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS,default=png;jpg"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=10"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load decodes the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil, errors.New("JWT_SECRET_KEY not set in environment")
		}
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET_KEY must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	switch c.UploadBackend {
	case UploadBackendLocal:
	case UploadBackendS3:
		if c.UploadBucket == "" {
			return errors.New("UPLOAD_BUCKET is required when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q (want %s or %s)", c.UploadBackend, UploadBackendLocal, UploadBackendS3)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN returns a postgres:// connection URL. DATABASE_URL wins over the DB_* variables;
// the postgresql:// spelling is accepted and rewritten.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		if rest, ok := strings.CutPrefix(c.DatabaseURL, "postgresql://"); ok {
			return "postgres://" + rest
		}
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// MigrationURL is the DSN with the scheme golang-migrate's pgx/v5 driver registers.
func (c *Config) MigrationURL() (string, error) {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme != "postgres" {
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
	u.Scheme = "pgx5"
	return u.String(), nil
}
