package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		JWTSecret:      "secret",
		JWTExpiration:  time.Hour,
		UploadBackend:  UploadBackendLocal,
		MaxUploadBytes: 1024,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"png", "jpg"}, cfg.AllowedExtensions)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 5*time.Second, cfg.ShutdownGrace)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("ALLOWED_EXTENSIONS", "png;jpg;gif")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"png", "jpg", "gif"}, cfg.AllowedExtensions)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"blank secret", func(c *Config) { c.JWTSecret = "  " }, false},
		{"unknown backend", func(c *Config) { c.UploadBackend = "ftp" }, false},
		{"s3 without bucket", func(c *Config) { c.UploadBackend = UploadBackendS3 }, false},
		{"s3 with bucket", func(c *Config) { c.UploadBackend = UploadBackendS3; c.UploadBucket = "avatars" }, true},
		{"zero upload size", func(c *Config) { c.MaxUploadBytes = 0 }, false},
		{"zero rate", func(c *Config) { c.RateLimitRPS = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{DatabaseURL: "postgresql://u:p@db:5432/phonebook"}
	assert.Equal(t, "postgres://u:p@db:5432/phonebook", cfg.DSN())

	cfg = Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p@ss", DBName: "phonebook", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/phonebook?sslmode=disable", cfg.DSN())
}

func TestMigrationURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db:5432/phonebook?sslmode=disable"}
	got, err := cfg.MigrationURL()
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@db:5432/phonebook?sslmode=disable", got)

	cfg = Config{DatabaseURL: "mysql://u:p@db/phonebook"}
	_, err = cfg.MigrationURL()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", "text")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLogger("loud", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
