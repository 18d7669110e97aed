package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full set of externally supplied settings. Load reads it from
// the environment; main loads a .env file first when one exists.
type Config struct {
	Port        string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	BaseURL     string

	SMTPHost  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		FromEmail:   os.Getenv("FROM_EMAIL"),
	}
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET required")
	}

	mins := 60
	if v := os.Getenv("TOKEN_TTL_MIN"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil || t <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_MIN %q", v)
		}
		mins = t
	}
	cfg.TokenTTL = time.Duration(mins) * time.Minute

	cfg.BaseURL = getenv("BASE_URL", "http://localhost:"+cfg.Port)
	return cfg, nil
}

// MailConfigured reports whether outbound email can be attempted at all.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
