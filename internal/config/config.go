package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAddr         = ":8080"
	defaultDatabaseURL  = "buyers.db"
	defaultCreateLimit  = "5"
	defaultUpdateLimit  = "10"
	defaultCookieSecure = "false"
)

// Config is the full runtime configuration, loaded from the
// environment with local-development defaults.
type Config struct {
	Addr               string
	DatabaseURL        string
	CORSAllowedOrigins []string
	CreatePerMinute    int
	UpdatePerMinute    int
	CookieSecure       bool
}

// Load reads .env if present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        getEnv("ADDR", defaultAddr),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	var err error
	cfg.CreatePerMinute, err = parseIntEnv("RATE_CREATE_PER_MIN", defaultCreateLimit)
	if err != nil {
		return nil, err
	}
	cfg.UpdatePerMinute, err = parseIntEnv("RATE_UPDATE_PER_MIN", defaultUpdateLimit)
	if err != nil {
		return nil, err
	}
	cfg.CookieSecure = strings.EqualFold(getEnv("COOKIE_SECURE", defaultCookieSecure), "true")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.CreatePerMinute <= 0 {
		return fmt.Errorf("RATE_CREATE_PER_MIN must be > 0")
	}
	if cfg.UpdatePerMinute <= 0 {
		return fmt.Errorf("RATE_UPDATE_PER_MIN must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return n, nil
}
