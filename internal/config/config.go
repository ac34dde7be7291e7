package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"signin-portal/internal/logger"
)

type Config struct {
	AppPort string

	SessionSecret string
	CookieSecure  bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	KeycloakIssuer        string
	KeycloakClientID      string
	KeycloakRedirectURL   string
	KeycloakPublicBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseDSN string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, relying on environment variables", nil)
	}

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  getbool("COOKIE_SECURE", true),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		KeycloakIssuer:        os.Getenv("KEYCLOAK_ISSUER"),
		KeycloakClientID:      os.Getenv("KEYCLOAK_CLIENT_ID"),
		KeycloakRedirectURL:   os.Getenv("KEYCLOAK_REDIRECT_URL"),
		KeycloakPublicBaseURL: os.Getenv("KEYCLOAK_PUBLIC_BASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var missing []string
	if c.AppPort == "" {
		missing = append(missing, "APP_PORT")
	}
	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(c.SessionSecret) < 32 {
		missing = append(missing, "SESSION_SECRET (32+ bytes)")
	}
	if len(missing) > 0 {
		return errors.New("config: missing " + strings.Join(missing, ", "))
	}
	return nil
}

// GoogleEnabled reports whether the Google provider is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// KeycloakEnabled reports whether the Keycloak provider is configured.
func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != "" && c.KeycloakClientID != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getbool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
