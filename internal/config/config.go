package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret string
	JWTExpiry time.Duration

	CORSOrigins []string
	// TrustedProxies is the number of reverse proxies in front of the server.
	// The client address is the X-Forwarded-For entry that many hops from the
	// right; 0 ignores the header.
	TrustedProxies int

	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Vault     VaultConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// RateLimitConfig controls the fixed-window limiter on the /api/auth routes.
// An empty RedisURL disables limiting.
type RateLimitConfig struct {
	RedisURL string
	Limit    int
	Window   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type VaultConfig struct {
	// StrictDelete answers 404 when a delete matched no record owned by the caller.
	StrictDelete bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtExpiry, err := parseDuration(getEnv("JWT_EXPIRY", "7d"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid JWT_EXPIRY")
	}

	rateWindow, err := parseDuration(getEnv("AUTH_RATE_WINDOW", "15m"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid AUTH_RATE_WINDOW")
	}

	rateLimit, err := strconv.Atoi(getEnv("AUTH_RATE_LIMIT", "100"))
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid AUTH_RATE_LIMIT: must be a positive integer")
	}

	trustedProxies, err := strconv.Atoi(getEnv("TRUST_PROXY", "1"))
	if err != nil || trustedProxies < 0 {
		return nil, errors.New("invalid TRUST_PROXY: must be a non-negative integer")
	}

	strictDelete, err := strconv.ParseBool(getEnv("VAULT_STRICT_DELETE", "false"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid VAULT_STRICT_DELETE")
	}

	return &Config{
		Port:        getEnv("PORT", "4000"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnvOrPanic("JWT_SECRET"),
		JWTExpiry: jwtExpiry,

		CORSOrigins:    splitList(getEnv("CORS_ORIGIN", "*")),
		TrustedProxies: trustedProxies,

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},

		RateLimit: RateLimitConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Limit:    rateLimit,
			Window:   rateWindow,
		},

		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},

		Vault: VaultConfig{
			StrictDelete: strictDelete,
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

// parseDuration accepts Go durations plus a whole-day form such as "7d".
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, errors.Errorf("bad day count %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.Errorf("duration must be positive, got %q", raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
