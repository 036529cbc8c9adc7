package app

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/aussiebroadwan/easemob/pkg/httpx"
)

type Config struct {
	ClientID     string // EaseMob client id
	ClientSecret string // EaseMob client secret
	OrgName      string // Required: EaseMob org name
	AppName      string // Required: EaseMob app name
	ServerURL    string // REST host (default: https://a1.easemob.com)
	Token        string // Optional: access token to use instead of a grant

	TokenDB         string        // Optional: sqlite file caching tokens between runs, empty disables (default: easemob.db)
	TokenKey        string        // Optional: key material sealing cached tokens (default: client secret)
	HTTPTimeout     time.Duration // Per-request timeout (default: 10s)
	RateLimit       httpx.RateLimitConfig
	MetricsTextfile string // Optional: Prometheus textfile written on Close

	Env       string    // Environment (dev, staging, prod) (default: prod)
	LogLevel  string    // Log level (debug, info, warn, error) (default: warn)
	LogFormat string    // Log format (json, text) (default: text)
	LogWriter io.Writer // Not read from the environment (default: stderr)
}

func LoadConfig() Config {
	return Config{
		ClientID:     os.Getenv("EASEMOB_CLIENT_ID"),
		ClientSecret: os.Getenv("EASEMOB_CLIENT_SECRET"),
		OrgName:      os.Getenv("EASEMOB_ORG_NAME"),
		AppName:      os.Getenv("EASEMOB_APP_NAME"),
		ServerURL:    getEnvOrDefault("EASEMOB_SERVER_URL", easemob.DefaultServerURL),
		Token:        os.Getenv("EASEMOB_TOKEN"),

		TokenDB:         getEnvOrDefault("EASEMOB_TOKEN_DB", "easemob.db"),
		TokenKey:        os.Getenv("EASEMOB_TOKEN_KEY"),
		HTTPTimeout:     getEnvDurationOrDefault("EASEMOB_HTTP_TIMEOUT", easemob.DefaultTimeout),
		RateLimit:       httpx.ParseRateLimitFromEnv("EASEMOB", httpx.Disabled),
		MetricsTextfile: os.Getenv("EASEMOB_METRICS_TEXTFILE"),

		Env:       getEnvOrDefault("ENV", "prod"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// AppKey returns "{org}#{app}".
func (c Config) AppKey() string {
	return c.OrgName + "#" + c.AppName
}

func (c Config) sealingKey() []byte {
	if c.TokenKey != "" {
		return []byte(c.TokenKey)
	}
	return []byte(c.ClientSecret)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
