package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port    string
	DevMode bool

	// External collaborators
	APIBaseURL string
	AIBaseURL  string

	// Local session store
	SQLitePath string

	// AMQP (insights warm-up events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Service token the insights worker uses against the backend. The web
	// binary ignores it; browser sessions carry their own tokens.
	WorkerToken string

	// Tuning
	CacheTTL        time.Duration
	SuggestDebounce time.Duration
	RequestTimeout  time.Duration
}

// Load reads configuration from a .env file (when present) and the
// environment, falling back to development defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8082"),
		DevMode: getEnvBool("DEV_MODE", false),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
		AIBaseURL:  getEnv("AI_BASE_URL", "http://localhost:8000"),

		SQLitePath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "warm_insights"),

		WorkerToken: getEnv("WORKER_API_TOKEN", ""),

		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
		SuggestDebounce: getEnvDuration("SUGGEST_DEBOUNCE", 600*time.Millisecond),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for name, raw := range map[string]string{"API_BASE_URL": c.APIBaseURL, "AI_BASE_URL": c.AIBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid %s '%s': must be an absolute http(s) URL", name, raw))
		}
	}

	if c.SQLitePath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLitePath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SuggestDebounce < 50*time.Millisecond || c.SuggestDebounce > 5*time.Second {
		errs = append(errs, fmt.Sprintf("invalid suggest debounce %v: must be between 50ms and 5s", c.SuggestDebounce))
	}
	if c.CacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.RequestTimeout < time.Second || c.RequestTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid request timeout %v: must be between 1s and 1m", c.RequestTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
