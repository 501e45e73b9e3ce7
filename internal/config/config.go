package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	TokenSecret     string
	ShutdownTimeout time.Duration

	// Payment gateway is optional; empty address disables verification and
	// keeps non-COD payments pending.
	PaymentGatewayAddress string

	// Redis is optional; empty address disables the stats cache.
	RedisAddr     string
	RedisPassword string
	StatsCacheTTL time.Duration

	// SMTP is optional; unset address wires the noop mailer.
	SMTPAddress  string
	SMTPHost     string
	FromEmail    string
	FromPassword string

	NotifyWorkers   int
	NotifyQueueSize int
	TopProductsN    int
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultShutdownTimeout = 10 * time.Second
	defaultStatsCacheTTL   = time.Minute
	defaultNotifyWorkers   = 2
	defaultNotifyQueueSize = 128
	defaultTopProductsN    = 5
)

// Load parses configuration from an optional .env file, environment
// variables and flags. Environment wins over .env, flags win over both.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		TokenSecret:           getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PaymentGatewayAddress: getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		RedisAddr:             getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:         getString(lookup, "REDIS_PASSWORD", ""),
		StatsCacheTTL:         getDuration(lookup, "STATS_CACHE_TTL", defaultStatsCacheTTL),
		SMTPAddress:           getString(lookup, "SMTP_ADDRESS", ""),
		SMTPHost:              getString(lookup, "SMTP_HOST", ""),
		FromEmail:             getString(lookup, "FROM_EMAIL", ""),
		FromPassword:          getString(lookup, "FROM_EMAIL_PASSWORD", ""),
		NotifyWorkers:         getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:       getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		TopProductsN:          getInt(lookup, "TOP_PRODUCTS_N", defaultTopProductsN),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	shutdownTimeoutStr := cfg.ShutdownTimeout.String()

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentGatewayAddress, "gateway", cfg.PaymentGatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the stats cache")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of notification workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.TopProductsN <= 0 {
		cfg.TopProductsN = defaultTopProductsN
	}

	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = defaultStatsCacheTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
