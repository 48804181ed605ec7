package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/domain/pricing"
	"github.com/polkiloo/guidee/internal/domain/refund"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	ListingServiceAddress string
	RedisAddress          string
	AuthSecret            string
	WebhookSecret         string

	Rates             pricing.Rates
	DefaultCurrency   string
	RefundTiers       refund.Table
	OrderNumberPrefix string
	ServiceLocation   *time.Location
	StrictStart       bool

	SweepInterval   time.Duration
	SweepBatchSize  int
	WorkerPoolSize  int
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRunAddress        = ":8080"
	defaultAuthSecret        = "change-me"
	defaultPlatformFeeRate   = "0.05"
	defaultCommissionRate    = "0.15"
	defaultPrecision         = 2
	defaultCurrency          = "TWD"
	defaultRefundTiers       = "full:168h:100,half:48h:50"
	defaultOrderNumberPrefix = "GD"
	defaultTimezone          = "Asia/Taipei"
	defaultSweepInterval     = time.Minute
	defaultSweepBatchSize    = 32
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		ListingServiceAddress: getString(lookup, "LISTING_SERVICE_ADDRESS", ""),
		RedisAddress:          getString(lookup, "REDIS_ADDRESS", ""),
		AuthSecret:            getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		WebhookSecret:         getString(lookup, "WEBHOOK_SECRET", ""),
		DefaultCurrency:       getString(lookup, "DEFAULT_CURRENCY", defaultCurrency),
		OrderNumberPrefix:     getString(lookup, "ORDER_NUMBER_PREFIX", defaultOrderNumberPrefix),
		StrictStart:           getBool(lookup, "STRICT_SERVICE_START", true),
		SweepInterval:         getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatchSize:        getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("guidee", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		feeStr             = getString(lookup, "PLATFORM_FEE_RATE", defaultPlatformFeeRate)
		commissionStr      = getString(lookup, "COMMISSION_RATE", defaultCommissionRate)
		precision          = getInt(lookup, "CURRENCY_PRECISION", defaultPrecision)
		tiersStr           = getString(lookup, "REFUND_TIERS", defaultRefundTiers)
		timezone           = getString(lookup, "SERVICE_TIMEZONE", defaultTimezone)
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.ListingServiceAddress, "l", cfg.ListingServiceAddress, "Service listing base URL")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for webhook de-duplication")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for verifying bearer tokens")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Secret for payment webhook signatures")
	fs.StringVar(&feeStr, "platform-fee", feeStr, "Platform fee rate charged to travelers")
	fs.StringVar(&commissionStr, "commission", commissionStr, "Commission rate withheld from providers")
	fs.IntVar(&precision, "precision", precision, "Currency decimal places")
	fs.StringVar(&cfg.DefaultCurrency, "currency", cfg.DefaultCurrency, "Currency used when a listing has none")
	fs.StringVar(&tiersStr, "refund-tiers", tiersStr, "Standard refund tiers as name:lead:percent,...")
	fs.StringVar(&cfg.OrderNumberPrefix, "order-prefix", cfg.OrderNumberPrefix, "Order number prefix")
	fs.StringVar(&timezone, "tz", timezone, "Time zone of service schedules")
	fs.BoolVar(&cfg.StrictStart, "strict-start", cfg.StrictStart, "Reject service start before scheduled time")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between stale request sweeps")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum orders per sweep batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.Rates, err = parseRates(feeStr, commissionStr, precision); err != nil {
		return nil, err
	}

	if cfg.RefundTiers, err = refund.ParseTable(tiersStr); err != nil {
		return nil, fmt.Errorf("invalid refund tiers: %w", err)
	}

	if cfg.ServiceLocation, err = time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid service timezone: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaultCurrency
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ListingServiceAddress == "" {
		return nil, fmt.Errorf("listing service address must be provided")
	}

	return cfg, nil
}

func parseRates(fee, commission string, precision int) (pricing.Rates, error) {
	feeRate, err := decimal.NewFromString(strings.TrimSpace(fee))
	if err != nil {
		return pricing.Rates{}, fmt.Errorf("invalid platform fee rate: %w", err)
	}
	commissionRate, err := decimal.NewFromString(strings.TrimSpace(commission))
	if err != nil {
		return pricing.Rates{}, fmt.Errorf("invalid commission rate: %w", err)
	}
	rates := pricing.Rates{PlatformFee: feeRate, Commission: commissionRate, Precision: int32(precision)}
	if err := rates.Validate(); err != nil {
		return pricing.Rates{}, fmt.Errorf("invalid rates: %w", err)
	}
	return rates, nil
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
