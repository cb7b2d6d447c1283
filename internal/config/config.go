package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	GatewayBaseURL  string
	GatewaySecret   string
	GatewayTimeout  time.Duration
	CallbackURL     string
	FrontendURL     string
	SignatureHeader string

	SellerEmail        string
	EmailSubjectPrefix string
	NotifyQueueURL     string
	AWSRegion          string
	AWSEndpoint        string
	ProvisioningURL    string

	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	PendingOrderTTL time.Duration
	SweepInterval   time.Duration
	RecheckAfter    time.Duration
	RecheckInterval time.Duration
	WorkerPoolSize  int
	MaxOrdersBatch  int
	FollowUpTimeout time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultLogLevel           = "info"
	defaultGatewayBaseURL     = "https://api.paystack.co"
	defaultGatewayTimeout     = 10 * time.Second
	defaultFrontendURL        = "http://localhost:3000"
	defaultSignatureHeader    = "X-Paystack-Signature"
	defaultEmailSubjectPrefix = "[arkID] "
	defaultAWSRegion          = "us-east-1"
	defaultAdminTokenSecret   = "change-me-in-production"
	defaultAdminTokenTTL      = 12 * time.Hour
	defaultPendingOrderTTL    = 24 * time.Hour
	defaultSweepInterval      = time.Hour
	defaultRecheckAfter       = 30 * time.Minute
	defaultRecheckInterval    = time.Minute
	defaultWorkerPoolSize     = 4
	defaultMaxOrdersBatch     = 32
	defaultFollowUpTimeout    = 30 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
		GatewayBaseURL:     getString(lookup, "PAYSTACK_URL", defaultGatewayBaseURL),
		GatewaySecret:      getString(lookup, "PAYSTACK_SECRET", ""),
		GatewayTimeout:     getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		CallbackURL:        getString(lookup, "CALLBACK_URL", ""),
		FrontendURL:        getString(lookup, "FRONTEND_URL", defaultFrontendURL),
		SignatureHeader:    getString(lookup, "WEBHOOK_SIGNATURE_HEADER", defaultSignatureHeader),
		SellerEmail:        getString(lookup, "SELLER_EMAIL", ""),
		EmailSubjectPrefix: getString(lookup, "EMAIL_SUBJECT_PREFIX", defaultEmailSubjectPrefix),
		NotifyQueueURL:     getString(lookup, "NOTIFY_QUEUE_URL", ""),
		AWSRegion:          getString(lookup, "AWS_REGION", defaultAWSRegion),
		AWSEndpoint:        getString(lookup, "AWS_ENDPOINT_OVERRIDE", ""),
		ProvisioningURL:    getString(lookup, "PROVISIONING_URL", ""),
		AdminPasswordHash:  getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		AdminTokenSecret:   getString(lookup, "ADMIN_TOKEN_SECRET", defaultAdminTokenSecret),
		AdminTokenTTL:      getDuration(lookup, "ADMIN_TOKEN_TTL", defaultAdminTokenTTL),
		PendingOrderTTL:    getDuration(lookup, "PENDING_ORDER_TTL", defaultPendingOrderTTL),
		SweepInterval:      getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		RecheckAfter:       getDuration(lookup, "RECHECK_AFTER", defaultRecheckAfter),
		RecheckInterval:    getDuration(lookup, "RECHECK_INTERVAL", defaultRecheckInterval),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxOrdersBatch:     getInt(lookup, "RECHECK_BATCH_SIZE", defaultMaxOrdersBatch),
		FollowUpTimeout:    getDuration(lookup, "FOLLOW_UP_TIMEOUT", defaultFollowUpTimeout),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("arkpay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		pendingTTLStr      = cfg.PendingOrderTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		recheckIntervalStr = cfg.RecheckInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.GatewayBaseURL, "gateway", cfg.GatewayBaseURL, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewaySecret, "gateway-secret", cfg.GatewaySecret, "Payment gateway secret key")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Timeout for gateway calls")
	fs.StringVar(&cfg.CallbackURL, "callback-url", cfg.CallbackURL, "URL the gateway redirects buyers to")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "Frontend base URL for payment result pages")
	fs.StringVar(&cfg.NotifyQueueURL, "notify-queue", cfg.NotifyQueueURL, "SQS queue URL for notifications")
	fs.StringVar(&cfg.ProvisioningURL, "provisioning-url", cfg.ProvisioningURL, "Card provisioning service base URL")
	fs.StringVar(&cfg.AdminTokenSecret, "admin-secret", cfg.AdminTokenSecret, "Secret for signing admin tokens")
	fs.StringVar(&pendingTTLStr, "pending-ttl", pendingTTLStr, "Age after which pending orders expire")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry sweeps")
	fs.StringVar(&recheckIntervalStr, "recheck-interval", recheckIntervalStr, "Interval between pending order rechecks")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent recheck workers")
	fs.IntVar(&cfg.MaxOrdersBatch, "recheck-batch", cfg.MaxOrdersBatch, "Maximum orders per recheck batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.PendingOrderTTL, err = time.ParseDuration(pendingTTLStr); err != nil {
		return nil, fmt.Errorf("invalid pending ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.RecheckInterval, err = time.ParseDuration(recheckIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid recheck interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.GatewaySecret, err = readSecretFile(lookup, "PAYSTACK_SECRET_FILE", cfg.GatewaySecret); err != nil {
		return nil, fmt.Errorf("read gateway secret file: %w", err)
	}

	if cfg.AdminTokenSecret, err = readSecretFile(lookup, "ADMIN_TOKEN_SECRET_FILE", cfg.AdminTokenSecret); err != nil {
		return nil, fmt.Errorf("read admin secret file: %w", err)
	}

	normalize(cfg)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewaySecret == "" {
		return nil, fmt.Errorf("payment gateway secret must be provided")
	}

	return cfg, nil
}

func normalize(cfg *Config) {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = defaultAdminTokenTTL
	}

	if cfg.PendingOrderTTL <= 0 {
		cfg.PendingOrderTTL = defaultPendingOrderTTL
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.RecheckAfter <= 0 {
		cfg.RecheckAfter = defaultRecheckAfter
	}

	if cfg.RecheckInterval <= 0 {
		cfg.RecheckInterval = defaultRecheckInterval
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.FollowUpTimeout <= 0 {
		cfg.FollowUpTimeout = defaultFollowUpTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
}

func readSecretFile(lookup envLookup, key, current string) (string, error) {
	path, ok := lookup(key)
	if !ok || path == "" {
		return current, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
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
