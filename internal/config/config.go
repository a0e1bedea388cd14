package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// Storage drivers.
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// Config holds application level configuration loaded from a YAML file,
// environment variables and flags, in increasing priority.
type Config struct {
	RunAddress           string
	StoreDriver          string
	DataDir              string
	DatabaseURI          string
	SessionSecret        string
	DefaultStaffPassword string
	TillReportScope      model.ReportScope
	WatchInterval        time.Duration
	WorkerPoolSize       int
	BatchSize            int
	ShutdownTimeout      time.Duration
	PrintTimeout         time.Duration
	SpoolDir             string
	AMQPURL              string
	AMQPExchange         string
	LogLevel             string
	ReceiptHeader        string
}

const (
	defaultRunAddress      = ":8080"
	defaultDataDir         = "./data"
	defaultSessionSecret   = "change-me-in-production"
	defaultStaffPassword   = "1234"
	defaultWatchInterval   = 5 * time.Second
	defaultWorkerPoolSize  = 2
	defaultBatchSize       = 16
	defaultShutdownTimeout = 10 * time.Second
	defaultPrintTimeout    = 5 * time.Second
	defaultAMQPExchange    = "pos80.print"
	defaultLogLevel        = "info"
	defaultReceiptHeader   = "POS80"
	configFileEnv          = "CONFIG_FILE"
	sessionSecretFileEnv   = "SESSION_SECRET_FILE"
	defaultReportScope     = model.ScopeAll
)

// Load parses configuration from a .env file, the optional YAML file,
// environment variables and command line flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	if path := configFilePath(args, lookup); path != "" {
		fileLookup, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		lookup = layered(lookup, fileLookup)
	}

	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StoreDriver:          getString(lookup, "STORE_DRIVER", DriverJSON),
		DataDir:              getString(lookup, "DATA_DIR", defaultDataDir),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		SessionSecret:        getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		DefaultStaffPassword: getString(lookup, "DEFAULT_STAFF_PASSWORD", defaultStaffPassword),
		TillReportScope:      model.ReportScope(getString(lookup, "TILL_REPORT_SCOPE", string(defaultReportScope))),
		WatchInterval:        getDuration(lookup, "WATCH_INTERVAL", defaultWatchInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		BatchSize:            getInt(lookup, "WATCH_BATCH_SIZE", defaultBatchSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PrintTimeout:         getDuration(lookup, "PRINT_TIMEOUT", defaultPrintTimeout),
		SpoolDir:             getString(lookup, "SPOOL_DIR", ""),
		AMQPURL:              getString(lookup, "AMQP_URL", ""),
		AMQPExchange:         getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		LogLevel:             getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ReceiptHeader:        getString(lookup, "RECEIPT_HEADER", defaultReceiptHeader),
	}

	fs := flag.NewFlagSet("pos80", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFile         string
		reportScope        = string(cfg.TillReportScope)
		watchIntervalStr   = cfg.WatchInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		printTimeoutStr    = cfg.PrintTimeout.String()
	)

	fs.StringVar(&configFile, "config", "", "Path to YAML configuration file")
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Storage driver: json or postgres")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding JSON data files")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing session tokens")
	fs.StringVar(&cfg.DefaultStaffPassword, "staff-password", cfg.DefaultStaffPassword, "Password for seeded staff accounts")
	fs.StringVar(&reportScope, "report-scope", reportScope, "Till report scope: all or session")
	fs.StringVar(&watchIntervalStr, "watch-interval", watchIntervalStr, "Interval between print watcher polls")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent print workers")
	fs.IntVar(&cfg.BatchSize, "watch-batch", cfg.BatchSize, "Maximum orders per watcher poll")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&printTimeoutStr, "print-timeout", printTimeoutStr, "Timeout of a single print dispatch")
	fs.StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "Directory for spooled print jobs")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "AMQP broker URL for queue printers")
	fs.StringVar(&cfg.AMQPExchange, "amqp-exchange", cfg.AMQPExchange, "AMQP exchange for queue printers")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.ReceiptHeader, "receipt-header", cfg.ReceiptHeader, "Store name printed on receipts")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.WatchInterval, err = time.ParseDuration(watchIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid watch interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PrintTimeout, err = time.ParseDuration(printTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid print timeout: %w", err)
	}

	if secretFile, ok := lookup(sessionSecretFileEnv); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	cfg.TillReportScope = model.ReportScope(strings.ToLower(reportScope))
	if cfg.TillReportScope != model.ScopeAll && cfg.TillReportScope != model.ScopeSession {
		return nil, fmt.Errorf("invalid till report scope %q", reportScope)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = defaultWatchInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PrintTimeout <= 0 {
		cfg.PrintTimeout = defaultPrintTimeout
	}

	if cfg.SpoolDir == "" {
		cfg.SpoolDir = filepath.Join(cfg.DataDir, "spool")
	}

	switch cfg.StoreDriver {
	case DriverJSON:
	case DriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// configFilePath finds -config in args before flags are parsed so that the
// file can sit below environment variables in priority.
func configFilePath(args []string, lookup envLookup) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "config" || !strings.HasPrefix(arg, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	if v, ok := lookup(configFileEnv); ok {
		return v
	}
	return ""
}

// readConfigFile loads a flat YAML mapping whose keys are the environment
// variable names in lower case, e.g. "run_address: :9090".
func readConfigFile(path string) (envLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}, nil
}

func layered(primary, fallback envLookup) envLookup {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok && v != "" {
			return v, true
		}
		return fallback(key)
	}
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
