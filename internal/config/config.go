package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// MigrationsPathEnv is the environment variable for the golang-migrate source URL.
	MigrationsPathEnv = "MIGRATIONS_PATH"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// RedisAddrEnv is the environment variable for the Redis address. Empty selects the in-memory cache.
	RedisAddrEnv = "REDIS_ADDR"

	// RedisPasswordEnv is the environment variable for the Redis password.
	RedisPasswordEnv = "REDIS_PASSWORD"

	// RedisDBEnv is the environment variable for the Redis database index.
	RedisDBEnv = "REDIS_DB"

	// CacheEnabledEnv toggles the read-through cache.
	CacheEnabledEnv = "CACHE_ENABLED"

	// CacheProductTTLEnv is the TTL of single product entries.
	CacheProductTTLEnv = "CACHE_PRODUCT_TTL"

	// CachePageTTLEnv is the TTL of paginated listing entries.
	CachePageTTLEnv = "CACHE_PAGE_TTL"

	// CORSAllowedOriginsEnv is a comma separated list of allowed origins.
	CORSAllowedOriginsEnv = "CORS_ALLOWED_ORIGINS"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// OutboxIntervalEnv is the polling interval of the outbox worker.
	OutboxIntervalEnv = "OUTBOX_INTERVAL"
)

const (
	DefaultMigrationsPath  = "file://migrations"
	DefaultProductCacheTTL = 5 * time.Minute
	DefaultPageCacheTTL    = 3 * time.Minute
	DefaultOutboxInterval  = 2 * time.Second
)

// DefaultCORSAllowedOrigins are used when CORS_ALLOWED_ORIGINS is not set.
var DefaultCORSAllowedOrigins = []string{"http://localhost:4200", "http://localhost:3000"}

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
)

// Config represents the product-service configuration.
type Config struct {
	DebugMode     bool
	Database      DB
	HTTPServer    Server
	MetricsServer Server
	Redis         Redis
	Cache         Cache
	CORS          CORS
	AWS           AWSConfig
	Outbox        Outbox
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// Enabled reports whether a queue is configured.
func (a AWSConfig) Enabled() bool {
	return a.SQSQueueURL != ""
}

// DB represents database configuration settings.
type DB struct {
	Host           string
	User           string
	Password       string
	Name           string
	Port           string
	MigrationsPath string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Redis represents Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Cache holds the read-through cache policy.
type Cache struct {
	Enabled    bool
	ProductTTL time.Duration
	PageTTL    time.Duration
}

// CORS holds the allowed browser origins.
type CORS struct {
	AllowedOrigins []string
}

// Outbox holds the outbox worker settings.
type Outbox struct {
	Interval time.Duration
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func allPositive(keyValues map[string]time.Duration) error {
	for key, value := range keyValues {
		if value <= 0 {
			slog.Error("configuration validation failed", slog.String("key", key), slog.Duration("value", value))
			return fmt.Errorf("duration for key %s must be positive", key)
		}
	}
	return nil
}

func (c *Config) validate() error {
	// Validate database configuration
	if err := allNonEmpty(map[string]string{
		DBHostEnv: c.Database.Host,
		DBUserEnv: c.Database.User,
		DBNameEnv: c.Database.Name,
	}); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	// Validate server ports
	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	// Validate port numbers
	if err := allNumbers(map[string]string{
		DBPortEnv:            c.Database.Port,
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := allPositive(map[string]time.Duration{
		CacheProductTTLEnv: c.Cache.ProductTTL,
		CachePageTTLEnv:    c.Cache.PageTTL,
		OutboxIntervalEnv:  c.Outbox.Interval,
	}); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", name, err)
	}
	return val, nil
}

func getEnvAsDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue, nil
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for key %s: %w", name, err)
	}
	return val, nil
}

func getEnvOrDefault(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func loadEnvFile() {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	if err := ApplyEnvFile(envPath); err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

// LoadFromEnv loads the product-service configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	loadEnvFile()

	redisDB, err := getEnvAsInt(RedisDBEnv, 0)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	productTTL, err := getEnvAsDuration(CacheProductTTLEnv, DefaultProductCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	pageTTL, err := getEnvAsDuration(CachePageTTLEnv, DefaultPageCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	outboxInterval, err := getEnvAsDuration(OutboxIntervalEnv, DefaultOutboxInterval)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			Host:           os.Getenv(DBHostEnv),
			User:           os.Getenv(DBUserEnv),
			Password:       os.Getenv(DBPassEnv),
			Name:           os.Getenv(DBNameEnv),
			Port:           os.Getenv(DBPortEnv),
			MigrationsPath: getEnvOrDefault(MigrationsPathEnv, DefaultMigrationsPath),
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		Redis: Redis{
			Addr:     os.Getenv(RedisAddrEnv),
			Password: os.Getenv(RedisPasswordEnv),
			DB:       redisDB,
		},
		Cache: Cache{
			Enabled:    getEnvAsBool(CacheEnabledEnv, true),
			ProductTTL: productTTL,
			PageTTL:    pageTTL,
		},
		CORS: CORS{
			AllowedOrigins: getEnvAsList(CORSAllowedOriginsEnv, DefaultCORSAllowedOrigins),
		},
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		Outbox: Outbox{
			Interval: outboxInterval,
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// NotificationConfig represents the notification-service configuration.
type NotificationConfig struct {
	DebugMode bool
	AWS       AWSConfig
}

// LoadNotificationFromEnv loads the notification-service configuration. A queue URL is mandatory.
func LoadNotificationFromEnv() (*NotificationConfig, error) {
	loadEnvFile()

	conf := &NotificationConfig{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
	}

	if err := allNonEmpty(map[string]string{
		SQSQueueURLEnv: conf.AWS.SQSQueueURL,
	}); err != nil {
		return nil, fmt.Errorf("AWS configuration incomplete: %w", err)
	}
	return conf, nil
}
