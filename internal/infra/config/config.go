package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	LogLevel           string
	HTTPAddr           string
	RequestTimeout     time.Duration
	StoreDriver        string
	MongoURI           string
	MongoDB            string
	RedisURL           string
	IdempotencyTTL     time.Duration
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaClientID      string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	JWTSecret          string
	JWTIssuer          string
	TokenTTL           time.Duration
	S3Endpoint         string
	S3PublicEndpoint   string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3UseSSL           bool
	PaymentDeclineRate float64
	FixturesPath       string
	OTLPEndpoint       string
}

// Load reads an optional .env file (existing variables win) and parses the
// configuration from the current environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "staybook"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaClientID:    getEnv("KAFKA_CLIENT_ID", "staybook"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTIssuer:        getEnv("JWT_ISSUER", "staybook"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "staybook-photos"),
		FixturesPath:     getEnv("FIXTURES_PATH", ""),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = parseDurationEnv("TOKEN_TTL", 30*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.PaymentDeclineRate, err = parseRateEnv("PAYMENT_DECLINE_RATE", 0.1); err != nil {
		return Config{}, err
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	switch cfg.StoreDriver {
	case StoreMemory:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required for the mongo store driver")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" && cfg.Env != "local" && cfg.Env != "test" {
			return Config{}, fmt.Errorf("JWT_SECRET is required outside dev")
		}
		cfg.JWTSecret = "staybook-dev-secret"
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}

func parseRateEnv(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || v > 1 {
		return 0, fmt.Errorf("invalid %s: %q must be between 0 and 1", key, raw)
	}
	return v, nil
}
