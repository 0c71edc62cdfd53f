package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	Analyzer AnalyzerConfig
	Batch    BatchConfig
	Keycloak KeycloakConfig
	Metrics  MetricsConfig
	LogLevel slog.Level
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// MongoDBConfig holds MongoDB connection configuration.
// An empty URI disables report history.
type MongoDBConfig struct {
	URI            string
	Database       string
	CollectionName string
	Timeout        time.Duration
}

// RedisConfig holds the Redis report store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache backends for analyzed reports
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AnalyzerConfig holds page analyzer configuration
type AnalyzerConfig struct {
	RequestTimeout   time.Duration
	UserAgent        string
	MaxBodyBytes     int64
	DegradedFallback bool
	CacheBackend     string
}

// BatchConfig holds the limits for multi-URL analysis
type BatchConfig struct {
	MaxConcurrentRequests int64
	RequestsPerSecond     float64
	MaxMemoryMB           int64
}

// KeycloakConfig holds Keycloak authentication configuration
type KeycloakConfig struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// New creates a new Config with values from environment variables
func New() (*Config, error) {
	port := getEnv("PORT", "9090")
	readTimeout, err := strconv.Atoi(getEnv("READ_TIMEOUT", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := strconv.Atoi(getEnv("WRITE_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := strconv.Atoi(getEnv("SHUTDOWN_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	requestTimeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if requestTimeout <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %d, must be positive", requestTimeout)
	}

	rateLimitRPS, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	rateLimitBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	mongoTimeout, err := strconv.Atoi(getEnv("MONGO_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGO_TIMEOUT: %w", err)
	}

	maxBodyBytes, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}

	degraded, err := strconv.ParseBool(getEnv("ANALYZER_DEGRADED_FALLBACK", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYZER_DEGRADED_FALLBACK: %w", err)
	}

	cacheBackend := strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory))
	if cacheBackend != CacheMemory && cacheBackend != CacheRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND: %q", cacheBackend)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	batchWorkers, err := strconv.ParseInt(getEnv("BATCH_MAX_CONCURRENT", "10"), 10, 64)
	if err != nil || batchWorkers < 1 {
		return nil, fmt.Errorf("invalid BATCH_MAX_CONCURRENT: %q", getEnv("BATCH_MAX_CONCURRENT", "10"))
	}

	batchRPS, err := strconv.ParseFloat(getEnv("BATCH_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_REQUESTS_PER_SECOND: %w", err)
	}

	batchMemory, err := strconv.ParseInt(getEnv("BATCH_MAX_MEMORY_MB", "512"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_MAX_MEMORY_MB: %w", err)
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     time.Duration(readTimeout) * time.Second,
			WriteTimeout:    time.Duration(writeTimeout) * time.Second,
			ShutdownTimeout: time.Duration(shutdownTimeout) * time.Second,
			AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			RateLimitRPS:    rateLimitRPS,
			RateLimitBurst:  rateLimitBurst,
		},
		MongoDB: MongoDBConfig{
			URI:            getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
			Database:       getEnv("MONGO_DB", "seo_analyzer"),
			CollectionName: getEnv("MONGO_COLLECTION", "reports"),
			Timeout:        time.Duration(mongoTimeout) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      redisTTL,
		},
		Analyzer: AnalyzerConfig{
			RequestTimeout:   time.Duration(requestTimeout) * time.Second,
			UserAgent:        getEnv("USER_AGENT", "SEOAnalyzer/1.0"),
			MaxBodyBytes:     maxBodyBytes,
			DegradedFallback: degraded,
			CacheBackend:     cacheBackend,
		},
		Batch: BatchConfig{
			MaxConcurrentRequests: batchWorkers,
			RequestsPerSecond:     batchRPS,
			MaxMemoryMB:           batchMemory,
		},
		Keycloak: KeycloakConfig{
			URL:          getEnv("KEYCLOAK_URL", "http://host.docker.internal:8080"),
			Realm:        getEnv("KEYCLOAK_REALM", "seo-analyzer"),
			ClientID:     getEnv("KEYCLOAK_CLIENT_ID", "seo-analyzer-backend"),
			ClientSecret: getEnv("KEYCLOAK_CLIENT_SECRET", ""),
		},
		Metrics: MetricsConfig{
			Enabled: metricsEnabled,
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		LogLevel: level,
	}, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
