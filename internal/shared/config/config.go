package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Kafka audit events
	Kafka KafkaConfig

	// Subscriptions
	Subscriptions SubscriptionConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTL for catalog read caching
	CatalogTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `json:"enabled"`
	WindowDuration    time.Duration `json:"window_duration"`
	DefaultRequests   int           `json:"default_requests"`
	PublicRequests    int           `json:"public_requests"`
	AuthRequests      int           `json:"auth_requests"`
	BookingRequests   int           `json:"booking_requests"`
	SubscribeRequests int           `json:"subscribe_requests"`
	HealthRequests    int           `json:"health_requests"`
	WhitelistedIPs    []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds Kafka producer configuration for audit events.
// An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers        []string
	ThresholdTopic string
}

// SubscriptionConfig holds subscription delivery configuration
type SubscriptionConfig struct {
	// Maximum time a subscriber may wait for a threshold notification
	// before the long-poll request is ended without a payload.
	WaitTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getEnvInt("MAX_HEADER_BYTES", 1<<20),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "concertly"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			CatalogTTL: getEnvDuration("REDIS_CATALOG_TTL", 5*time.Minute),
		},

		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
			JWTExpiresIn:     getEnvDuration("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getEnvDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			DefaultRequests:   getEnvInt("RATE_LIMIT_DEFAULT", 100),
			PublicRequests:    getEnvInt("RATE_LIMIT_PUBLIC", 200),
			AuthRequests:      getEnvInt("RATE_LIMIT_AUTH", 20),
			BookingRequests:   getEnvInt("RATE_LIMIT_BOOKING", 60),
			SubscribeRequests: getEnvInt("RATE_LIMIT_SUBSCRIBE", 30),
			HealthRequests:    getEnvInt("RATE_LIMIT_HEALTH", 1000),
			WhitelistedIPs:    getEnvSlice("RATE_LIMIT_WHITELIST", nil),
		},

		Kafka: KafkaConfig{
			Brokers:        getEnvSlice("KAFKA_BROKERS", nil),
			ThresholdTopic: getEnv("KAFKA_THRESHOLD_TOPIC", "concert-threshold-events"),
		},

		Subscriptions: SubscriptionConfig{
			WaitTimeout: getEnvDuration("SUBSCRIPTION_WAIT_TIMEOUT", 10*time.Minute),
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	cfg.Database.DSN = getEnv("DB_DSN", buildDSN(cfg.Database))
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// GetServerAddress returns the address the HTTP server binds to
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the versioned API prefix, e.g. /api/v1
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}

// IsDevelopment reports whether the server runs in debug mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode != "release"
}

func buildDSN(db DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
}

// Environment variable helpers

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
