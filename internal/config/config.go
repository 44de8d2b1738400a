package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Quotes QuotesConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// RedisConfig holds the key-value store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka configuration. An empty broker list disables
// event publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// QuotesConfig holds quote provider and refresh settings
type QuotesConfig struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RefreshInterval time.Duration
	BatchSize       int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: brokerList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "position-events"),
		},
		Quotes: QuotesConfig{
			BaseURL:         getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestTimeout:  time.Duration(getEnvInt("QUOTE_TIMEOUT_SECONDS", 10)) * time.Second,
			RefreshInterval: time.Duration(getEnvInt("REFRESH_INTERVAL_SECONDS", 120)) * time.Second,
			BatchSize:       getEnvInt("REFRESH_BATCH_SIZE", 5),
		},
	}
}

func brokerList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
