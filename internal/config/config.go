package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Redis configuration
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// CloudFlare R2 configuration (image uploads)
	R2Endpoint   string `json:"r2_endpoint"`
	R2AccessKey  string `json:"r2_access_key"`
	R2SecretKey  string `json:"r2_secret_key"`
	R2Bucket     string `json:"r2_bucket"`
	R2PublicBase string `json:"r2_public_base"`

	// Aggregate storage
	StoragePath string `json:"storage_path"`

	// Feed delivery
	PageLimit       int `json:"page_limit"`
	StreamBatchSize int `json:"stream_batch_size"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey  string `json:"admin_api_key"`
	EditorAPIKey string `json:"editor_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix: getEnv("REDIS_PREFIX", "newsdesk:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 5*time.Minute),

		// CloudFlare R2 configuration
		R2Endpoint:   getEnv("R2_ENDPOINT", ""),
		R2AccessKey:  getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:     getEnv("R2_BUCKET", "newsdesk"),
		R2PublicBase: getEnv("R2_PUBLIC_BASE", ""),

		// Aggregate storage
		StoragePath: getEnv("STORAGE_PATH", "./data"),

		// Feed delivery
		PageLimit:       getEnvAsInt("PAGE_LIMIT", 10),
		StreamBatchSize: getEnvAsInt("STREAM_BATCH_SIZE", 10),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey:  getEnv("ADMIN_API_KEY", ""),
		EditorAPIKey: getEnv("EDITOR_API_KEY", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Add validation logic here
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
