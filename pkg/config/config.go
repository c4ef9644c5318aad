package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Typesense  TypesenseConfig
	Reputation ReputationConfig
	Research   ResearchConfig
	Social     SocialConfig
	OpenAI     OpenAIConfig
	Enrichment EnrichmentConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// ReputationConfig holds the business-listing lookup provider configuration
type ReputationConfig struct {
	APIKey         string
	TimeoutSeconds int
}

// ResearchConfig holds the company deep-research provider configuration
type ResearchConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	RateLimitRPM   int
}

// SocialConfig holds the social-profile search provider configuration
type SocialConfig struct {
	APIKey         string
	TimeoutSeconds int
}

// OpenAIConfig holds OpenAI configuration for summary generation
type OpenAIConfig struct {
	APIKey       string
	Model        string
	RateLimitRPM int
}

// EnrichmentConfig holds orchestration-level settings
type EnrichmentConfig struct {
	CacheTTLDays         int
	SourceTimeoutSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "leadscout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Reputation: ReputationConfig{
			APIKey:         getEnv("REPUTATION_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("REPUTATION_TIMEOUT_SECONDS", 8),
		},
		Research: ResearchConfig{
			APIKey:         getEnv("RESEARCH_API_KEY", ""),
			BaseURL:        getEnv("RESEARCH_BASE_URL", ""),
			TimeoutSeconds: getEnvAsInt("RESEARCH_TIMEOUT_SECONDS", 9),
			RateLimitRPM:   getEnvAsInt("RESEARCH_RATE_LIMIT_RPM", 30),
		},
		Social: SocialConfig{
			APIKey:         getEnv("SOCIAL_API_KEY", ""),
			TimeoutSeconds: getEnvAsInt("SOCIAL_TIMEOUT_SECONDS", 6),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM: getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
		},
		Enrichment: EnrichmentConfig{
			CacheTTLDays:         getEnvAsInt("ENRICHMENT_CACHE_TTL_DAYS", 14),
			SourceTimeoutSeconds: getEnvAsInt("ENRICHMENT_SOURCE_TIMEOUT_SECONDS", 10),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "leadscout"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
