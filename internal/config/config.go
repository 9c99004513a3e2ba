// Package config provides configuration management for the listing
// synchronization service. It loads configuration from environment variables
// and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Geocoding GeocodingConfig
	Listings  ListingsConfig
	CDN       CDNConfig
	Logging   LoggingConfig
	Debug     bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
	MigrationsPath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds cache TTL configuration
type CacheConfig struct {
	// ListingTTL bounds how long formatted listing views stay cached.
	ListingTTL time.Duration
	// GeocodeTTL bounds geocode result caching; default is 7 days.
	GeocodeTTL time.Duration
}

// GeocodingConfig holds geocoding resolver configuration
type GeocodingConfig struct {
	// Provider selects the primary provider: "nominatim" (free, no key) or
	// "google" (requires GoogleAPIKey). The other one is tried as fallback.
	Provider         string
	GoogleAPIKey     string
	RequestTimeout   time.Duration
	RequestsPerSec   float64
	Country          string
	DefaultLatitude  float64
	DefaultLongitude float64
	// Service-area bounding box used by the InServiceArea query.
	BoundsMinLat float64
	BoundsMaxLat float64
	BoundsMinLng float64
	BoundsMaxLng float64
}

// ListingsConfig holds listing identity configuration
type ListingsConfig struct {
	// ExternalIDThreshold separates the internal id band from externally
	// imported MLS ids. Ids below are internal, at/above are external.
	ExternalIDThreshold int64
	DetailURLBase       string
}

// CDNConfig holds edge cache purge configuration
type CDNConfig struct {
	Enabled  bool
	PurgeURL string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "exclusive_listings"),
				User:           getEnv("POSTGRES_USER", "listings"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
				MigrationsPath: getEnv("POSTGRES_MIGRATIONS_PATH", "migrations"),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Cache: CacheConfig{
			ListingTTL: getEnvAsDuration("CACHE_LISTING_TTL", 5*time.Minute),
			GeocodeTTL: getEnvAsDuration("CACHE_GEOCODE_TTL", 7*24*time.Hour),
		},
		Geocoding: GeocodingConfig{
			Provider:         getEnv("GEOCODING_PROVIDER", "nominatim"),
			GoogleAPIKey:     getEnv("GEOCODING_GOOGLE_API_KEY", ""),
			RequestTimeout:   getEnvAsDuration("GEOCODING_REQUEST_TIMEOUT", 10*time.Second),
			RequestsPerSec:   getEnvAsFloat("GEOCODING_REQUESTS_PER_SEC", 1.0),
			Country:          getEnv("GEOCODING_COUNTRY", "USA"),
			DefaultLatitude:  getEnvAsFloat("GEOCODING_DEFAULT_LAT", 42.3601),
			DefaultLongitude: getEnvAsFloat("GEOCODING_DEFAULT_LNG", -71.0589),
			BoundsMinLat:     getEnvAsFloat("GEOCODING_BOUNDS_MIN_LAT", 41.0),
			BoundsMaxLat:     getEnvAsFloat("GEOCODING_BOUNDS_MAX_LAT", 43.2),
			BoundsMinLng:     getEnvAsFloat("GEOCODING_BOUNDS_MIN_LNG", -73.6),
			BoundsMaxLng:     getEnvAsFloat("GEOCODING_BOUNDS_MAX_LNG", -69.8),
		},
		Listings: ListingsConfig{
			ExternalIDThreshold: getEnvAsInt64("LISTING_EXTERNAL_ID_THRESHOLD", 1_000_000),
			DetailURLBase:       getEnv("LISTING_DETAIL_URL_BASE", "/listing"),
		},
		CDN: CDNConfig{
			Enabled:  getEnvAsBool("CDN_PURGE_ENABLED", false),
			PurgeURL: getEnv("CDN_PURGE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Debug: getEnvAsBool("DEBUG", false),
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 gets an environment variable as an int64 with a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float64 with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a bool with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
