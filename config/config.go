package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Display   DisplayConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where the product catalog is loaded from
type CatalogConfig struct {
	Source   string        `mapstructure:"source"` // "embedded", "file" or "http"
	Path     string        `mapstructure:"path"`
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"` // largest accepted catalog document
}

// Location returns the path or URL matching the configured source
func (c CatalogConfig) Location() string {
	if c.Source == "http" {
		return c.URL
	}
	return c.Path
}

// SearchConfig holds result shaping configuration
type SearchConfig struct {
	RecommendationLimit int `mapstructure:"recommendation_limit"`
	SuggestionLimit     int `mapstructure:"suggestion_limit"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// DisplayConfig holds presentation settings for rendered prices and images
type DisplayConfig struct {
	Locale         string `mapstructure:"locale"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	ImageBase      string `mapstructure:"image_base"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings: PRICELENS_SERVER_PORT -> server.port
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables that are already set are left untouched.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.source", "embedded")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.max_bytes", 32<<20)

	// Search defaults
	v.SetDefault("search.recommendation_limit", 6)
	v.SetDefault("search.suggestion_limit", 8)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)

	// Display defaults
	v.SetDefault("display.locale", "en-IN")
	v.SetDefault("display.currency_symbol", "₹")
	v.SetDefault("display.image_base", "images/")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "embedded":
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when source is 'file' (set PRICELENS_CATALOG_PATH)")
		}
	case "http":
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog URL is required when source is 'http' (set PRICELENS_CATALOG_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'embedded', 'file' or 'http', got: %s", config.Catalog.Source)
	}

	if config.Catalog.MaxBytes <= 0 {
		return fmt.Errorf("catalog max bytes must be positive, got: %d", config.Catalog.MaxBytes)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.Search.RecommendationLimit <= 0 {
		return fmt.Errorf("recommendation limit must be positive, got: %d", config.Search.RecommendationLimit)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("unknown log level: %s", config.Log.Level)
	}

	return nil
}
