package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Recommend RecommendConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where the product catalog is loaded from
type CatalogConfig struct {
	Source          string        `mapstructure:"source"` // "file", "http" or "postgres"
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	APIKey          string        `mapstructure:"api_key"`
	DatabaseURL     string        `mapstructure:"database_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Feed  int `mapstructure:"feed"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RecommendConfig holds recommendation defaults
type RecommendConfig struct {
	DefaultLimit int  `mapstructure:"default_limit"`
	Debug        bool `mapstructure:"debug"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscope/")

	v.SetEnvPrefix("DEALSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// loadEnvFile loads ./.env into the process environment. Variables that are
// already set are left alone; a missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "data/products.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.refresh_interval", "0s")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.feed", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("recommend.default_limit", 6)
	v.SetDefault("recommend.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when source is 'file' (set DEALSCOPE_CATALOG_PATH)")
		}
	case "http":
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog URL is required when source is 'http' (set DEALSCOPE_CATALOG_URL)")
		}
	case "postgres":
		if config.Catalog.DatabaseURL == "" {
			return fmt.Errorf("database URL is required when source is 'postgres' (set DEALSCOPE_CATALOG_DATABASE_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'http' or 'postgres', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.Recommend.DefaultLimit <= 0 {
		return fmt.Errorf("recommend default_limit must be positive, got: %d", config.Recommend.DefaultLimit)
	}

	return nil
}
