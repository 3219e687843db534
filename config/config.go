package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	URL     string `mapstructure:"url"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret"`
	TTL      time.Duration `mapstructure:"ttl"`
	Issuer   string        `mapstructure:"issuer"`
	Audience string        `mapstructure:"audience"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}

type StorageConfig struct {
	UploadPath        string   `mapstructure:"upload_path"`
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// RateLimitConfig is read from the environment but not enforced anywhere yet.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxRequests   int  `mapstructure:"max_requests"`
	WindowMinutes int  `mapstructure:"window_minutes"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTPPort  int             `mapstructure:"http_port"`
	LogLevel  string          `mapstructure:"log_level"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	v *viper.Viper
}

// Load reads config.yaml (working dir or ./config) with environment variable
// overrides and returns the decoded configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable overrides, e.g. GENAPI_JWT_SECRET
	v.SetEnvPrefix("GENAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Generic API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.url", "http://localhost:8080")
	v.SetDefault("http_port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("database.dsn", "root:@tcp(127.0.0.1:3306)/generic_api_db?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("jwt.secret", "default-very-insecure-secret-key") // CHANGE THIS IN PRODUCTION
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("jwt.issuer", "generic-api")
	v.SetDefault("jwt.audience", "generic-api-users")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "X-Requested-With"})
	v.SetDefault("cors.max_age", 3600)
	v.SetDefault("cors.credentials", false)
	v.SetDefault("storage.upload_path", "uploads/")
	v.SetDefault("storage.max_file_size", 10485760) // 10MB
	v.SetDefault("storage.allowed_extensions", []string{"jpg", "jpeg", "png", "gif", "pdf", "doc", "docx"})
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window_minutes", 60)
}

// Get exposes dotted-path lookup for keys that have no dedicated struct field.
func (c *Config) Get(key string) any {
	if c.v == nil {
		return nil
	}
	return c.v.Get(key)
}

// BasePath returns the route prefix the deployment mounts the API under:
// "/api" in production, nothing elsewhere.
func (c *Config) BasePath() string {
	switch c.App.Env {
	case "production", "prod":
		return "/api"
	default:
		return ""
	}
}
