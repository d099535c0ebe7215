package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Upstream backends
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Cache drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	GoogleMaps GoogleMapsConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

// GoogleMapsConfig - настройки клиента Google Maps Platform
type GoogleMapsConfig struct {
	APIKey                   string
	BaseURL                  string
	Backend                  string
	RequestTimeout           int // seconds
	RateLimit                int // requests per second, 0 = unlimited
	AutocompleteRadiusMeters int
	NearbySearchRadiusMeters int
}

type CacheConfig struct {
	Driver          string
	AutocompleteTTL time.Duration
	MaxEntries      int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		GoogleMaps: GoogleMapsConfig{
			APIKey:                   v.GetString("GOOGLE_MAPS_API_KEY"),
			BaseURL:                  v.GetString("GOOGLE_MAPS_BASE_URL"),
			Backend:                  v.GetString("GOOGLE_MAPS_BACKEND"),
			RequestTimeout:           v.GetInt("GOOGLE_MAPS_TIMEOUT"),
			RateLimit:                v.GetInt("GOOGLE_MAPS_RATE_LIMIT"),
			AutocompleteRadiusMeters: v.GetInt("AUTOCOMPLETE_RADIUS_METERS"),
			NearbySearchRadiusMeters: v.GetInt("NEARBY_SEARCH_RADIUS_METERS"),
		},
		Cache: CacheConfig{
			Driver:          v.GetString("CACHE_DRIVER"),
			AutocompleteTTL: time.Duration(v.GetInt("AUTOCOMPLETE_CACHE_MINUTES")) * time.Minute,
			MaxEntries:      v.GetInt("MAX_CACHE_ENTRIES"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com")
	v.SetDefault("GOOGLE_MAPS_BACKEND", BackendREST)
	v.SetDefault("GOOGLE_MAPS_TIMEOUT", 30)
	v.SetDefault("GOOGLE_MAPS_RATE_LIMIT", 0)
	v.SetDefault("AUTOCOMPLETE_RADIUS_METERS", 10000)
	v.SetDefault("NEARBY_SEARCH_RADIUS_METERS", 1000)

	v.SetDefault("CACHE_DRIVER", CacheDriverMemory)
	v.SetDefault("AUTOCOMPLETE_CACHE_MINUTES", 30)
	v.SetDefault("MAX_CACHE_ENTRIES", 1000)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
}

// Validate checks values the service cannot start without.
func (c *Config) Validate() error {
	if c.GoogleMaps.APIKey == "" {
		return errors.New("GOOGLE_MAPS_API_KEY is required")
	}
	switch c.GoogleMaps.Backend {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("unsupported GOOGLE_MAPS_BACKEND: %q", c.GoogleMaps.Backend)
	}
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER: %q", c.Cache.Driver)
	}
	if c.GoogleMaps.RequestTimeout <= 0 {
		return errors.New("GOOGLE_MAPS_TIMEOUT must be positive")
	}
	if c.GoogleMaps.RateLimit < 0 {
		return errors.New("GOOGLE_MAPS_RATE_LIMIT must not be negative")
	}
	if c.GoogleMaps.AutocompleteRadiusMeters <= 0 || c.GoogleMaps.NearbySearchRadiusMeters <= 0 {
		return errors.New("search radius values must be positive")
	}
	if c.Cache.AutocompleteTTL <= 0 {
		return errors.New("AUTOCOMPLETE_CACHE_MINUTES must be positive")
	}
	if c.Cache.MaxEntries <= 0 {
		return errors.New("MAX_CACHE_ENTRIES must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetAddr - адрес Redis в формате host:port
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpstreamTimeout is the per-call deadline for Google Maps requests.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.GoogleMaps.RequestTimeout) * time.Second
}
