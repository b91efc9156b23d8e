package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultFetchAPIBaseURL = "https://frontend-take-home-service.fetch.com"

type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StoragePostgres StorageBackend = "postgres"
	StorageRedis    StorageBackend = "redis"
)

type Config struct {
	Port string

	FetchAPIBaseURL string
	HTTPTimeout     time.Duration

	Storage StorageBackend
	DBDSN   string
	Redis   RedisConfig

	Log       LogConfig
	FluentBit FluentBitConfig

	CORSAllowedOrigins []string
	CookieSecure       bool

	SearchDebounce time.Duration
	SessionTTL     time.Duration
	BreedsCacheTTL time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// Load lee .env (si existe) y luego env vars / CONFIG_FILE vía viper.
// El .env es opcional: en prod todo viene del entorno.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 {
		_ = godotenv.Load(envPath...)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		FetchAPIBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("FETCH_API_BASE_URL")), "/"),
		HTTPTimeout:     v.GetDuration("HTTP_TIMEOUT"),
		Storage:         StorageBackend(strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND")))),
		DBDSN:           strings.TrimSpace(v.GetString("DB_DSN")),
		Redis: RedisConfig{
			Address:  strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			App:    v.GetString("APP_NAME"),
		},
		FluentBit: FluentBitConfig{
			Enabled: v.GetBool("FLUENTBIT_ENABLED"),
			Host:    strings.TrimSpace(v.GetString("FLUENTBIT_HOST")),
			Port:    v.GetInt("FLUENTBIT_PORT"),
		},
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		SearchDebounce:     v.GetDuration("SEARCH_DEBOUNCE"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		BreedsCacheTTL:     v.GetDuration("BREEDS_CACHE_TTL"),
	}

	// Fluent habilitado sin host => se desactiva (igual que los otros servicios).
	if cfg.FluentBit.Enabled && cfg.FluentBit.Host == "" {
		cfg.FluentBit.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("FETCH_API_BASE_URL", DefaultFetchAPIBaseURL)
	v.SetDefault("HTTP_TIMEOUT", 10*time.Second)
	v.SetDefault("STORAGE_BACKEND", string(StorageMemory))
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "dog-adoption-search")
	v.SetDefault("FLUENTBIT_ENABLED", false)
	v.SetDefault("FLUENTBIT_PORT", 24224)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SEARCH_DEBOUNCE", 500*time.Millisecond)
	v.SetDefault("SESSION_TTL", time.Hour)
	v.SetDefault("BREEDS_CACHE_TTL", 10*time.Minute)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.FetchAPIBaseURL == "" {
		return fmt.Errorf("FETCH_API_BASE_URL is required")
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for storage backend %q", c.Storage)
		}
	case StorageRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("REDIS_ADDR is required for storage backend %q", c.Storage)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage)
	}
	if c.SearchDebounce < 0 || c.SessionTTL <= 0 || c.BreedsCacheTTL < 0 {
		return fmt.Errorf("durations must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
