package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
// SSOT: every setting is loaded from .env or the process environment
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Logging    LoggingConfig
	Provider   ProviderConfig
	Logo       LogoConfig
	Enrichment EnrichmentConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL             string // SSOT: DATABASE_URL
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig configures the optional hot cache in front of company_details.
// Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type LoggingConfig struct {
	Level         string
	Format        string
	FileEnabled   bool
	FilePath      string
	RotationSize  int
	RetentionDays int
}

// ProviderConfig holds credentials for the financial-data provider (tier 4)
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

// LogoConfig holds URL templates for the existence-probed logo tiers.
// {slug} and {symbol} are substituted at request time.
type LogoConfig struct {
	SlugURLTemplate   string
	SymbolURLTemplate string
}

type EnrichmentConfig struct {
	TierTimeout    time.Duration
	BatchLimit     int
	BatchMaxItems  int
	RequestTimeout time.Duration
}

// Load loads configuration from .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional; fall back to the process environment
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8099"),
			Mode:           getEnv("GIN_MODE", "release"),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DB_MIN_CONNS", 1)),
			MaxConnLifetime: 1 * time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_TTL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Format:        getEnv("LOG_FORMAT", "json"),
			FileEnabled:   getEnvBool("LOG_FILE_ENABLED", false),
			FilePath:      getEnv("LOG_FILE_PATH", "logs"),
			RotationSize:  getEnvInt("LOG_ROTATION_SIZE_MB", 50),
			RetentionDays: getEnvInt("LOG_RETENTION_DAYS", 14),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("TWELVEDATA_BASE_URL", "https://api.twelvedata.com"),
			APIKey:  getEnv("TWELVEDATA_API_KEY", ""),
		},
		Logo: LogoConfig{
			SlugURLTemplate:   getEnv("LOGO_SLUG_URL_TEMPLATE", "https://companieslogo.com/img/orig/{slug}.png"),
			SymbolURLTemplate: getEnv("LOGO_SYMBOL_URL_TEMPLATE", "https://raw.githubusercontent.com/nvstly/icons/main/ticker_icons/{symbol}.png"),
		},
		Enrichment: EnrichmentConfig{
			TierTimeout:    getEnvDuration("ENRICH_TIER_TIMEOUT", 8*time.Second),
			BatchLimit:     getEnvInt("ENRICH_BATCH_CONCURRENCY", 4),
			BatchMaxItems:  getEnvInt("ENRICH_BATCH_MAX_ITEMS", 50),
			RequestTimeout: getEnvDuration("ENRICH_REQUEST_TIMEOUT", 30*time.Second),
		},
	}

	return config, nil
}

// Validate checks settings the server cannot start without.
// A missing provider API key is not fatal here; enrichment reports it per request.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Enrichment.TierTimeout <= 0 {
		errs = append(errs, errors.New("ENRICH_TIER_TIMEOUT must be positive"))
	}
	if c.Enrichment.BatchLimit < 1 {
		errs = append(errs, errors.New("ENRICH_BATCH_CONCURRENCY must be at least 1"))
	}
	if !strings.Contains(c.Logo.SlugURLTemplate, "{slug}") {
		errs = append(errs, errors.New("LOGO_SLUG_URL_TEMPLATE must contain {slug}"))
	}
	if !strings.Contains(c.Logo.SymbolURLTemplate, "{symbol}") {
		errs = append(errs, errors.New("LOGO_SYMBOL_URL_TEMPLATE must contain {symbol}"))
	}
	return errors.Join(errs...)
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
