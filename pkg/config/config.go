package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Payment  PaymentConfig
	Cache    CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds the shared secret used to verify identity-provider tokens.
type AuthConfig struct {
	TokenSecret string
	Issuer      string
	Expiration  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PaymentConfig points at the external checkout provider.
type PaymentConfig struct {
	APIBaseURL string
	APIKey     string
	Currency   string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

// CacheConfig tunes the read-side projection caches.
type CacheConfig struct {
	Enabled        bool
	RoleTTL        time.Duration
	AggregationTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		TokenSecret: v.GetString("AUTH_TOKEN_SECRET"),
		Issuer:      v.GetString("AUTH_ISSUER"),
		Expiration:  parseDuration(v.GetString("AUTH_TOKEN_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Payment = PaymentConfig{
		APIBaseURL: v.GetString("PAYMENT_API_BASE_URL"),
		APIKey:     v.GetString("PAYMENT_API_KEY"),
		Currency:   v.GetString("PAYMENT_CURRENCY"),
		SuccessURL: v.GetString("PAYMENT_SUCCESS_URL"),
		CancelURL:  v.GetString("PAYMENT_CANCEL_URL"),
		Timeout:    parseDuration(v.GetString("PAYMENT_TIMEOUT"), 10*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled:        v.GetBool("ENABLE_CACHE"),
		RoleTTL:        parseDuration(v.GetString("CACHE_ROLE_TTL"), 5*time.Minute),
		AggregationTTL: parseDuration(v.GetString("CACHE_AGGREGATION_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "assetverse")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_TOKEN_SECRET", "dev_secret")
	v.SetDefault("AUTH_ISSUER", "assetverse")
	v.SetDefault("AUTH_TOKEN_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PAYMENT_API_BASE_URL", "https://api.checkout.example.com")
	v.SetDefault("PAYMENT_API_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_SUCCESS_URL", "http://localhost:5173/payment/success")
	v.SetDefault("PAYMENT_CANCEL_URL", "http://localhost:5173/payment/cancel")
	v.SetDefault("PAYMENT_TIMEOUT", "10s")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_ROLE_TTL", "5m")
	v.SetDefault("CACHE_AGGREGATION_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
