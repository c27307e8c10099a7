package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Port    string
	GinMode string
	Debug   bool

	DB        DBConfig
	Auth      AuthConfig
	Provider  ProviderConfig
	Recommend RecommendConfig
	AWS       AWSConfig
}

type DBConfig struct {
	Driver   string // "postgres" | "sqlite"
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	Path     string // sqlite file, ":memory:" in tests
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// ProviderConfig selects and configures the external food database.
type ProviderConfig struct {
	Name        string // "usda" | "edamam"
	USDAAPIKey  string
	USDABaseURL string

	EdamamAppID   string
	EdamamAppKey  string
	EdamamBaseURL string

	Timeout     time.Duration
	Concurrency int
}

type RecommendConfig struct {
	LookbackDays int
	MaxQueries   int
	PageSize     int
	ResultLimit  int
}

type AWSConfig struct {
	Region         string
	S3Bucket       string
	CloudFrontURL  string
	SNSPlatformARN string
	SESSender      string
	EnableAWS      bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine in containers
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),
		Debug:   getEnvBool("DEBUG", false),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "whichfood"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "whichfood.db"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getEnvDuration("JWT_TTL", 72*time.Hour),
		},
		Provider: ProviderConfig{
			Name:          strings.ToLower(getEnv("FOOD_PROVIDER", "usda")),
			USDAAPIKey:    os.Getenv("USDA_API_KEY"),
			USDABaseURL:   getEnv("USDA_API_URL", "https://api.nal.usda.gov/fdc/v1"),
			EdamamAppID:   os.Getenv("EDAMAM_APP_ID"),
			EdamamAppKey:  os.Getenv("EDAMAM_APP_KEY"),
			EdamamBaseURL: getEnv("EDAMAM_API_URL", "https://api.edamam.com/api/food-database/v2"),
			Timeout:       getEnvDuration("PROVIDER_TIMEOUT", 8*time.Second),
			Concurrency:   getEnvInt("PROVIDER_CONCURRENCY", 3),
		},
		Recommend: RecommendConfig{
			LookbackDays: getEnvInt("RECOMMEND_LOOKBACK_DAYS", 3),
			MaxQueries:   getEnvInt("RECOMMEND_MAX_QUERIES", 3),
			PageSize:     getEnvInt("RECOMMEND_PAGE_SIZE", 5),
			ResultLimit:  getEnvInt("RECOMMEND_RESULT_LIMIT", 10),
		},
		AWS: AWSConfig{
			Region:         getEnv("AWS_REGION", "ap-south-1"),
			S3Bucket:       os.Getenv("S3_BUCKET"),
			CloudFrontURL:  os.Getenv("CLOUDFRONT_URL"),
			SNSPlatformARN: os.Getenv("SNS_FCM_ARN"),
			SESSender:      os.Getenv("SES_SENDER"),
			EnableAWS:      getEnvBool("AWS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
