package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppPort string `mapstructure:"APP_PORT"`

	CachingEnabled  bool `mapstructure:"CACHING_ENABLED"`
	CachePublicOnly bool `mapstructure:"CACHE_PUBLIC_ONLY"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBScheme   string `mapstructure:"DB_SCHEME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	AuthJWTSecret string        `mapstructure:"AUTH_JWT_SECRET"`
	AuthJWTIssuer string        `mapstructure:"AUTH_JWT_ISSUER"`
	AuthTokenTTL  time.Duration `mapstructure:"AUTH_TOKEN_TTL"`
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// String masks secrets so the config can be logged on startup.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppEnv: %s\n", c.AppEnv))
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  CachingEnabled: %v\n", c.CachingEnabled))
	sb.WriteString(fmt.Sprintf("  CachePublicOnly: %v\n", c.CachePublicOnly))

	sb.WriteString(fmt.Sprintf("  DBHost: %s\n", c.DBHost))
	sb.WriteString(fmt.Sprintf("  DBPort: %d\n", c.DBPort))
	sb.WriteString(fmt.Sprintf("  DBUser: %s\n", c.DBUser))
	sb.WriteString(fmt.Sprintf("  DBName: %s\n", c.DBName))
	sb.WriteString(fmt.Sprintf("  DBScheme: %s\n", c.DBScheme))
	sb.WriteString("  DBPassword: " + mask(c.DBPassword) + "\n")

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	sb.WriteString("  RedisPassword: " + mask(c.RedisPassword) + "\n")

	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	sb.WriteString(fmt.Sprintf("  S3PublicURL: %s\n", c.S3PublicURL))
	sb.WriteString("  S3AccessKey: " + mask(c.S3AccessKey) + "\n")
	sb.WriteString("  S3SecretKey: " + mask(c.S3SecretKey) + "\n")
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	sb.WriteString(fmt.Sprintf("  AuthJWTIssuer: %s\n", c.AuthJWTIssuer))
	sb.WriteString(fmt.Sprintf("  AuthTokenTTL: %v\n", c.AuthTokenTTL))
	sb.WriteString("  AuthJWTSecret: " + mask(c.AuthJWTSecret) + "\n")

	return sb.String()
}

func mask(v string) string {
	if v == "" {
		return "(empty)"
	}
	return "********"
}

// LoadFromEnv reads configuration from environment variables, with an
// optional .env file for local development.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"APP_ENV", "APP_PORT",
		"CACHING_ENABLED", "CACHE_PUBLIC_ONLY",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SCHEME",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_PUBLIC_URL", "S3_USE_SSL", "S3_PATH_STYLE",
		"AUTH_JWT_SECRET", "AUTH_JWT_ISSUER", "AUTH_TOKEN_TTL",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("CACHING_ENABLED", true)
	v.SetDefault("DB_SCHEME", "shop")
	v.SetDefault("AUTH_JWT_ISSUER", "shop-manager")
	v.SetDefault("AUTH_TOKEN_TTL", "24h")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}
	return &cfg, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
