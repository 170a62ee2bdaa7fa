package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port       string
	Env        string
	LogLevel   string
	CORSOrigin string
}

type DBConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type StorageConfig struct {
	Dir       string
	URLPrefix string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the given env file, then lets the process environment
// override it. A missing file is not an error.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("STORAGE_DIR", "./storage")
	v.SetDefault("STORAGE_URL_PREFIX", "/storage")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			LogLevel:   v.GetString("LOG_LEVEL"),
			CORSOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Driver:      v.GetString("DB_DRIVER"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Storage: StorageConfig{
			Dir:       v.GetString("STORAGE_DIR"),
			URLPrefix: v.GetString("STORAGE_URL_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
