package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Rabbit   RabbitConfig
	OTel     OTelConfig
	Session  SessionConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitConfig struct {
	URL      string
	Exchange string
}

type OTelConfig struct {
	Endpoint string
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	BerthLockTTL   time.Duration
	RequestTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "marina-ops")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "marina_audit")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RABBIT_EXCHANGE", "marina.events")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("BERTH_LOCK_TTL", "10s")
	viper.SetDefault("BOOKING_REQUEST_TIMEOUT", "15s")

	viper.AutomaticEnv()

	// A missing .env is fine when the environment carries the settings.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Rabbit: RabbitConfig{
			URL:      viper.GetString("RABBIT_URL"),
			Exchange: viper.GetString("RABBIT_EXCHANGE"),
		},
		OTel: OTelConfig{
			Endpoint: viper.GetString("OTEL_ENDPOINT"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			BerthLockTTL:   viper.GetDuration("BERTH_LOCK_TTL"),
			RequestTimeout: viper.GetDuration("BOOKING_REQUEST_TIMEOUT"),
		},
	}

	return config, nil
}
