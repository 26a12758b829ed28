package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort      string `mapstructure:"APP_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	Env          string `mapstructure:"ENV"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDedupDB      int    `mapstructure:"REDIS_DEDUP_DB"`
	RedisEventQueueDB int    `mapstructure:"REDIS_EVENT_QUEUE_DB"`

	// Stripe checkout.
	StripeKey         string `mapstructure:"STRIPE_KEY"`
	CheckoutReturnURL string `mapstructure:"CHECKOUT_RETURN_URL"`

	// Reservation engine knobs.
	PlatformFeeRate    float64       `mapstructure:"PLATFORM_FEE_RATE"`
	TxnCommitTimeout   time.Duration `mapstructure:"TXN_COMMIT_TIMEOUT"`
	ConflictRetryLimit int           `mapstructure:"CONFLICT_RETRY_LIMIT"`
	RateLimitPerMin    int           `mapstructure:"RATE_LIMIT_PER_MIN"`
	RateLimitBurst     int           `mapstructure:"RATE_LIMIT_BURST"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "sportzone")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DEDUP_DB", 0)
	viper.SetDefault("REDIS_EVENT_QUEUE_DB", 1)
	viper.SetDefault("PLATFORM_FEE_RATE", 0.05)
	viper.SetDefault("TXN_COMMIT_TIMEOUT", "10s")
	viper.SetDefault("CONFLICT_RETRY_LIMIT", 3)
	viper.SetDefault("RATE_LIMIT_PER_MIN", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
