package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	PayOS    PayOSConfig    `mapstructure:"payos"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type PaymentConfig struct {
	// TransferPrefix is prepended to the match token in the expected bank
	// transfer description. Stable contract with the token parser.
	TransferPrefix string `mapstructure:"transfer_prefix"`
	// QRExpiryMinutes is the lifetime of a bank QR payment.
	QRExpiryMinutes int `mapstructure:"qr_expiry_minutes"`
	// SweepIntervalSeconds drives the optional expiry sweeper. 0 disables it.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
	// QRImageBaseURL is the VietQR-compatible image generator endpoint.
	QRImageBaseURL string `mapstructure:"qr_image_base_url"`
}

type PayOSConfig struct {
	Endpoint  string `mapstructure:"endpoint"`   // gateway API base URL
	ReturnURL string `mapstructure:"return_url"` // redirect after checkout success
	CancelURL string `mapstructure:"cancel_url"` // redirect after checkout cancel
}

type WebhookConfig struct {
	// AggregatorSecret is the shared secret for aggregator webhook signatures.
	// Empty disables verification.
	AggregatorSecret string `mapstructure:"aggregator_secret"`
	// SignatureHeader carries the hex HMAC-SHA256 of the raw body.
	SignatureHeader string `mapstructure:"signature_header"`
}

var GlobalConfig Config

// Validate checks configuration before the server starts.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	if c.Payment.QRExpiryMinutes <= 0 {
		return errors.New("payment.qr_expiry_minutes must be positive")
	}
	if c.Payment.TransferPrefix == "" {
		return errors.New("payment.transfer_prefix is required")
	}

	return nil
}

// LoadConfig reads the yaml config for the current APP_ENV plus env overrides.
func LoadConfig() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("payment.transfer_prefix", "PAY")
	viper.SetDefault("payment.qr_expiry_minutes", 15)
	viper.SetDefault("payment.sweep_interval_seconds", 60)
	viper.SetDefault("payment.qr_image_base_url", "https://img.vietqr.io/image")
	viper.SetDefault("payos.endpoint", "https://api-merchant.payos.vn")
	viper.SetDefault("webhook.signature_header", "X-Signature")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// Explicit overrides for the settings most commonly injected in containers.
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if whSecret := os.Getenv("WEBHOOK_AGGREGATOR_SECRET"); whSecret != "" {
		GlobalConfig.Webhook.AggregatorSecret = whSecret
	}

	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
