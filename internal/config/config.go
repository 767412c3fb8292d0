package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	BucketMedia   string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AuthConfig struct {
	SessionLifetime   time.Duration
	GuestLifetime     time.Duration
	SignupCodeTTL     time.Duration
	SignupCodeDigits  int
	MinPasswordLength int
	GoogleClientID    string
}

type RateLimitConfig struct {
	Enabled    bool
	AuthLimit  int
	AuthWindow time.Duration
}

type CacheConfig struct {
	BusinessTTL time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	SMTP             SMTPConfig
	Auth             AuthConfig
	RateLimit        RateLimitConfig
	Cache            CacheConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("BIZBOOST")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucketmedia", "bizboost-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@bizboost.local")

	v.SetDefault("auth.sessionlifetime", "168h") // 7 days
	v.SetDefault("auth.guestlifetime", "24h")
	v.SetDefault("auth.signupcodettl", "10m")
	v.SetDefault("auth.signupcodedigits", 6)
	v.SetDefault("auth.minpasswordlength", 8)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.authlimit", 10)
	v.SetDefault("ratelimit.authwindow", "1m")

	v.SetDefault("cache.businessttl", "30s")
}
