package config

import "time"

// Config holds runtime configuration for the weather/time bot.
type Config struct {
	AppEnv    string          `mapstructure:"app_env" validate:"required,oneof=development staging production test"`
	Log       LogConfig       `mapstructure:"log"`
	Bot       BotConfig       `mapstructure:"bot"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Server    ServerConfig    `mapstructure:"server"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type LogConfig struct {
	Level  string        `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string        `mapstructure:"format" validate:"oneof=json text"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated file output when Path is set.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"oneof=longpoll webhook"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	Listen      string `mapstructure:"listen"`
	PublicURL   string `mapstructure:"public_url" validate:"omitempty,url"`
	SecretToken string `mapstructure:"secret_token"`
}

type WeatherConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	APIKey     string        `mapstructure:"api_key" validate:"required"`
	Lang       string        `mapstructure:"lang" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	Breaker    BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the weather provider.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures" validate:"min=1"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type I18nConfig struct {
	Language string `mapstructure:"language" validate:"required"`
	Dir      string `mapstructure:"dir"`
}

// RedisConfig is optional; an empty Addr disables redis.
type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"min=0"`
	PoolSize   int    `mapstructure:"pool_size" validate:"min=0"`
	MaxRetries int    `mapstructure:"max_retries" validate:"min=0"`
}

type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PerChat   RateLimitRule `mapstructure:"per_chat"`
	Whitelist []int64       `mapstructure:"whitelist"`
}

type RateLimitRule struct {
	Limit  int           `mapstructure:"limit" validate:"min=1"`
	Window time.Duration `mapstructure:"window" validate:"min=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment"`
}

type SchedulerConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"min=0"`
	GaugeInterval   time.Duration `mapstructure:"gauge_interval" validate:"min=0"`
}
