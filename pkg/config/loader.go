// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultWeatherURL = "http://api.openweathermap.org/data/2.5/weather"

// Options controls where configuration is read from.
type Options struct {
	ConfigDir string
	EnvFiles  []string
}

// DefaultOptions reads ./configs/{APP_ENV}.yaml and the local dotenv files.
func DefaultOptions() Options {
	return Options{
		ConfigDir: "./configs",
		EnvFiles:  []string{".env.local", ".env"},
	}
}

// Load reads configuration using DefaultOptions.
func Load() (*Config, *viper.Viper, error) {
	return LoadWithOptions(DefaultOptions())
}

// LoadWithOptions reads configuration from YAML files and environment variables, validates it, and returns the resulting Config.
func LoadWithOptions(opts Options) (*Config, *viper.Viper, error) {
	for _, file := range opts.EnvFiles {
		// missing dotenv files are fine, the environment may be set by the host
		_ = godotenv.Load(file)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindSecrets(v); err != nil {
		return nil, nil, err
	}

	if opts.ConfigDir != "" {
		path := filepath.Join(opts.ConfigDir, env+".yaml")
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("stat config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Watch reloads the configuration file on change and passes the result to onChange.
// It is a no-op when no configuration file was read.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			log.Warn("config reload failed", slog.String("file", event.Name), slog.Any("error", err))
			return
		}
		cfg.AppEnv = v.GetString("app_env")

		log.Info("config reloaded", slog.String("file", event.Name))
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindSecrets(v *viper.Viper) error {
	if err := v.BindEnv("bot.token", "BOT_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return fmt.Errorf("bind bot token: %w", err)
	}
	if err := v.BindEnv("weather.api_key", "WEATHER_API_KEY", "OPENWEATHERMAP_API_KEY"); err != nil {
		return fmt.Errorf("bind weather api key: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", "longpoll")
	v.SetDefault("bot.timeout", 10*time.Second)
	v.SetDefault("bot.webhook.listen", ":8443")
	v.SetDefault("bot.webhook.public_url", "")
	v.SetDefault("bot.webhook.secret_token", "")

	v.SetDefault("weather.base_url", defaultWeatherURL)
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.lang", "ru")
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("weather.max_retries", 0)
	v.SetDefault("weather.breaker.max_failures", 5)
	v.SetDefault("weather.breaker.open_timeout", 30*time.Second)

	v.SetDefault("i18n.language", "ru")
	v.SetDefault("i18n.dir", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.max_retries", 3)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.per_chat.limit", 30)
	v.SetDefault("rate_limit.per_chat.window", time.Minute)
	v.SetDefault("rate_limit.whitelist", []int64{})

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")

	v.SetDefault("scheduler.cleanup_interval", 5*time.Minute)
	v.SetDefault("scheduler.gauge_interval", 15*time.Second)
}
