package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Proton-105/weathertime-bot/internal/bot"
	apperrors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/health"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/lifecycle"
	"github.com/Proton-105/weathertime-bot/internal/lookup"
	"github.com/Proton-105/weathertime-bot/internal/middleware"
	"github.com/Proton-105/weathertime-bot/internal/ratelimit"
	"github.com/Proton-105/weathertime-bot/internal/scheduler"
	"github.com/Proton-105/weathertime-bot/internal/session"
	"github.com/Proton-105/weathertime-bot/internal/weather"
	"github.com/Proton-105/weathertime-bot/pkg/config"
	"github.com/Proton-105/weathertime-bot/pkg/graceful"
	"github.com/Proton-105/weathertime-bot/pkg/logger"
	"github.com/Proton-105/weathertime-bot/pkg/metrics"
	"github.com/Proton-105/weathertime-bot/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("weathertime bot stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	appLogger := logger.New(cfg.Log, cfg.AppEnv, cfg.Sentry.Enabled)
	log := appLogger.Logger
	slog.SetDefault(log)

	log.Info("starting weathertime bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("log_level", cfg.Log.Level),
	)

	config.Watch(v, log, func(updated *config.Config) {
		appLogger.SetLevel(updated.Log.Level)
		log.Info("log level updated", slog.String("level", updated.Log.Level))
	})

	translations, err := loadTranslations(cfg.I18n)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	tr := translations.Translator(cfg.I18n.Language)

	sessions := session.NewMemoryStore(session.WithObserver(metrics.RecordStateTransition))

	weatherClient := weather.NewClient(weather.Config{
		BaseURL:            cfg.Weather.BaseURL,
		APIKey:             cfg.Weather.APIKey,
		Lang:               cfg.Weather.Lang,
		Timeout:            cfg.Weather.Timeout,
		MaxRetries:         cfg.Weather.MaxRetries,
		BreakerMaxFailures: cfg.Weather.Breaker.MaxFailures,
		BreakerTimeout:     cfg.Weather.Breaker.OpenTimeout,
	}, log)

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, rate limiting falls back to memory", slog.Any("error", err))
			redisClient = nil
		}
	}

	memoryLimiter := ratelimit.NewMemoryLimiter(log)
	var limiter ratelimit.Limiter = ratelimit.NewAdaptiveLimiter(nil, memoryLimiter, log)
	if redisClient != nil {
		limiter = ratelimit.NewAdaptiveLimiter(ratelimit.NewRedisLimiter(redisClient, log), memoryLimiter, log)
	}

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b, err := bot.New(*cfg, bot.Dependencies{
		Sessions:   sessions,
		Lookup:     lookup.NewService(weatherClient, tr),
		Translator: tr,
		ErrHandler: errHandler,
		RateLimit:  middleware.NewRateLimitMiddleware(limiter, ratelimit.NewRules(cfg.RateLimit), tr, log),
	}, log)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	checker := health.NewChecker(log)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	checker.AddCheck("weather", weatherClient)
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}
	probes := lifecycle.NewProbes(log, checker)

	opsHandler := logger.Middleware(middleware.HTTPLogging(log)(graceful.NewOpsMux(probes, nil)))
	opsServer := graceful.NewServer(log, &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           opsHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}, shutdownTimeout)

	jobs := scheduler.New(log)
	window := cfg.RateLimit.PerChat.Window
	if err := jobs.Add(scheduler.MemoryCleanupJob(memoryLimiter, window, cfg.Scheduler.CleanupInterval, log)); err != nil {
		return err
	}
	if err := jobs.Add(scheduler.GaugeJob(metrics.NewSessionCollector(sessions), cfg.Scheduler.GaugeInterval)); err != nil {
		return err
	}
	if redisClient != nil {
		cleaner := ratelimit.NewCleaner(redisClient, log, window)
		if err := jobs.Add(scheduler.RedisCleanupJob(cleaner, cfg.Scheduler.CleanupInterval)); err != nil {
			return err
		}
	}
	jobs.Start()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- opsServer.ListenAndServe(ctx)
	}()

	go b.Start()

	serverStopped := false
	select {
	case <-ctx.Done():
	case err := <-serverDone:
		serverStopped = true
		if err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
		}
		stop()
	}

	log.Info("weathertime bot shutting down")
	probes.Drain()

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register(lifecycle.PhaseIngress, "telegram", func(context.Context) error {
		b.Stop()
		return nil
	})
	if !serverStopped {
		shutdown.Register(lifecycle.PhaseIngress, "ops_server", func(hookCtx context.Context) error {
			select {
			case err := <-serverDone:
				return err
			case <-hookCtx.Done():
				return hookCtx.Err()
			}
		})
	}
	shutdown.Register(lifecycle.PhaseWorkers, "scheduler", func(context.Context) error {
		jobs.Stop()
		return nil
	})
	if redisClient != nil {
		shutdown.Register(lifecycle.PhaseResources, "redis", func(context.Context) error {
			if err := redisClient.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
				return err
			}
			return nil
		})
	}
	if cfg.Sentry.Enabled {
		shutdown.Register(lifecycle.PhaseFlush, "sentry", func(context.Context) error {
			if !sentry.Flush(5 * time.Second) {
				return errors.New("sentry flush timed out")
			}
			return nil
		})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := shutdown.Execute(shutdownCtx)
	log.Info("weathertime bot stopped")

	if err := appLogger.Close(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	return shutdownErr
}

func loadTranslations(cfg config.I18nConfig) (*i18n.Manager, error) {
	if cfg.Dir != "" {
		return i18n.LoadFromDir(cfg.Dir, cfg.Language)
	}

	return i18n.Load(cfg.Language)
}
