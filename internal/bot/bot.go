// Package bot wires the Telegram transport to the session-aware router.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	"github.com/Proton-105/weathertime-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/lookup"
	"github.com/Proton-105/weathertime-bot/internal/middleware"
	"github.com/Proton-105/weathertime-bot/internal/session"
	"github.com/Proton-105/weathertime-bot/pkg/config"
)

// Dependencies are the collaborators the bot needs to answer updates.
type Dependencies struct {
	Sessions   session.Store
	Lookup     *lookup.Service
	Translator i18n.Translator
	ErrHandler *errors.Handler
	// RateLimit is optional.
	RateLimit *middleware.RateLimitMiddleware
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot *telebot.Bot
	log     *slog.Logger
	cfg     config.Config
	router  *Router
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, deps Dependencies, log *slog.Logger) (*Bot, error) {
	return newBot(cfg, deps, log, false)
}

func newBot(cfg config.Config, deps Dependencies, log *slog.Logger, offline bool) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	if deps.Sessions == nil || deps.Lookup == nil || deps.Translator == nil {
		return nil, fmt.Errorf("bot: sessions, lookup and translator are required")
	}
	if deps.ErrHandler == nil {
		deps.ErrHandler = errors.NewHandler(log, cfg.Sentry.Enabled)
	}

	settings := telebot.Settings{
		Token:   cfg.Bot.Token,
		Offline: offline,
		OnError: func(err error, c telebot.Context) {
			chatID, _ := handlers.ChatID(c)
			log.Error("telegram update failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == "webhook" {
		webhook := &telebot.Webhook{
			Listen:      cfg.Bot.Webhook.Listen,
			SecretToken: cfg.Bot.Webhook.SecretToken,
		}
		if cfg.Bot.Webhook.PublicURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.Bot.Webhook.PublicURL}
		}
		settings.Poller = webhook
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot: tb,
		log:     log,
		cfg:     cfg,
		router:  NewRouter(NewDispatcher(deps.Sessions, log), log),
	}

	setupRouter(b.router, deps, log)

	b.telebot.Handle(telebot.OnText, b.router.Route)

	return b, nil
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.log.Info("telegram bot started", slog.String("mode", b.cfg.Bot.Mode), slog.String("username", b.telebot.Me.Username))
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

// setupRouter installs the middleware chain and every route of the bot.
func setupRouter(router *Router, deps Dependencies, log *slog.Logger) {
	tr := deps.Translator
	menu := keyboard.MainMenu(tr)
	labels := keyboard.MenuLabels(tr)

	router.Use(RecoveryMiddleware(log, deps.ErrHandler, tr))
	router.Use(CorrelationMiddleware())
	router.Use(ErrorHandlingMiddleware(deps.ErrHandler, tr))
	router.Use(LoggingMiddleware(log))
	router.Use(middleware.Metrics)
	if deps.RateLimit != nil {
		router.Use(deps.RateLimit.Handle)
	}

	router.RegisterCommand(CommandStart, RouteStart, handlers.NewStartHandler(tr, menu, log))

	router.RegisterLabel(labels.Weather, RouteWeather,
		handlers.NewAwaitCityHandler(deps.Sessions, session.StateAwaitingCityForWeather, "prompt.weather_city", tr, log))
	router.RegisterLabel(labels.Time, RouteTime,
		handlers.NewAwaitCityHandler(deps.Sessions, session.StateAwaitingCityForTime, "prompt.time_city", tr, log))
	router.RegisterLabel(labels.Stop, RouteStop, handlers.NewStopHandler(deps.Sessions, tr, menu, log))
	router.RegisterLabel(labels.Help, RouteHelp, handlers.NewHelpHandler(tr))

	router.dispatcher.RegisterStateHandler(session.StateAwaitingCityForWeather, RouteCityWeather,
		handlers.NewCityHandler(deps.Sessions, deps.Lookup.Weather, tr, menu, log))
	router.dispatcher.RegisterStateHandler(session.StateAwaitingCityForTime, RouteCityTime,
		handlers.NewCityHandler(deps.Sessions, deps.Lookup.Time, tr, menu, log))
}
