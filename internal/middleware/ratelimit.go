package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/ratelimit"
	"github.com/Proton-105/weathertime-bot/pkg/metrics"
)

// RateLimitMiddleware enforces per-chat rate limits for incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	tr      i18n.Translator
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, tr i18n.Translator, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		tr:      tr,
		log:     log,
	}
}

// Handle wraps a routed handler with per-chat rate limits. It runs inside the router,
// so text the router ignores is neither counted nor answered. Limiter failures let the
// update through.
func (m *RateLimitMiddleware) Handle(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		if m.limiter == nil || !m.rules.Enabled() {
			return next(c)
		}

		chatID, ok := handlers.ChatID(c)
		if !ok || m.rules.IsWhitelisted(chatID) {
			return next(c)
		}

		limit, window, err := m.rules.PerChatLimit()
		if err != nil {
			m.log.Error("failed to load per-chat rate limit", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return next(c)
		}

		key := fmt.Sprintf("chat:%d", chatID)
		result, err := m.limiter.Check(handlers.RequestContext(c), key, limit, window)
		switch {
		case errors.Is(err, ratelimit.ErrLimitExceeded) || (err == nil && result != nil && !result.Allowed):
			retryAfter := int(result.RetryAfter(time.Now()).Seconds())
			appErr := apperrors.NewRateLimitError(retryAfter)
			m.log.Warn("rate limit exceeded", slog.Int64("chat_id", chatID), slog.String("code", appErr.Code), slog.Int("retry_after_s", retryAfter))
			metrics.RecordError(appErr.Code, string(appErr.Severity))
			return c.Send(m.tr.T(appErr.UserMessage))
		case err != nil:
			m.log.Warn("rate limiter error", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return next(c)
		}

		return next(c)
	}
}
