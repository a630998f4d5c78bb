package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	errors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/pkg/logger"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *errors.Handler, tr i18n.Translator) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ctx := handlers.RequestContext(c)
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
						slog.String("stack", string(debug.Stack())),
					)

					msgKey := errors.MsgInternal
					if errHandler != nil {
						appErr := errors.NewInternalError("panic recovered", fmt.Errorf("%v", r))
						if key, _ := errHandler.Handle(ctx, appErr); key != "" {
							msgKey = key
						}
					}

					if c != nil {
						if sendErr := c.Send(tr.T(msgKey)); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *errors.Handler, tr i18n.Translator) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			msgKey := errors.MsgInternal
			if errHandler != nil {
				if key, _ := errHandler.Handle(handlers.RequestContext(c), err); key != "" {
					msgKey = key
				}
			}

			if c != nil {
				_ = c.Send(tr.T(msgKey))
			}

			return nil
		}
	}
}

// CorrelationMiddleware attaches a fresh correlation identifier to every update.
func CorrelationMiddleware() handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			ctx := logger.WithCorrelationID(context.Background(), logger.NewCorrelationID())
			handlers.SetRequestContext(c, ctx)
			return next(c)
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			start := time.Now()
			chatID, _ := handlers.ChatID(c)
			correlationID := logger.CorrelationIDFromContext(handlers.RequestContext(c))
			route := handlers.RouteName(c)

			log.Info("handling update",
				slog.Int64("chat_id", chatID),
				slog.String("route", route),
				slog.String("correlation_id", correlationID),
			)
			err := next(c)
			log.Info("handled update",
				slog.Int64("chat_id", chatID),
				slog.String("route", route),
				slog.String("correlation_id", correlationID),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}
