// Package middleware holds cross-cutting wrappers for bot handlers and the ops HTTP server.
package middleware

import (
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	"github.com/Proton-105/weathertime-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
// Handlers are labelled by route name so free text such as city names never becomes a label.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(routeLabel(c), status, time.Since(start))

		return err
	}
}

func routeLabel(c telebot.Context) string {
	if name := handlers.RouteName(c); name != "" {
		return name
	}

	return "unknown"
}
