package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"
)

const (
	requestContextKey = "request_context"
	routeKey          = "route"
)

// ChatID returns the identifier of the chat the update belongs to.
func ChatID(c telebot.Context) (int64, bool) {
	if c == nil {
		return 0, false
	}
	if chat := c.Chat(); chat != nil {
		return chat.ID, true
	}
	if sender := c.Sender(); sender != nil {
		return sender.ID, true
	}

	return 0, false
}

// RequestContext returns the context attached to the update, or context.Background.
func RequestContext(c telebot.Context) context.Context {
	if c != nil {
		if ctx, ok := c.Get(requestContextKey).(context.Context); ok && ctx != nil {
			return ctx
		}
	}

	return context.Background()
}

// SetRequestContext attaches ctx to the update.
func SetRequestContext(c telebot.Context, ctx context.Context) {
	if c != nil {
		c.Set(requestContextKey, ctx)
	}
}

// RouteName returns the route selected for the update, if any.
func RouteName(c telebot.Context) string {
	if c == nil {
		return ""
	}
	name, _ := c.Get(routeKey).(string)
	return name
}

// SetRouteName records the route selected for the update.
func SetRouteName(c telebot.Context, name string) {
	if c != nil {
		c.Set(routeKey, name)
	}
}
