package bot

import (
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
)

type route struct {
	name    string
	handler handlers.Handler
}

// Router classifies text updates. Commands win over menu labels, menu labels win over
// the state-dependent fallback, and text that matches nothing while the chat is idle
// is ignored.
type Router struct {
	mu          sync.RWMutex
	commands    map[string]route
	labels      map[string]route
	dispatcher  *Dispatcher
	middlewares []handlers.Middleware
	log         *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]route),
		labels:      make(map[string]route),
		dispatcher:  dispatcher,
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a slash command such as /start.
func (r *Router) RegisterCommand(cmd, name string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = route{name: name, handler: h}
}

// RegisterLabel registers a handler for an exact menu button text.
func (r *Router) RegisterLabel(label, name string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.labels[label]; ok {
		r.log.Warn("menu label registered twice", slog.String("label", label), slog.String("previous", existing.name), slog.String("route", name))
	}
	r.labels[label] = route{name: name, handler: h}
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Route directs the incoming update to the appropriate handler.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	text := c.Text()

	if cmd, ok := commandName(text); ok {
		if rt, found := r.getCommand(cmd); found {
			return r.executeHandler(rt, c)
		}
	}

	if rt, found := r.getLabel(text); found {
		return r.executeHandler(rt, c)
	}

	if r.dispatcher == nil {
		return nil
	}

	chatID, ok := handlers.ChatID(c)
	if !ok {
		r.log.Warn("cannot dispatch without chat information")
		return nil
	}

	rt, found := r.dispatcher.Resolve(chatID)
	if !found {
		return nil
	}

	return r.executeHandler(rt, c)
}

func (r *Router) executeHandler(rt route, c telebot.Context) error {
	wrapped := r.applyMiddlewares(rt.handler)
	if wrapped == nil {
		return nil
	}

	handlers.SetRouteName(c, rt.name)
	return wrapped(c)
}

func (r *Router) getCommand(cmd string) (route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.commands[cmd]
	return rt, ok
}

func (r *Router) getLabel(text string) (route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.labels[text]
	return rt, ok
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
