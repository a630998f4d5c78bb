package bot

import (
	"log/slog"
	"sync"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	"github.com/Proton-105/weathertime-bot/internal/session"
)

// Dispatcher resolves the handler for free text based on the chat session state.
type Dispatcher struct {
	store         session.Store
	stateHandlers map[session.State]route
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(store session.Store, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		store:         store,
		stateHandlers: make(map[session.State]route),
		log:           log,
	}
}

// RegisterStateHandler registers a named handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s session.State, name string, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = route{name: name, handler: h}
}

// Resolve returns the handler for the chat's current state.
func (d *Dispatcher) Resolve(chatID int64) (route, bool) {
	current := d.store.Get(chatID).State

	d.mu.RLock()
	rt, ok := d.stateHandlers[current]
	d.mu.RUnlock()

	if !ok {
		d.log.Debug("no handler registered for state", slog.String("state", string(current)), slog.Int64("chat_id", chatID))
	}

	return rt, ok
}
