package bot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	errors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/lookup"
	"github.com/Proton-105/weathertime-bot/internal/session"
	"github.com/Proton-105/weathertime-bot/internal/weather"
)

type sentMessage struct {
	text   string
	markup *telebot.ReplyMarkup
}

// fakeContext implements the subset of telebot.Context used by the router and handlers.
type fakeContext struct {
	telebot.Context

	chat    *telebot.Chat
	sender  *telebot.User
	text    string
	values  map[string]interface{}
	sent    []sentMessage
	sendErr error
	mu      sync.Mutex
}

func newFakeContext(chatID int64, text string) *fakeContext {
	return &fakeContext{
		chat:   &telebot.Chat{ID: chatID, Type: telebot.ChatPrivate},
		sender: &telebot.User{ID: chatID},
		text:   text,
		values: make(map[string]interface{}),
	}
}

func (f *fakeContext) Chat() *telebot.Chat         { return f.chat }
func (f *fakeContext) Sender() *telebot.User       { return f.sender }
func (f *fakeContext) Text() string                { return f.text }
func (f *fakeContext) Callback() *telebot.Callback { return nil }

func (f *fakeContext) Message() *telebot.Message {
	return &telebot.Message{Text: f.text, Chat: f.chat, Sender: f.sender}
}

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		err := f.sendErr
		f.sendErr = nil
		return err
	}

	msg := sentMessage{}
	if text, ok := what.(string); ok {
		msg.text = text
	}
	for _, opt := range opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			msg.markup = markup
		}
	}
	f.sent = append(f.sent, msg)

	return nil
}

func (f *fakeContext) Get(key string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *fakeContext) Set(key string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

func (f *fakeContext) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.sent))
	for _, msg := range f.sent {
		out = append(out, msg.text)
	}
	return out
}

// stubProvider answers lookups from a map keyed by city.
type stubProvider struct {
	reports map[string]*weather.Report
	errs    map[string]error
	calls   []string
	panics  bool
}

func (s *stubProvider) Lookup(_ context.Context, city string) (*weather.Report, error) {
	if s.panics {
		panic("provider exploded")
	}
	s.calls = append(s.calls, city)
	if err, ok := s.errs[city]; ok {
		return nil, err
	}
	if report, ok := s.reports[city]; ok {
		return report, nil
	}
	return nil, &weather.Error{Kind: weather.KindNotFound, City: city}
}

type testEnv struct {
	router   *Router
	store    *session.MemoryStore
	provider *stubProvider
	tr       i18n.Translator
}

var fixedNow = time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()

	manager, err := i18n.Load("ru")
	require.NoError(t, err)
	tr := manager.Translator("en")

	provider := &stubProvider{
		reports: map[string]*weather.Report{
			"London": {Name: "London", Description: "clear sky", Kelvin: 293.15, TimezoneOffset: 0},
			"Berlin": {Name: "Berlin", Description: "light rain", Kelvin: 285.4, TimezoneOffset: 7200},
		},
		errs: map[string]error{},
	}

	store := session.NewMemoryStore()
	log := testLogger()
	router := NewRouter(NewDispatcher(store, log), log)

	deps := Dependencies{
		Sessions:   store,
		Lookup:     lookup.NewService(provider, tr, lookup.WithClock(func() time.Time { return fixedNow })),
		Translator: tr,
		ErrHandler: errors.NewHandler(log, false),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	setupRouter(router, deps, log)

	return &testEnv{router: router, store: store, provider: provider, tr: tr}
}

func (e *testEnv) send(t *testing.T, chatID int64, text string) *fakeContext {
	t.Helper()

	c := newFakeContext(chatID, text)
	require.NoError(t, e.router.Route(c))
	return c
}
