package bot

import (
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/weathertime-bot/internal/bot/handlers"
	"github.com/Proton-105/weathertime-bot/internal/middleware"
	"github.com/Proton-105/weathertime-bot/internal/ratelimit"
	"github.com/Proton-105/weathertime-bot/internal/session"
	"github.com/Proton-105/weathertime-bot/internal/weather"
	"github.com/Proton-105/weathertime-bot/pkg/config"
)

const chatID int64 = 1001

func TestRouter_StartShowsMenu(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "plain", text: "/start"},
		{name: "with bot name", text: "/start@WeatherTimeBot"},
		{name: "with payload", text: "/start ref42"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			c := env.send(t, chatID, tc.text)

			require.Len(t, c.sent, 1)
			assert.Equal(t, "Hi! Choose an option from the menu below:", c.sent[0].text)
			require.NotNil(t, c.sent[0].markup)
			assert.True(t, c.sent[0].markup.ResizeKeyboard)
			require.Len(t, c.sent[0].markup.ReplyKeyboard, 2)
			assert.Equal(t, "☀️ Weather", c.sent[0].markup.ReplyKeyboard[0][0].Text)
			assert.Equal(t, "⏳ Time", c.sent[0].markup.ReplyKeyboard[0][1].Text)
			assert.Equal(t, "⛔️ Stop", c.sent[0].markup.ReplyKeyboard[1][0].Text)
			assert.Equal(t, "🆘 Help", c.sent[0].markup.ReplyKeyboard[1][1].Text)
			assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
			assert.Equal(t, RouteStart, handlers.RouteName(c))
		})
	}
}

func TestRouter_StartKeepsPendingWait(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")
	env.send(t, chatID, "/start")

	assert.Equal(t, session.StateAwaitingCityForWeather, env.store.Get(chatID).State)
}

func TestRouter_WeatherFlow(t *testing.T) {
	env := newTestEnv(t)

	c := env.send(t, chatID, "☀️ Weather")
	assert.Equal(t, []string{`Enter a city name to get the weather, or press "Stop" to cancel:`}, c.texts())
	assert.True(t, env.store.Get(chatID).WaitingForWeather())

	c = env.send(t, chatID, "London")
	assert.Equal(t, []string{
		"Weather in London: clear sky, temperature 20°C.",
		"Choose a new command from the menu below:",
	}, c.texts())
	assert.NotNil(t, c.sent[1].markup)
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
	assert.Equal(t, RouteCityWeather, handlers.RouteName(c))
}

func TestRouter_WeatherCityNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")
	c := env.send(t, chatID, "Atlantis")

	assert.Equal(t, []string{
		"City not found. Please check the spelling and try again.",
		"Choose a new command from the menu below:",
	}, c.texts())
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
}

func TestRouter_GenericLookupError(t *testing.T) {
	env := newTestEnv(t)
	env.provider.errs["Paris"] = &weather.Error{Kind: weather.KindTransport, StatusCode: 500}

	env.send(t, chatID, "⏳ Time")
	c := env.send(t, chatID, "Paris")

	assert.Equal(t, []string{
		"Sorry, an error occurred: request failed with status code 500",
		"Choose a new command from the menu below:",
	}, c.texts())
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
}

func TestRouter_TimeFlow(t *testing.T) {
	env := newTestEnv(t)

	c := env.send(t, chatID, "⏳ Time")
	assert.Equal(t, []string{`Enter a city name to get the time, or press "Stop" to cancel:`}, c.texts())
	assert.True(t, env.store.Get(chatID).WaitingForTime())

	c = env.send(t, chatID, "Berlin")
	assert.Equal(t, []string{
		"Current time in Berlin: 12:30.",
		"Choose a new command from the menu below:",
	}, c.texts())
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
}

func TestRouter_StopWhileWaiting(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")
	c := env.send(t, chatID, "⛔️ Stop")

	assert.Equal(t, []string{"Operation stopped. Choose a new command from the menu below:"}, c.texts())
	assert.NotNil(t, c.sent[0].markup)
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
	assert.Empty(t, env.provider.calls)
}

func TestRouter_HelpKeepsState(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "⏳ Time")
	c := env.send(t, chatID, "🆘 Help")

	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0].text, "/start")
	assert.Equal(t, session.StateAwaitingCityForTime, env.store.Get(chatID).State)
}

func TestRouter_MenuRetargetsWait(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")
	env.send(t, chatID, "⏳ Time")

	sess := env.store.Get(chatID)
	assert.True(t, sess.WaitingForTime())
	assert.False(t, sess.WaitingForWeather())

	c := env.send(t, chatID, "London")
	assert.Equal(t, "Current time in London: 10:30.", c.texts()[0])
}

func TestRouter_IdleTextIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	c := env.send(t, chatID, "London")

	assert.Empty(t, c.sent)
	assert.Empty(t, env.provider.calls)
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
}

func TestRouter_UnknownCommandIsIgnored(t *testing.T) {
	env := newTestEnv(t)

	c := env.send(t, chatID, "/weather")

	assert.Empty(t, c.sent)
}

func TestRouter_MenuLabelIsNotTreatedAsCity(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")
	env.send(t, chatID, "☀️ Weather")

	assert.Empty(t, env.provider.calls)
	assert.True(t, env.store.Get(chatID).WaitingForWeather())
}

func TestRouter_ChatsAreIndependent(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, 1, "☀️ Weather")
	c := env.send(t, 2, "London")

	assert.Empty(t, c.sent)
	assert.True(t, env.store.Get(1).WaitingForWeather())
	assert.Equal(t, session.StateIdle, env.store.Get(2).State)
}

func TestRouter_SendFailureIsHandled(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, chatID, "☀️ Weather")

	c := newFakeContext(chatID, "London")
	c.sendErr = stdErrors.New("telegram unavailable")
	require.NoError(t, env.router.Route(c))

	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)
	assert.Equal(t, []string{"The service is temporarily unavailable"}, c.texts())
}

func TestRouter_PanicIsRecovered(t *testing.T) {
	env := newTestEnv(t)
	env.provider.panics = true

	env.send(t, chatID, "☀️ Weather")
	c := env.send(t, chatID, "London")

	assert.Equal(t, []string{"Something went wrong. Please try again later"}, c.texts())
	assert.Equal(t, session.StateIdle, env.store.Get(chatID).State)

	c = env.send(t, chatID, "London")
	assert.Empty(t, c.sent)
}

func TestRouter_RateLimitCountsOnlyRoutedUpdates(t *testing.T) {
	env := newTestEnv(t, func(deps *Dependencies) {
		rules := ratelimit.NewRules(config.RateLimitConfig{
			Enabled: true,
			PerChat: config.RateLimitRule{Limit: 1, Window: time.Minute},
		})
		deps.RateLimit = middleware.NewRateLimitMiddleware(ratelimit.NewMemoryLimiter(testLogger()), rules, deps.Translator, testLogger())
	})

	c := env.send(t, chatID, "/start")
	require.Len(t, c.sent, 1)

	for i := 0; i < 3; i++ {
		c = env.send(t, chatID, "hello")
		assert.Empty(t, c.sent)
	}

	c = env.send(t, chatID, "🆘 Help")
	assert.Equal(t, []string{"Too many requests. Please try again a bit later"}, c.texts())
}

func TestCommandName(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
		ok       bool
	}{
		{text: "/start", expected: "/start", ok: true},
		{text: "/START@bot payload", expected: "/start", ok: true},
		{text: "start", ok: false},
		{text: "", ok: false},
	}

	for _, tc := range testCases {
		cmd, ok := commandName(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.expected, cmd, tc.text)
	}
}
