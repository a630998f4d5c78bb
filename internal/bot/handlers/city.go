package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/lookup"
	"github.com/Proton-105/weathertime-bot/internal/session"
	"github.com/Proton-105/weathertime-bot/internal/weather"
)

// NewCityHandler treats the message text as a city name, replies with the result of
// fetch, resets the session and offers the menu again.
func NewCityHandler(store session.Store, fetch lookup.Fetcher, tr i18n.Translator, menu *telebot.ReplyMarkup, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		chatID, ok := ChatID(c)
		if !ok {
			log.Warn("city handler invoked without chat")
			return nil
		}

		// the wait ends even if the lookup panics
		reset := false
		defer func() {
			if !reset {
				store.Reset(chatID)
			}
		}()

		city := c.Text()
		reply, err := fetch(RequestContext(c), city)
		if err != nil {
			reply = DescribeLookupError(tr, err)
			log.Info("city lookup failed",
				slog.Int64("chat_id", chatID),
				slog.String("city", city),
				slog.Any("error", err),
			)
		}

		store.Reset(chatID)
		reset = true

		if err := send(c, reply); err != nil {
			return err
		}

		return send(c, tr.T("prompt.next_command"), menu)
	}
}

// DescribeLookupError maps a lookup failure to the text shown to the user.
func DescribeLookupError(tr i18n.Translator, err error) string {
	if weather.IsNotFound(err) {
		return tr.T("errors.city_not_found")
	}

	return tr.Tf("errors.generic", err.Error())
}
