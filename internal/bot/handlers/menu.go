package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/session"
)

// NewAwaitCityHandler switches the chat into target and asks for a city name.
// The state changes before the prompt is sent.
func NewAwaitCityHandler(store session.Store, target session.State, promptKey string, tr i18n.Translator, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		chatID, ok := ChatID(c)
		if !ok {
			log.Warn("menu handler invoked without chat")
			return nil
		}

		if err := store.Await(chatID, target); err != nil {
			log.Error("failed to update session", slog.Int64("chat_id", chatID), slog.String("target", string(target)), slog.Any("error", err))
			return apperrors.NewStateError(err)
		}

		return send(c, tr.T(promptKey))
	}
}
