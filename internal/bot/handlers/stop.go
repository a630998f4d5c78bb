package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/session"
)

// NewStopHandler cancels any pending wait and returns the user to the main menu.
func NewStopHandler(store session.Store, tr i18n.Translator, menu *telebot.ReplyMarkup, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		chatID, ok := ChatID(c)
		if !ok {
			log.Warn("stop handler invoked without chat")
			return nil
		}

		store.Reset(chatID)

		if err := send(c, tr.T("stop.done"), menu); err != nil {
			log.Error("failed to notify user about cancellation", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return err
		}

		return nil
	}
}
