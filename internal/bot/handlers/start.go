package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
)

// NewStartHandler greets the user and shows the main menu. The session is left untouched.
func NewStartHandler(tr i18n.Translator, menu *telebot.ReplyMarkup, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if err := send(c, tr.T("start.greeting"), menu); err != nil {
			chatID, _ := ChatID(c)
			log.Error("failed to send greeting", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return err
		}

		return nil
	}
}
