package handlers

import (
	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/weathertime-bot/internal/errors"
)

// send delivers a reply and reports delivery failures as Telegram API errors.
func send(c telebot.Context, what interface{}, opts ...interface{}) error {
	if err := c.Send(what, opts...); err != nil {
		return apperrors.NewExternalAPIError("telegram", err)
	}

	return nil
}
