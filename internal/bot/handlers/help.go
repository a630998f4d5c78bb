package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
)

func NewHelpHandler(tr i18n.Translator) Handler {
	return func(c telebot.Context) error {
		return send(c, tr.T("help.text"))
	}
}
