// Package keyboard builds the reply keyboards shown to users.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
)

// Catalog keys of the main menu buttons.
const (
	KeyWeather = "menu.weather"
	KeyTime    = "menu.time"
	KeyStop    = "menu.stop"
	KeyHelp    = "menu.help"
)

// Labels holds the localized texts of the main menu buttons.
type Labels struct {
	Weather string
	Time    string
	Stop    string
	Help    string
}

// MenuLabels resolves the main menu button texts.
func MenuLabels(t i18n.Translator) Labels {
	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	return Labels{
		Weather: lookup(KeyWeather),
		Time:    lookup(KeyTime),
		Stop:    lookup(KeyStop),
		Help:    lookup(KeyHelp),
	}
}

// MainMenu builds the persistent two-row reply keyboard of the bot.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	labels := MenuLabels(t)

	markup.Reply(
		markup.Row(markup.Text(labels.Weather), markup.Text(labels.Time)),
		markup.Row(markup.Text(labels.Stop), markup.Text(labels.Help)),
	)

	return markup
}
