// Package session keeps the per-chat conversational state of the bot.
package session

import "time"

// State represents the conversational state of a single chat.
type State string

const (
	// StateIdle indicates that the chat is not waiting for any input.
	StateIdle State = "idle"
	// StateAwaitingCityForWeather indicates that the next text is a city for the weather lookup.
	StateAwaitingCityForWeather State = "awaiting_city_weather"
	// StateAwaitingCityForTime indicates that the next text is a city for the local time lookup.
	StateAwaitingCityForTime State = "awaiting_city_time"
)

// States lists every known state.
var States = []State{StateIdle, StateAwaitingCityForWeather, StateAwaitingCityForTime}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingCityForWeather, StateAwaitingCityForTime:
		return true
	default:
		return false
	}
}

// Session captures the current state of a chat.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WaitingForCity reports whether the next text message is treated as a city name.
func (s Session) WaitingForCity() bool {
	return s.State == StateAwaitingCityForWeather || s.State == StateAwaitingCityForTime
}

func (s Session) WaitingForWeather() bool {
	return s.State == StateAwaitingCityForWeather
}

func (s Session) WaitingForTime() bool {
	return s.State == StateAwaitingCityForTime
}
