package session

// validTransitions contains the permitted moves into an awaiting state.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitingCityForWeather,
		StateAwaitingCityForTime,
	},
	StateAwaitingCityForWeather: {
		StateAwaitingCityForWeather,
		StateAwaitingCityForTime,
	},
	StateAwaitingCityForTime: {
		StateAwaitingCityForWeather,
		StateAwaitingCityForTime,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
// Every state may return to idle.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
