package session

import "testing"

func TestIsTransitionAllowed(t *testing.T) {
	testCases := []struct {
		name     string
		from     State
		to       State
		expected bool
	}{
		{name: "idle to awaiting weather", from: StateIdle, to: StateAwaitingCityForWeather, expected: true},
		{name: "idle to awaiting time", from: StateIdle, to: StateAwaitingCityForTime, expected: true},
		{name: "awaiting weather to awaiting time", from: StateAwaitingCityForWeather, to: StateAwaitingCityForTime, expected: true},
		{name: "awaiting time to awaiting weather", from: StateAwaitingCityForTime, to: StateAwaitingCityForWeather, expected: true},
		{name: "awaiting weather repeated", from: StateAwaitingCityForWeather, to: StateAwaitingCityForWeather, expected: true},
		{name: "awaiting time back to idle", from: StateAwaitingCityForTime, to: StateIdle, expected: true},
		{name: "unknown state to awaiting weather invalid", from: State("unknown"), to: StateAwaitingCityForWeather, expected: false},
		{name: "idle to unknown state invalid", from: StateIdle, to: State("unknown"), expected: false},
		{name: "any state to idle", from: State("whatever"), to: StateIdle, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if actual := IsTransitionAllowed(tc.from, tc.to); actual != tc.expected {
				t.Errorf("IsTransitionAllowed(%s -> %s) = %t, expected %t", tc.from, tc.to, actual, tc.expected)
			}
		})
	}
}
