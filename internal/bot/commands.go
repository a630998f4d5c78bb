package bot

import "strings"

// CommandStart shows the greeting and the main menu.
const CommandStart = "/start"

// Route names reported to logs and metrics.
const (
	RouteStart       = "start"
	RouteWeather     = "weather"
	RouteTime        = "time"
	RouteStop        = "stop"
	RouteHelp        = "help"
	RouteCityWeather = "city_weather"
	RouteCityTime    = "city_time"
)

// commandName extracts "/cmd" from "/cmd@botname payload".
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}

	cmd := fields[0]
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}

	return strings.ToLower(cmd), true
}
