package weather

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var (
	absoluteZero = decimal.RequireFromString("273.15")
	half         = decimal.RequireFromString("0.5")
)

// Field names a part of the response a fetcher may depend on.
type Field string

const (
	FieldConditions  Field = "weather"
	FieldTemperature Field = "main.temp"
	FieldTimezone    Field = "timezone"
)

var missingMessages = map[Field]string{
	FieldConditions:  "weather response has no weather entries",
	FieldTemperature: "weather response has no temperature",
	FieldTimezone:    "weather response has no timezone",
}

// Report is the subset of the current-weather response used by the bot.
type Report struct {
	// Name is the city name as resolved by the provider.
	Name        string
	Description string
	Kelvin      float64
	// TimezoneOffset is the shift from UTC in seconds.
	TimezoneOffset int
	// Missing lists the fields absent from the response.
	Missing []Field
}

// Require returns a KindParse error for the first of fields absent from the response.
func (r Report) Require(city string, fields ...Field) error {
	for _, field := range fields {
		if slices.Contains(r.Missing, field) {
			return &Error{Kind: KindParse, City: city, Err: errors.New(missingMessages[field])}
		}
	}

	return nil
}

// Celsius returns the temperature rounded to a whole degree.
func (r Report) Celsius() int64 {
	return KelvinToCelsius(r.Kelvin)
}

// Location returns a fixed zone for the reported offset.
func (r Report) Location() *time.Location {
	return time.FixedZone("", r.TimezoneOffset)
}

// LocalTime shifts now into the city's timezone.
func (r Report) LocalTime(now time.Time) time.Time {
	return now.In(r.Location())
}

// KelvinToCelsius converts with decimal arithmetic and rounds halves up towards
// positive infinity: 273.65 K gives 1 °C and 272.65 K gives 0 °C.
func KelvinToCelsius(kelvin float64) int64 {
	return decimal.NewFromFloat(kelvin).Sub(absoluteZero).Add(half).Floor().IntPart()
}

// payload mirrors the fields of the OpenWeatherMap response that are read.
type payload struct {
	Name     string         `json:"name"`
	Timezone *int           `json:"timezone"`
	Main     *mainPayload   `json:"main"`
	Weather  []weatherEntry `json:"weather"`
	Cod      any            `json:"cod"`
	Message  string         `json:"message"`
}

type mainPayload struct {
	Temp *float64 `json:"temp"`
}

type weatherEntry struct {
	Description string `json:"description"`
}
