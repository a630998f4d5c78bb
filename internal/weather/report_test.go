package weather

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKelvinToCelsius(t *testing.T) {
	testCases := []struct {
		kelvin   float64
		expected int64
	}{
		{kelvin: 273.15, expected: 0},
		{kelvin: 273.65, expected: 1},
		{kelvin: 273.64, expected: 0},
		{kelvin: 293.15, expected: 20},
		{kelvin: 272.65, expected: 0},
		{kelvin: 271.65, expected: -1},
		{kelvin: 260.65, expected: -12},
		{kelvin: 260.64, expected: -13},
		{kelvin: 263.0, expected: -10},
		{kelvin: 310.4, expected: 37},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%.2fK", tc.kelvin), func(t *testing.T) {
			assert.Equal(t, tc.expected, KelvinToCelsius(tc.kelvin))
		})
	}
}

func TestReport_LocalTime(t *testing.T) {
	now := time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "12:30", Report{TimezoneOffset: 7200}.LocalTime(now).Format("15:04"))
	assert.Equal(t, "05:00", Report{TimezoneOffset: -19800}.LocalTime(now).Format("15:04"))
	assert.Equal(t, "00:30", Report{TimezoneOffset: 14 * 3600}.LocalTime(now).Format("15:04"))
}

func TestError_Classification(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", &Error{Kind: KindParse, Err: errors.New("bad")})

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindParse, kind)
	assert.False(t, IsNotFound(wrapped))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	assert.True(t, (&Error{Kind: KindTransport}).Retryable())
	assert.False(t, (&Error{Kind: KindNotFound}).Retryable())
	assert.Equal(t, `city "Atlantis" not found`, (&Error{Kind: KindNotFound, City: "Atlantis"}).Error())
	assert.Equal(t, "request failed with status code 502", (&Error{Kind: KindTransport, StatusCode: 502}).Error())
}

func TestReport_Require(t *testing.T) {
	report := Report{TimezoneOffset: 7200, Missing: []Field{FieldConditions, FieldTemperature}}

	assert.NoError(t, report.Require("Berlin", FieldTimezone))

	err := report.Require("Berlin", FieldConditions, FieldTemperature)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindParse, kind)
	assert.EqualError(t, err, "weather response has no weather entries")

	err = Report{Missing: []Field{FieldTimezone}}.Require("Berlin", FieldTimezone)
	assert.EqualError(t, err, "weather response has no timezone")
}
