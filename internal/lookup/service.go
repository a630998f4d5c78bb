// Package lookup turns weather reports into the sentences sent to users.
package lookup

import (
	"context"
	"time"

	"github.com/Proton-105/weathertime-bot/internal/i18n"
	"github.com/Proton-105/weathertime-bot/internal/weather"
)

const clockLayout = "15:04"

// Provider fetches a weather report for a city.
type Provider interface {
	Lookup(ctx context.Context, city string) (*weather.Report, error)
}

// Fetcher maps a city name to a reply sentence.
type Fetcher func(ctx context.Context, city string) (string, error)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used by the time fetcher.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service formats weather and local time sentences.
type Service struct {
	provider Provider
	tr       i18n.Translator
	now      func() time.Time
}

// NewService builds a Service that formats replies with tr.
func NewService(provider Provider, tr i18n.Translator, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		tr:       tr,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Weather returns "Weather in {city}: {description}, temperature {celsius}°C." in the
// configured language. city is echoed exactly as typed.
func (s *Service) Weather(ctx context.Context, city string) (string, error) {
	report, err := s.provider.Lookup(ctx, city)
	if err != nil {
		return "", err
	}

	if err := report.Require(city, weather.FieldConditions, weather.FieldTemperature); err != nil {
		return "", err
	}

	return s.tr.Tf("result.weather", city, report.Description, report.Celsius()), nil
}

// Time returns "Current time in {city}: {HH:mm}." for the city's UTC offset.
func (s *Service) Time(ctx context.Context, city string) (string, error) {
	report, err := s.provider.Lookup(ctx, city)
	if err != nil {
		return "", err
	}

	if err := report.Require(city, weather.FieldTimezone); err != nil {
		return "", err
	}

	local := report.LocalTime(s.now()).Format(clockLayout)

	return s.tr.Tf("result.time", city, local), nil
}
