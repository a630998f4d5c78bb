// Package weather queries the OpenWeatherMap current-weather endpoint.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	apperrors "github.com/Proton-105/weathertime-bot/internal/errors"
	"github.com/Proton-105/weathertime-bot/pkg/metrics"
)

const (
	DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"
	DefaultLang    = "ru"
	DefaultTimeout = 10 * time.Second
)

// Config configures the client.
type Config struct {
	BaseURL    string
	APIKey     string
	Lang       string
	Timeout    time.Duration
	MaxRetries int
	// BreakerMaxFailures consecutive transport failures open the breaker.
	BreakerMaxFailures uint32
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// Client fetches current weather reports.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	cfg     Config
	log     *slog.Logger
}

// NewClient builds a Client with its own resty client.
func NewClient(cfg Config, log *slog.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{}, log)
}

// NewClientWithHTTP builds a Client on top of an existing http.Client.
func NewClientWithHTTP(cfg Config, httpClient *http.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	log = log.With(slog.String("component", "weather"))

	rc := resty.NewWithClient(httpClient).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})

	maxFailures := cfg.BreakerMaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			kind, ok := KindOf(err)
			return err == nil || (ok && kind != KindTransport)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:    rc,
		breaker: breaker,
		cfg:     cfg,
		log:     log,
	}
}

// Lookup fetches the current weather for city. Failures are always *Error; fields
// absent from a well-formed response are listed in Report.Missing.
func (c *Client) Lookup(ctx context.Context, city string) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()

	var report *Report
	err := apperrors.WithRetry(ctx, c.cfg.MaxRetries, func() error {
		r, err := c.lookupOnce(ctx, city)
		if err != nil {
			return err
		}
		report = r
		return nil
	})

	outcome := "ok"
	if err != nil {
		outcome = string(KindTransport)
		if kind, ok := KindOf(err); ok {
			outcome = string(kind)
		}
	}
	metrics.RecordWeatherRequest(outcome, time.Since(start))

	if err != nil {
		c.log.Debug("weather lookup failed",
			slog.String("city", city),
			slog.String("outcome", outcome),
			slog.Any("error", err),
		)
		return nil, err
	}

	return report, nil
}

// HealthCheck fails while the circuit breaker is open.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return apperrors.NewExternalAPIError("openweathermap", gobreaker.ErrOpenState)
	}

	return nil
}

func (c *Client) lookupOnce(ctx context.Context, city string) (*Report, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{
				Kind: KindTransport,
				City: city,
				Err:  fmt.Errorf("weather provider unavailable: %w", err),
			}
		}
		return nil, err
	}

	report, ok := result.(*Report)
	if !ok {
		return nil, &Error{Kind: KindParse, City: city, Err: errors.New("unexpected result type from circuit breaker")}
	}

	return report, nil
}

func (c *Client) fetch(ctx context.Context, city string) (*Report, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"lang":  c.cfg.Lang,
			"appid": c.cfg.APIKey,
		}).
		Get(c.cfg.BaseURL)
	if err != nil {
		return nil, &Error{Kind: KindTransport, City: city, Err: stripURL(err)}
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, City: city, StatusCode: status}
	case status < 200 || status >= 300:
		return nil, &Error{
			Kind:       KindTransport,
			City:       city,
			StatusCode: status,
			Err:        fmt.Errorf("request failed with status code %d", status),
		}
	}

	return decodeReport(city, resp.Body())
}

func decodeReport(city string, body []byte) (*Report, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &Error{Kind: KindParse, City: city, Err: fmt.Errorf("decode weather response: %w", err)}
	}

	report := &Report{Name: p.Name}

	if len(p.Weather) > 0 {
		report.Description = p.Weather[0].Description
	} else {
		report.Missing = append(report.Missing, FieldConditions)
	}

	if p.Main != nil && p.Main.Temp != nil {
		report.Kelvin = *p.Main.Temp
	} else {
		report.Missing = append(report.Missing, FieldTemperature)
	}

	if p.Timezone != nil {
		report.TimezoneOffset = *p.Timezone
	} else {
		report.Missing = append(report.Missing, FieldTimezone)
	}

	return report, nil
}

// stripURL drops the request URL from transport errors since it carries the api key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}

	return err
}

type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}
