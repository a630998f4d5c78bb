package weather

import (
	"errors"
	"fmt"
)

// Kind classifies a failed lookup.
type Kind string

const (
	// KindNotFound means the provider does not know the city.
	KindNotFound Kind = "not_found"
	// KindTransport covers network failures, timeouts, unexpected statuses and an open breaker.
	KindTransport Kind = "transport"
	// KindParse means the provider answered with an unusable payload.
	KindParse Kind = "parse"
)

// Error is returned by every failed Lookup.
type Error struct {
	Kind       Kind
	City       string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	switch {
	case e.Kind == KindNotFound:
		return fmt.Sprintf("city %q not found", e.City)
	case e.Err != nil:
		return e.Err.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Retryable reports whether repeating the request may succeed.
func (e *Error) Retryable() bool {
	return e != nil && e.Kind == KindTransport
}

// KindOf extracts the Kind of err. The boolean is false when err is not a lookup error.
func KindOf(err error) (Kind, bool) {
	var werr *Error
	if errors.As(err, &werr) && werr != nil {
		return werr.Kind, true
	}

	return "", false
}

// IsNotFound reports whether err means the city is unknown.
func IsNotFound(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindNotFound
}
