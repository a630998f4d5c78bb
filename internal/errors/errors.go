package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Catalog keys used as AppError.UserMessage.
const (
	MsgInternal    = "errors.internal"
	MsgRateLimited = "errors.rate_limited"
	MsgUnavailable = "errors.unavailable"
)

// AppError is an error enriched with a code, a severity and the catalog key of the
// message shown to the user.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewExternalAPIError marks a failure of an upstream service, such as a message that
// could not be delivered through the Telegram API.
func NewExternalAPIError(apiName string, cause error) *AppError {
	message := fmt.Sprintf("External API error: %s", apiName)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	return &AppError{
		Code:        "E300",
		Message:     message,
		UserMessage: MsgUnavailable,
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewStateError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E400",
		Message:     fmt.Sprintf("Session error: %s", underlyingMsg),
		UserMessage: MsgInternal,
		Severity:    SeverityMedium,
		cause:       cause,
	}
}

func NewRateLimitError(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("Rate limit exceeded: retry after %d seconds", retryAfterSeconds),
		UserMessage: MsgRateLimited,
		Severity:    SeverityLow,
	}
}

// NewInternalError wraps unexpected failures such as recovered panics.
func NewInternalError(msg string, cause error) *AppError {
	return &AppError{
		Code:        "E600",
		Message:     msg,
		UserMessage: MsgInternal,
		Severity:    SeverityCritical,
		cause:       cause,
	}
}
