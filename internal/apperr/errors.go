// Package apperr defines the error taxonomy shared by the idea pipeline.
package apperr

import (
	"fmt"
)

// Kind identifies the category of a pipeline failure.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindAiUnavailable      Kind = "AI_UNAVAILABLE"
	KindAiParse            Kind = "AI_PARSE_ERROR"
	KindResponseValidation Kind = "RESPONSE_VALIDATION_ERROR"
)

// AppError is the error type returned by all pipeline operations.
// Detail carries the raw model text (parse failures) or the decoded
// value (shape failures) for operator diagnostics.
type AppError struct {
	Kind    Kind
	Message string
	Detail  any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates a caller-input validation error
func NewValidation(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFound creates a not found error
func NewNotFound(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewAiUnavailable reports a gateway call that failed or returned no
// interpretable response shape.
func NewAiUnavailable(message string, err error) error {
	return &AppError{Kind: KindAiUnavailable, Message: message, Err: err}
}

// NewAiParse reports model text that could not be decoded as JSON.
// raw is the original model output, before sanitization.
func NewAiParse(message, raw string, err error) error {
	return &AppError{Kind: KindAiParse, Message: message, Detail: raw, Err: err}
}

// NewResponseValidation reports decoded JSON that fails the artifact's
// shape contract. decoded is the parsed-but-invalid value.
func NewResponseValidation(message string, decoded any) error {
	return &AppError{Kind: KindResponseValidation, Message: message, Detail: decoded}
}

// KindOf returns the failure kind, or "" for nil and foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind
	}
	return ""
}

// IsValidation checks if an error is a caller-input validation error
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsAiUnavailable checks if an error is a gateway failure
func IsAiUnavailable(err error) bool { return KindOf(err) == KindAiUnavailable }

// IsAiParse checks if an error is a model-output decode failure
func IsAiParse(err error) bool { return KindOf(err) == KindAiParse }

// IsResponseValidation checks if an error is an artifact shape failure
func IsResponseValidation(err error) bool { return KindOf(err) == KindResponseValidation }
