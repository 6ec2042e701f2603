package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

var markers = []error{
	ErrExternalTool,
	ErrValidation,
	ErrConfiguration,
	ErrNotFound,
	ErrTimeout,
	ErrTransient,
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return &wrappedError{marker: marker, detail: detail, message: strings.TrimSpace(message), cause: err}
	}
	return &wrappedError{marker: marker, detail: detail, message: strings.TrimSpace(message)}
}

// ErrorDetails summarizes a wrapped error for user-facing surfaces.
type ErrorDetails struct {
	Kind    string
	Message string
	Cause   string
}

// Details extracts the marker kind and human message from err. Errors that were
// not produced by Wrap report the transient kind and their own text.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var wrapped *wrappedError
	if errors.As(err, &wrapped) {
		details := ErrorDetails{Kind: kindOf(wrapped.marker), Message: wrapped.message}
		if details.Message == "" {
			details.Message = wrapped.detail
		}
		if wrapped.cause != nil {
			details.Cause = strings.TrimSpace(wrapped.cause.Error())
		}
		return details
	}
	return ErrorDetails{Kind: kindOf(ErrTransient), Message: strings.TrimSpace(err.Error())}
}

type wrappedError struct {
	marker  error
	detail  string
	message string
	cause   error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.marker, e.detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.marker, e.detail)
}

func (e *wrappedError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

func kindOf(marker error) string {
	for _, known := range markers {
		if errors.Is(marker, known) {
			return strings.ReplaceAll(known.Error(), " ", "_")
		}
	}
	return "transient_failure"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
