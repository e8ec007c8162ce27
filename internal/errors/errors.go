package errors

import (
	"errors"

	"github.com/louisbranch/airlock/internal/errors/i18n"
	platform "github.com/louisbranch/airlock/internal/platform/errors"
)

// DefaultLocale is the default locale for rendered error messages.
const DefaultLocale = "en-US"

// New creates a domain error with a code and message.
func New(code Code, message string) *platform.Error {
	return platform.New(code, message)
}

// WithMetadata creates a domain error carrying metadata for templating.
func WithMetadata(code Code, message string, metadata map[string]string) *platform.Error {
	return platform.WithMetadata(code, message, metadata)
}

// Wrap creates a domain error wrapping an underlying cause.
func Wrap(code Code, message string, cause error) *platform.Error {
	return platform.Wrap(code, message, cause)
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *platform.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
// Returns nil if the error is not a domain error or has no metadata.
func GetMetadata(err error) map[string]string {
	var e *platform.Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

// Render formats the user-facing message for an error using the catalog for
// the given locale, defaulting to en-US. Non-domain errors render as a
// generic internal message so internals never leak to players.
func Render(err error, locale string) string {
	if err == nil {
		return ""
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var e *platform.Error
	if errors.As(err, &e) {
		catalog := i18n.GetCatalog(locale)
		return catalog.Format(string(e.Code), e.Metadata)
	}
	return "an unexpected error occurred"
}
