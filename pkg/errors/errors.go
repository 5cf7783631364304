// Package errors defines the coded errors shared by the planner, the CLI and
// the HTTP service.
//
// Every failure a caller can act on carries a [Code]. The planning codes are
// terminal; retrying the same request gives the same answer:
//
//   - INVALID_ARTIFACT: the artwork has non-positive native dimensions
//   - INVALID_SHEET_SPEC: the sheet has no usable area
//   - ARTIFACT_TOO_LARGE: one copy does not fit the usable area
//   - QUANTITY_EXCEEDS_LIMIT: the order needs more sheets than allowed
//
// Errors can carry structured details that the HTTP service returns next to
// the message:
//
//	return errors.New(errors.ErrCodeQuantityExceedsLimit, "%d copies need %d sheets", q, n).
//	    With("max_quantity", max)
//
//	if errors.Is(err, errors.ErrCodeQuantityExceedsLimit) {
//	    max := errors.DetailsOf(err)["max_quantity"]
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	// Planning
	ErrCodeInvalidArtifact      Code = "INVALID_ARTIFACT"
	ErrCodeInvalidSheetSpec     Code = "INVALID_SHEET_SPEC"
	ErrCodeArtifactTooLarge     Code = "ARTIFACT_TOO_LARGE"
	ErrCodeQuantityExceedsLimit Code = "QUANTITY_EXCEEDS_LIMIT"

	// Request input
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPreset Code = "INVALID_PRESET"

	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// statusByCode maps codes to HTTP responses. Unlisted codes are 500s.
var statusByCode = map[Code]int{
	ErrCodeInvalidArtifact:      http.StatusBadRequest,
	ErrCodeInvalidSheetSpec:     http.StatusBadRequest,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeInvalidFormat:        http.StatusBadRequest,
	ErrCodeInvalidPreset:        http.StatusBadRequest,
	ErrCodeArtifactTooLarge:     http.StatusUnprocessableEntity,
	ErrCodeQuantityExceedsLimit: http.StatusUnprocessableEntity,
	ErrCodeUnsupported:          http.StatusUnsupportedMediaType,
}

// Error is a coded error with an optional cause and details.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// With sets a detail and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Errors without a
// code are returned as-is.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// DetailsOf merges the details of every coded error in err's chain. Outer
// errors win on conflicting keys. The result is nil when there are none.
func DetailsOf(err error) map[string]any {
	var out map[string]any
	for err != nil {
		if e, ok := err.(*Error); ok && len(e.Details) > 0 {
			if out == nil {
				out = make(map[string]any, len(e.Details))
			}
			for k, v := range e.Details {
				if _, set := out[k]; !set {
					out[k] = v
				}
			}
		}
		err = errors.Unwrap(err)
	}
	return out
}

// HTTPStatus is the status code the HTTP service answers err with.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
