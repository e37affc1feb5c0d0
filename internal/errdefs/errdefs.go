// Package errdefs defines the small closed set of error kinds that flow from
// the synthesis pipeline to the transport boundary, where they are translated
// into status codes.
package errdefs

import (
	"errors"
	"net/http"
)

// Kind sentinels. Use errors.Is against these, or the Is* helpers.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrSynthesis       = errors.New("synthesis failed")
)

// Error carries a user-facing message together with its kind and an optional
// underlying cause.
type Error struct {
	kind error
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// InvalidArgument reports a request the caller has to correct.
func InvalidArgument(msg string) error {
	return &Error{kind: ErrInvalidArgument, msg: msg}
}

// NotFound reports a missing language or speaker.
func NotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

// Synthesis wraps an engine failure.
func Synthesis(err error) error {
	return &Error{kind: ErrSynthesis, err: err}
}

// IsInvalidArgument reports whether err is of kind InvalidArgument.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsNotFound reports whether err is of kind NotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsSynthesis reports whether err is of kind Synthesis.
func IsSynthesis(err error) bool { return errors.Is(err, ErrSynthesis) }

// HTTPStatus maps an error to its response status. Anything unclassified is
// an internal error.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsInvalidArgument(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	default:
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}
