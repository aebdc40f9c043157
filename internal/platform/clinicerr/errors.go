package clinicerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Kind classifies an error into the response categories the API exposes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error is the error type every service-layer failure is expressed as.
// Detail carries optional structured data returned alongside the message
// (e.g. the existing conversation id on a duplicate-conversation conflict).
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]interface{}
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func Authorizationf(format string, args ...interface{}) *Error {
	return newf(KindAuthorization, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// Internalf wraps an unexpected failure. The wrapped error is logged but never
// serialized into the response body.
func Internalf(err error, format string, args ...interface{}) *Error {
	e := newf(KindInternal, format, args...)
	e.err = err
	return e
}

// WithDetail attaches a structured field to the error's response body.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Detail == nil {
		e.Detail = map[string]interface{}{}
	}
	e.Detail[key] = value
	return e
}

// KindOf extracts the Kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// FromPG translates a repository read error: pgx.ErrNoRows becomes a
// not-found error with the given message, anything else is internal.
func FromPG(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFoundf("%s", notFoundMsg)
	}
	return Internalf(err, "database error")
}
