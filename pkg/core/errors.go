package core

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers (CLI exit paths, HTTP status mapping).
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindIO         Kind = "io"
	KindMigration  Kind = "migration"
	KindInternal   Kind = "internal"
)

// Sentinels matched with errors.Is against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("i/o failure")
	ErrMigration  = errors.New("migration failed")
)

// Error is the structured error returned by service operations.
type Error struct {
	Kind    Kind           `json:"kind"`
	Op      string         `json:"op,omitempty"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrIO:
		return e.Kind == KindIO
	case ErrMigration:
		return e.Kind == KindMigration
	}
	return false
}

// WithContext attaches a context field and returns the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ValidationError rejects a mutation before anything is written.
func ValidationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing edit/delete target.
func NotFoundError(op, what, key string) *Error {
	return (&Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf("%s %q not found", what, key)}).
		WithContext(what, key)
}

// IOError wraps a filesystem failure.
func IOError(op string, cause error) *Error {
	return &Error{Kind: KindIO, Op: op, Message: "i/o failure", Cause: cause}
}

// MigrationError aborts a category deletion whose document migration is not well-formed.
func MigrationError(op, format string, args ...any) *Error {
	return &Error{Kind: KindMigration, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
