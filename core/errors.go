package core

import "github.com/pkg/errors"

// Kind classifies an application error so that the transport layer
// can map it to a response without knowing which entity produced it.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindBadInput
	KindConflict
	KindUpstream
)

type AppError struct {
	Kind Kind
	Msg  string
	Err  error // underlying collaborator error, if any; kept for logs only
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func NewError(kind Kind, msg string) error {
	return &AppError{Kind: kind, Msg: msg}
}

// KindOf reports the Kind of err, or 0 for errors that carry none.
func KindOf(err error) Kind {
	if appErr, ok := errors.Cause(err).(*AppError); ok {
		return appErr.Kind
	}
	return 0
}

// UpstreamError wraps a collaborator failure (store, processor, verifier)
// so that it surfaces as KindUpstream instead of crashing the request.
func UpstreamError(err error, msg string) error {
	return &AppError{Kind: KindUpstream, Msg: msg, Err: err}
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
