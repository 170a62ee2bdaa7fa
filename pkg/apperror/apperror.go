package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the delivery layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindDomain       Kind = "domain"
	KindInternal     Kind = "internal"
)

// Error is an application error carrying a kind, a client-safe message and,
// for validation failures, per-field messages.
type Error struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind and message so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Domain(message string) *Error {
	return &Error{Kind: KindDomain, Message: message}
}

// Internal hides cause behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: cause}
}

// KindOf reports the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
