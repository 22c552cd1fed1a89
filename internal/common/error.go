package common

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure by the layer that produced it.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAuth             Kind = "auth"
	KindTransport        Kind = "transport"
	KindStorage          Kind = "storage"
	KindLocalPersistence Kind = "local_persistence"
	KindInternal         Kind = "internal"
)

// Error is the structured failure passed between layers.
//
// Message is the human readable primary text; Detail optionally carries the
// low-level cause (an SDK or driver message) and never replaces Message.
// Code is a stable machine name such as "CredentialsUnavailable".
type Error struct {
	Kind    Kind
	Err     error
	Message string
	Detail  string
	Code    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error whose Code is derived from the sentinel.
func NewError(kind Kind, sentinel error, message string) *Error {
	return &Error{Kind: kind, Err: sentinel, Message: message, Code: CodeOf(sentinel)}
}

// WithDetail returns a copy of e carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	c := *e
	c.Detail = detail
	return &c
}

// KindOf reports the kind of err. Unstructured errors are KindInternal,
// context cancellation and deadlines are KindTransport.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	return KindInternal
}

// MessageOf returns the primary human readable message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// DetailOf returns the detail attached to err, if any.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

var codes = map[error]string{
	ErrNotFound:               "NotFound",
	ErrAlreadyExists:          "AlreadyExists",
	ErrNotConfirmed:           "NotConfirmed",
	ErrInvalidCredentials:     "InvalidCredentials",
	ErrUnauthenticated:        "Unauthenticated",
	ErrInvalidToken:           "Unauthenticated",
	ErrTokenExpired:           "TokenExpired",
	ErrRefreshTokenExpired:    "RefreshTokenExpired",
	ErrValidation:             "ValidationError",
	ErrMissingDocumentType:    "MissingDocumentType",
	ErrNoFileProvided:         "NoFileProvided",
	ErrCredentialsUnavailable: "CredentialsUnavailable",
	ErrUploadFailed:           "UploadFailed",
	ErrTransport:              "TransportError",
	ErrLocalPersistence:       "LocalPersistenceError",
	ErrInternal:               "InternalError",
}

// CodeOf maps a sentinel (or an error wrapping one) to its wire code.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "InternalError"
}

// SentinelOf is the inverse of CodeOf. Unknown codes map to ErrInternal.
func SentinelOf(code string) error {
	switch code {
	case "Unauthenticated":
		return ErrUnauthenticated
	}
	for sentinel, c := range codes {
		if c == code {
			return sentinel
		}
	}
	return ErrInternal
}
