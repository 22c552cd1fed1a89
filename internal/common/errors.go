// Package common defines the error taxonomy, shared constants and small
// helpers used by both the server and the client. Callers should match
// sentinel values with errors.Is and kinds with KindOf.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Auth errors.
	ErrNotConfirmed        = errors.New("user not confirmed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Validation errors, raised before any I/O.
	ErrValidation          = errors.New("validation error")
	ErrMissingDocumentType = errors.New("missing document type")
	ErrNoFileProvided      = errors.New("no file provided")

	// Content store errors.
	ErrCredentialsUnavailable = errors.New("credentials unavailable")
	ErrUploadFailed           = errors.New("upload failed")

	// Transport and local persistence errors.
	ErrTransport        = errors.New("transport error")
	ErrLocalPersistence = errors.New("local persistence error")

	ErrInternal = errors.New("internal error")
)
