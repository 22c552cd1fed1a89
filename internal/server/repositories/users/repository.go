// Package users declares the credential store contract and its backends.
package users

import (
	"context"

	"github.com/dmitrijs2005/nkitsi/internal/server/models"
)

// Repository stores user records keyed by e-mail. Callers pass e-mails
// already normalized (trimmed, lower-cased).
type Repository interface {
	// Create inserts u. It returns common.ErrAlreadyExists when the e-mail is taken.
	Create(ctx context.Context, u *models.User) (*models.User, error)

	// GetByEmail returns common.ErrNotFound when no user has that e-mail.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns common.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetConfirmed marks the account confirmed.
	SetConfirmed(ctx context.Context, email string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}
