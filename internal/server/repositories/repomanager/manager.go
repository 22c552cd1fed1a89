// Package repomanager vends repositories bound to one storage backend and
// runs units of work across them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository

	// InTx runs fn with a manager whose repositories share one transaction.
	// The transaction commits when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error

	RunMigrations(ctx context.Context) error
	Close() error
}
