package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/nkitsi/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the server when no database is configured.
// Units of work are serialized; a failing unit is not rolled back.
type InMemoryRepositoryManager struct {
	mu            *sync.Mutex
	users         *users.InMemoryRepository
	refreshTokens *refreshtokens.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		mu:            &sync.Mutex{},
		users:         users.NewInMemoryRepository(),
		refreshTokens: refreshtokens.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m)
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Close() error { return nil }
