package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/server/models"
)

// InMemoryRepository keeps users in a map for the lifetime of the process.
// It is safe for concurrent use. Records are copied in and out so callers
// never share memory with the store.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*models.User)}
}

func (r *InMemoryRepository) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byEmail[u.Email] = clone(u)
	return u, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(u), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byEmail {
		if u.ID == id {
			return clone(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) SetConfirmed(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return common.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (r *InMemoryRepository) UpdatePassword(_ context.Context, id string, hash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byEmail {
		if u.ID == id {
			u.PasswordHash = append([]byte(nil), hash...)
			return nil
		}
	}
	return common.ErrNotFound
}

func clone(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}
