// Package documents keeps the newest-first list of uploaded documents in the
// local key-value store.
package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nkitsi/internal/client/models"
	"github.com/dmitrijs2005/nkitsi/internal/client/repositories/kv"
	"github.com/dmitrijs2005/nkitsi/internal/common"
	"github.com/dmitrijs2005/nkitsi/internal/dbx"
	"github.com/dmitrijs2005/nkitsi/internal/logging"
)

// StorageKey is the kv key holding the JSON array of records.
const StorageKey = common.DocumentsStorageKey

// Store is safe for concurrent use. Writers are serialized and each write
// replaces the whole list inside one transaction.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("module", "documents")}
}

func errPersistence(msg string, err error) error {
	return common.NewError(common.KindLocalPersistence, common.ErrLocalPersistence, msg).WithDetail(err.Error())
}

// Load returns the records newest-first. Missing, empty or corrupt data reads
// as an empty list.
func (s *Store) Load(ctx context.Context) []models.DocumentRecord {
	list, err := s.read(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		s.logger.Warn(ctx, "failed to load saved documents", "error", err)
		return []models.DocumentRecord{}
	}
	return list
}

func (s *Store) read(ctx context.Context, repo kv.Repository) ([]models.DocumentRecord, error) {
	raw, err := repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.DocumentRecord{}, nil
	}

	var list []models.DocumentRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("corrupt document list: %w", err)
	}
	if list == nil {
		list = []models.DocumentRecord{}
	}
	return list, nil
}

// readTolerant is read for writers: corrupt data is discarded, but a failing
// database is still an error.
func (s *Store) readTolerant(ctx context.Context, repo kv.Repository) ([]models.DocumentRecord, error) {
	raw, err := repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	var list []models.DocumentRecord
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &list); err != nil {
			s.logger.Warn(ctx, "discarding corrupt document list", "error", err)
			list = nil
		}
	}
	return list, nil
}

func (s *Store) write(ctx context.Context, repo kv.Repository, list []models.DocumentRecord) error {
	if list == nil {
		list = []models.DocumentRecord{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return repo.Set(ctx, StorageKey, raw)
}

// update runs fn over the current list and writes back its result, all in one
// transaction and under the writer lock.
func (s *Store) update(ctx context.Context, fn func([]models.DocumentRecord) ([]models.DocumentRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)

		list, err := s.readTolerant(ctx, repo)
		if err != nil {
			return err
		}
		list, err = fn(list)
		if err != nil {
			return err
		}
		return s.write(ctx, repo, list)
	})
}

// Append prepends rec. When rec.ID is already taken it is moved to one past
// the largest stored ID; rec is updated in place.
func (s *Store) Append(ctx context.Context, rec *models.DocumentRecord) error {
	err := s.update(ctx, func(list []models.DocumentRecord) ([]models.DocumentRecord, error) {
		var maxID int64
		taken := false
		for _, d := range list {
			if d.ID == rec.ID {
				taken = true
			}
			if d.ID > maxID {
				maxID = d.ID
			}
		}
		if taken {
			rec.ID = maxID + 1
		}

		out := make([]models.DocumentRecord, 0, len(list)+1)
		out = append(out, *rec)
		return append(out, list...), nil
	})
	if err != nil {
		return errPersistence("Could not save document locally", err)
	}
	return nil
}

// Remove deletes the record with id. common.ErrNotFound is returned when
// there is none.
func (s *Store) Remove(ctx context.Context, id int64) error {
	err := s.update(ctx, func(list []models.DocumentRecord) ([]models.DocumentRecord, error) {
		for i, d := range list {
			if d.ID == id {
				return append(list[:i:i], list[i+1:]...), nil
			}
		}
		return nil, common.ErrNotFound
	})
	if errors.Is(err, common.ErrNotFound) {
		return common.NewError(common.KindValidation, common.ErrNotFound, fmt.Sprintf("No document with id %d", id))
	}
	if err != nil {
		return errPersistence("Could not remove document", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := kv.NewSQLiteRepository(s.db).Delete(ctx, StorageKey); err != nil {
		return errPersistence("Could not clear documents", err)
	}
	return nil
}
