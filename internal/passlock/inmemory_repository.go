package passlock

import (
	"context"
	"sync"

	"github.com/keywarden-io/keywarden/internal/common"
)

// InMemoryRepository keeps passphrase records in a map. It is the default
// backend and is also used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[int64]*Record)}
}

// cloneRecord copies the record including its byte slices, so callers and
// the store never share backing arrays.
func cloneRecord(record *Record) *Record {
	copied := *record
	copied.Hash = append([]byte(nil), record.Hash...)
	copied.Salt = append([]byte(nil), record.Salt...)
	return &copied
}

func (r *InMemoryRepository) Get(ctx context.Context, userID int64) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[userID]
	if !ok {
		return nil, common.ErrNotFound
	}

	return cloneRecord(record), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := cloneRecord(record)
	if prev, ok := r.records[record.UserID]; ok {
		copied.CreatedAt = prev.CreatedAt
	}
	r.records[record.UserID] = copied

	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[userID]; !ok {
		return common.ErrNotFound
	}
	delete(r.records, userID)

	return nil
}
