package wallet

import (
	"context"
	"sync"

	"github.com/keywarden-io/keywarden/internal/common"
	"github.com/keywarden-io/keywarden/internal/cryptox"
)

// InMemoryRepository keeps wallet records in a map. It is the default
// backend and is also used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[int64]*Record)}
}

func cloneEnvelope(env cryptox.Envelope) cryptox.Envelope {
	return cryptox.Envelope{
		Ciphertext: append([]byte(nil), env.Ciphertext...),
		Nonce:      append([]byte(nil), env.Nonce...),
		Tag:        append([]byte(nil), env.Tag...),
	}
}

// cloneRecord copies the record including envelope and salt bytes, so
// callers and the store never share backing arrays.
func cloneRecord(record *Record) *Record {
	copied := *record
	copied.PrivateKey = cloneEnvelope(record.PrivateKey)
	copied.Mnemonic = cloneEnvelope(record.Mnemonic)
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

func (r *InMemoryRepository) Create(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.UserID]; ok {
		return common.ErrAlreadyExists
	}
	r.records[record.UserID] = cloneRecord(record)

	return nil
}

func (r *InMemoryRepository) Replace(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.UserID]; !ok {
		return common.ErrNotFound
	}
	r.records[record.UserID] = cloneRecord(record)

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
