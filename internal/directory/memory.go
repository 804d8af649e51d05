package directory

import (
	"context"
	"sync"
)

// MemoryStore keeps the directory in process memory. It is meant for local
// development and tests; config validation rejects it in production.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, companyID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accountID, ok := m.accounts[companyID]
	if !ok {
		return "", ErrNotFound
	}
	return accountID, nil
}

func (m *MemoryStore) Set(ctx context.Context, companyID, accountID string) error {
	if err := validate(companyID, accountID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[companyID] = accountID
	return nil
}

func (m *MemoryStore) SetIfAbsent(ctx context.Context, companyID, accountID string) (string, bool, error) {
	if err := validate(companyID, accountID); err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.accounts[companyID]; ok {
		return existing, false, nil
	}
	m.accounts[companyID] = accountID
	return accountID, true, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

func (m *MemoryStore) Close() error {
	return nil
}
