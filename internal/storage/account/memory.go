package account

import (
	"context"
	"sync"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
)

func NewInMemoryRepository() account.Repository {
	return &memoryRepo{
		byEmail: make(map[string]*account.Account),
	}
}

type memoryRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*account.Account
	ordered []*account.Account
	lastID  int64
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*account.Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.byEmail[email]
	if !ok {
		return nil, false, nil
	}

	copied := *value

	return &copied, true, nil
}

func (m *memoryRepo) Insert(_ context.Context, acc *account.Account) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[acc.Email]; exists {
		return 0, account.ErrEmailNotUnique
	}

	m.lastID++

	stored := *acc
	stored.ID = m.lastID

	m.byEmail[stored.Email] = &stored
	m.ordered = append(m.ordered, &stored)

	return stored.ID, nil
}

func (m *memoryRepo) ListAll(_ context.Context) ([]*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*account.Account, 0, len(m.ordered))
	for _, value := range m.ordered {
		copied := *value
		result = append(result, &copied)
	}

	return result, nil
}
