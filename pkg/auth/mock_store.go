package auth

import "sync"

// MockStore is an in-memory Store for tests
type MockStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	failOps  bool
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{accounts: make(map[string]*Account)}
}

// SetFailOps makes every operation fail, for fallback-chain tests
func (m *MockStore) SetFailOps(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOps = fail
}

func (m *MockStore) Store(account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOps {
		return ErrInvalidCredentials
	}
	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}
	copied := *account
	m.accounts[account.Name] = &copied
	return nil
}

func (m *MockStore) Retrieve(name string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failOps {
		return nil, ErrCredentialsNotFound
	}
	account, ok := m.accounts[name]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOps {
		return ErrCredentialsNotFound
	}
	if _, ok := m.accounts[name]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, name)
	return nil
}

func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failOps {
		return false
	}
	_, ok := m.accounts[name]
	return ok
}
