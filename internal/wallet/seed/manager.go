package seed

import (
	"sync"

	"github.com/pkg/errors"
)

// manager implements secret management with thread-safe access
type manager struct {
	secret      []byte
	mu          sync.RWMutex
	initialized bool
}

// NewManager creates a new secret Manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{}
}

func (m *manager) Initialize(secret string) error {
	if secret == "" {
		return errors.New("secret must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.wipe()
	m.secret = []byte(secret)
	m.initialized = true

	return nil
}

func (m *manager) Secret() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return "", false
	}
	return string(m.secret), true
}

func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wipe()
	m.initialized = false
}

func (m *manager) wipe() {
	for i := range m.secret {
		m.secret[i] = 0
	}
	m.secret = nil
}
