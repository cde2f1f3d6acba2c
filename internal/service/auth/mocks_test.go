package auth

import (
	"sync"

	"github.com/heartmarshall/figstore/internal/auth"
	"github.com/heartmarshall/figstore/internal/domain"
)

// userDirectoryMock implements userDirectory over a fixed set of users.
type userDirectoryMock struct {
	byUsername map[string]*domain.User
	byID       map[int64]*domain.User
}

func newUserDirectoryMock(users ...*domain.User) *userDirectoryMock {
	m := &userDirectoryMock{
		byUsername: make(map[string]*domain.User),
		byID:       make(map[int64]*domain.User),
	}
	for _, u := range users {
		m.byUsername[u.Username] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *userDirectoryMock) FindByUsername(username string) (*domain.User, bool) {
	u, ok := m.byUsername[username]
	return u, ok
}

func (m *userDirectoryMock) FindByID(id int64) (*domain.User, bool) {
	u, ok := m.byID[id]
	return u, ok
}

// tokenManagerMock implements tokenManager with pluggable behaviour.
type tokenManagerMock struct {
	GenerateFunc func(user *domain.User) (string, error)
	ValidateFunc func(token string) (*auth.Claims, error)

	mu    sync.Mutex
	calls struct {
		Generate []*domain.User
		Validate []string
	}
}

func (m *tokenManagerMock) Generate(user *domain.User) (string, error) {
	m.mu.Lock()
	m.calls.Generate = append(m.calls.Generate, user)
	m.mu.Unlock()
	return m.GenerateFunc(user)
}

func (m *tokenManagerMock) Validate(token string) (*auth.Claims, error) {
	m.mu.Lock()
	m.calls.Validate = append(m.calls.Validate, token)
	m.mu.Unlock()
	return m.ValidateFunc(token)
}

func (m *tokenManagerMock) GenerateCalls() []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Generate
}
