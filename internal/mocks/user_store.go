package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function overrides it behaves like a tiny in-memory registry.
type MockUserStore struct {
	CreateFn               func(ctx context.Context, user *domain.User) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameFn        func(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmailFn func(ctx context.Context, identifier string) (*domain.User, error)

	// CreateError, when set, is returned by the default Create.
	CreateError error

	mu    sync.Mutex
	users []*domain.User

	// WithTxCalls counts how often WithTx was called
	WithTxCalls int
}

// NewMockUserStore creates a mock store seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	return &MockUserStore{users: users}
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}
	m.users = append(m.users, user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByUsername implements store.UserStore.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

// GetByUsernameOrEmail implements store.UserStore.
func (m *MockUserStore) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	if m.GetByUsernameOrEmailFn != nil {
		return m.GetByUsernameOrEmailFn(ctx, identifier)
	}
	if u, err := m.GetByUsername(ctx, identifier); err == nil {
		return u, nil
	}
	return m.GetByEmail(ctx, identifier)
}

// WithTx implements store.UserStore and returns the same mock.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}

func (m *MockUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
