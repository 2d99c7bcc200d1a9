package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu         sync.RWMutex
	bcryptCost int
	users      map[uuid.UUID]domain.User
}

// NewUserStore creates an empty store hashing passwords with the given bcrypt cost.
func NewUserStore(bcryptCost int) *UserStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{
		bcryptCost: bcryptCost,
		users:      make(map[uuid.UUID]domain.User),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if user.Password == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	if _, exists := s.users[user.ID]; exists {
		return store.ErrDuplicate
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	user.HashedPassword = string(hash)
	user.Password = ""

	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

// GetByUsernameOrEmail implements store.UserStore.GetByUsernameOrEmail.
func (s *UserStore) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	if user, err := s.GetByUsername(ctx, identifier); err == nil {
		return user, nil
	}
	return s.GetByEmail(ctx, identifier)
}

// WithTx returns the store itself; the in-memory store has no transactions.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

func (s *UserStore) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if match(user) {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
