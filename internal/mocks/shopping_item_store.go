package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// MockShoppingItemStore implements store.ShoppingItemStore for testing.
// Lookups default to store.ErrShoppingItemNotFound, lists to an empty slice
// and writes to success.
type MockShoppingItemStore struct {
	CreateFn            func(ctx context.Context, item *domain.ShoppingItem) error
	GetByIDFn           func(ctx context.Context, userID uuid.UUID, id int64) (*domain.ShoppingItem, error)
	GetByNameFn         func(ctx context.Context, userID uuid.UUID, name string) (*domain.ShoppingItem, error)
	ListAllFn           func(ctx context.Context, userID uuid.UUID) ([]*domain.ShoppingItem, error)
	SearchFn            func(ctx context.Context, userID uuid.UUID, term string) ([]*domain.ShoppingItem, error)
	FilterByDateRangeFn func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.ShoppingItem, error)
	UpdateFn            func(ctx context.Context, item *domain.ShoppingItem) error
	SoftDeleteFn        func(ctx context.Context, userID uuid.UUID, id int64) error
}

var _ store.ShoppingItemStore = (*MockShoppingItemStore)(nil)

// Create implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) Create(ctx context.Context, item *domain.ShoppingItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	return nil
}

// GetByID implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.ShoppingItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}
	return nil, store.ErrShoppingItemNotFound
}

// GetByName implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.ShoppingItem, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, userID, name)
	}
	return nil, store.ErrShoppingItemNotFound
}

// ListAll implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.ShoppingItem, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, userID)
	}
	return []*domain.ShoppingItem{}, nil
}

// Search implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) Search(
	ctx context.Context,
	userID uuid.UUID,
	term string,
) ([]*domain.ShoppingItem, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, userID, term)
	}
	return []*domain.ShoppingItem{}, nil
}

// FilterByDateRange implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) FilterByDateRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.ShoppingItem, error) {
	if m.FilterByDateRangeFn != nil {
		return m.FilterByDateRangeFn(ctx, userID, start, end)
	}
	return []*domain.ShoppingItem{}, nil
}

// Update implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) Update(ctx context.Context, item *domain.ShoppingItem) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}
	return nil
}

// SoftDelete implements store.ShoppingItemStore.
func (m *MockShoppingItemStore) SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, userID, id)
	}
	return nil
}

// WithTx returns the same mock.
func (m *MockShoppingItemStore) WithTx(tx *sql.Tx) store.ShoppingItemStore {
	return m
}
