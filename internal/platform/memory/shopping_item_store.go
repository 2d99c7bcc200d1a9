package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// ShoppingItemStore is an in-memory store.ShoppingItemStore.
// Deleted items are kept with IsDeleted set, as in the SQL store.
type ShoppingItemStore struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextID int64
	items  map[int64]domain.ShoppingItem
}

// NewShoppingItemStore creates an empty store using the wall clock.
func NewShoppingItemStore() *ShoppingItemStore {
	return NewShoppingItemStoreWithClock(time.Now)
}

// NewShoppingItemStoreWithClock creates an empty store that timestamps items
// with now. Tests use it to place items on specific days.
func NewShoppingItemStoreWithClock(now func() time.Time) *ShoppingItemStore {
	return &ShoppingItemStore{
		now:   now,
		items: make(map[int64]domain.ShoppingItem),
	}
}

var _ store.ShoppingItemStore = (*ShoppingItemStore)(nil)

// Create implements store.ShoppingItemStore.Create.
func (s *ShoppingItemStore) Create(ctx context.Context, item *domain.ShoppingItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now().UTC()

	item.ID = s.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	item.IsDeleted = false

	s.items[item.ID] = cloneItem(*item)
	return nil
}

// GetByID implements store.ShoppingItemStore.GetByID.
func (s *ShoppingItemStore) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.ShoppingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.visible(userID, id)
	if !ok {
		return nil, store.ErrShoppingItemNotFound
	}
	c := cloneItem(item)
	return &c, nil
}

// GetByName implements store.ShoppingItemStore.GetByName.
func (s *ShoppingItemStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.ShoppingItem, error) {
	items := s.filter(userID, func(i domain.ShoppingItem) bool { return i.Name == name })
	if len(items) == 0 {
		return nil, store.ErrShoppingItemNotFound
	}
	return items[0], nil
}

// ListAll implements store.ShoppingItemStore.ListAll.
func (s *ShoppingItemStore) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.ShoppingItem, error) {
	return s.filter(userID, func(domain.ShoppingItem) bool { return true }), nil
}

// Search implements store.ShoppingItemStore.Search.
func (s *ShoppingItemStore) Search(ctx context.Context, userID uuid.UUID, term string) ([]*domain.ShoppingItem, error) {
	needle := strings.ToLower(term)
	return s.filter(userID, func(i domain.ShoppingItem) bool {
		return strings.Contains(strings.ToLower(i.Name), needle)
	}), nil
}

// FilterByDateRange implements store.ShoppingItemStore.FilterByDateRange.
func (s *ShoppingItemStore) FilterByDateRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.ShoppingItem, error) {
	from, to := store.DateRangeBounds(start, end)
	return s.filter(userID, func(i domain.ShoppingItem) bool {
		return !i.CreatedAt.Before(from) && i.CreatedAt.Before(to)
	}), nil
}

// Update implements store.ShoppingItemStore.Update.
func (s *ShoppingItemStore) Update(ctx context.Context, item *domain.ShoppingItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.visible(item.UserID, item.ID)
	if !ok {
		return store.ErrShoppingItemNotFound
	}

	stored.Name = item.Name
	stored.Quantity = item.Quantity
	stored.Note = item.Note
	stored.UpdatedAt = s.now().UTC()
	s.items[stored.ID] = cloneItem(stored)

	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = stored.UpdatedAt
	return nil
}

// SoftDelete implements store.ShoppingItemStore.SoftDelete.
func (s *ShoppingItemStore) SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.visible(userID, id)
	if !ok {
		return store.ErrShoppingItemNotFound
	}

	stored.IsDeleted = true
	stored.UpdatedAt = s.now().UTC()
	s.items[id] = stored
	return nil
}

// WithTx returns the store itself; the in-memory store has no transactions.
func (s *ShoppingItemStore) WithTx(tx *sql.Tx) store.ShoppingItemStore {
	return s
}

// visible must be called with s.mu held.
func (s *ShoppingItemStore) visible(userID uuid.UUID, id int64) (domain.ShoppingItem, bool) {
	item, ok := s.items[id]
	if !ok || item.IsDeleted || item.UserID != userID {
		return domain.ShoppingItem{}, false
	}
	return item, true
}

func (s *ShoppingItemStore) filter(userID uuid.UUID, keep func(domain.ShoppingItem) bool) []*domain.ShoppingItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ShoppingItem, 0)
	for _, item := range s.items {
		if item.IsDeleted || item.UserID != userID || !keep(item) {
			continue
		}
		c := cloneItem(item)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneItem(item domain.ShoppingItem) domain.ShoppingItem {
	if item.Note != nil {
		note := *item.Note
		item.Note = &note
	}
	return item
}
