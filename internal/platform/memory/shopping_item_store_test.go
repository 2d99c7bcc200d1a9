package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/platform/memory"
	"github.com/phrazzld/shopping-list-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock whose time can be moved between calls.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func mustCreate(t *testing.T, s *memory.ShoppingItemStore, userID uuid.UUID, name string) *domain.ShoppingItem {
	t.Helper()
	item, err := domain.NewShoppingItem(userID, name, 1, nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), item))
	return item
}

func TestShoppingItemStore_CreateAssignsIDsAndTimestamps(t *testing.T) {
	s := memory.NewShoppingItemStore()
	userID := uuid.New()

	first := mustCreate(t, s, userID, "Milk")
	second := mustCreate(t, s, userID, "Milk")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID, "duplicate names are allowed")
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
}

func TestShoppingItemStore_CreateRejectsInvalid(t *testing.T) {
	s := memory.NewShoppingItemStore()

	err := s.Create(context.Background(), &domain.ShoppingItem{UserID: uuid.New(), Name: "Milk"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrItemQuantityInvalid)
}

func TestShoppingItemStore_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	s := memory.NewShoppingItemStore()
	alice, bob := uuid.New(), uuid.New()

	item := mustCreate(t, s, alice, "Milk")
	mustCreate(t, s, bob, "Bread")

	_, err := s.GetByID(ctx, bob, item.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	assert.ErrorIs(t, s.SoftDelete(ctx, bob, item.ID), store.ErrShoppingItemNotFound)

	hijack := *item
	hijack.UserID = bob
	hijack.Name = "Stolen"
	assert.ErrorIs(t, s.Update(ctx, &hijack), store.ErrShoppingItemNotFound)

	items, err := s.ListAll(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestShoppingItemStore_SoftDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.NewShoppingItemStore()
	userID := uuid.New()

	keep := mustCreate(t, s, userID, "Milk")
	gone := mustCreate(t, s, userID, "Bread")

	require.NoError(t, s.SoftDelete(ctx, userID, gone.ID))
	assert.ErrorIs(t, s.SoftDelete(ctx, userID, gone.ID), store.ErrShoppingItemNotFound)

	_, err := s.GetByID(ctx, userID, gone.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	_, err = s.GetByName(ctx, userID, "Bread")
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	items, err := s.ListAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)

	found, err := s.Search(ctx, userID, "bread")
	require.NoError(t, err)
	assert.Empty(t, found)

	next := mustCreate(t, s, userID, "Eggs")
	assert.Equal(t, gone.ID+1, next.ID, "ids are never reused")
}

func TestShoppingItemStore_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	s := memory.NewShoppingItemStore()
	userID := uuid.New()

	mustCreate(t, s, userID, "Oat Milk")
	mustCreate(t, s, userID, "Bread")
	mustCreate(t, s, userID, "MILKSHAKE")
	mustCreate(t, s, userID, "50% cocoa")

	items, err := s.Search(ctx, userID, "milk")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Oat Milk", items[0].Name)
	assert.Equal(t, "MILKSHAKE", items[1].Name)

	items, err = s.Search(ctx, userID, "%")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "50% cocoa", items[0].Name)
}

func TestShoppingItemStore_FilterByDateRangeIsDayInclusive(t *testing.T) {
	ctx := context.Background()
	clock := &steppingClock{}
	s := memory.NewShoppingItemStoreWithClock(clock.Now)
	userID := uuid.New()

	clock.Set(time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC))
	mustCreate(t, s, userID, "before")
	clock.Set(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	mustCreate(t, s, userID, "first day")
	clock.Set(time.Date(2024, 1, 12, 23, 59, 59, 0, time.UTC))
	mustCreate(t, s, userID, "last day")
	clock.Set(time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC))
	mustCreate(t, s, userID, "after")

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	items, err := s.FilterByDateRange(ctx, userID, start, end)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first day", items[0].Name)
	assert.Equal(t, "last day", items[1].Name)

	items, err = s.FilterByDateRange(ctx, userID, end, start)
	require.NoError(t, err)
	assert.Empty(t, items, "inverted range is empty")
}

func TestShoppingItemStore_UpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	clock := &steppingClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	s := memory.NewShoppingItemStoreWithClock(clock.Now)
	userID := uuid.New()

	item := mustCreate(t, s, userID, "Milk")
	created := item.CreatedAt

	clock.Set(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))
	item.Quantity = 4
	require.NoError(t, s.Update(ctx, item))

	got, err := s.GetByID(ctx, userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), got.UpdatedAt)
	assert.Equal(t, got.UpdatedAt, item.UpdatedAt)
}

func TestShoppingItemStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewShoppingItemStore()
	userID := uuid.New()

	note := "semi-skimmed"
	item, err := domain.NewShoppingItem(userID, "Milk", 1, &note)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, item))

	got, err := s.GetByID(ctx, userID, item.ID)
	require.NoError(t, err)
	got.Name = "changed"
	*got.Note = "changed"

	again, err := s.GetByID(ctx, userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", again.Name)
	assert.Equal(t, "semi-skimmed", *again.Note)
}

func TestShoppingItemStore_ConcurrentCreates(t *testing.T) {
	s := memory.NewShoppingItemStore()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := domain.NewShoppingItem(userID, "Milk", 1, nil)
			if err == nil {
				_ = s.Create(context.Background(), item)
			}
		}()
	}
	wg.Wait()

	items, err := s.ListAll(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 50)
	for i, item := range items {
		assert.Equal(t, int64(i+1), item.ID)
	}
}
