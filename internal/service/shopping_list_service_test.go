package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/mocks"
	"github.com/phrazzld/shopping-list-api/internal/platform/memory"
	"github.com/phrazzld/shopping-list-api/internal/service"
	"github.com/phrazzld/shopping-list-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newShoppingListService(t *testing.T) (service.ShoppingListService, *memory.ShoppingItemStore) {
	t.Helper()
	items := memory.NewShoppingItemStore()
	svc, err := service.NewShoppingListService(items, nil)
	require.NoError(t, err)
	return svc, items
}

func TestShoppingListService_CreateItem(t *testing.T) {
	ctx := context.Background()
	svc, items := newShoppingListService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, "Milk", 2, strPtr("semi-skimmed"))
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())

	stored, err := items.GetByID(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", stored.Name)
	assert.Equal(t, "semi-skimmed", *stored.Note)

	t.Run("validation errors carry the field", func(t *testing.T) {
		_, err := svc.CreateItem(ctx, owner, "", 1, nil)
		assert.ErrorIs(t, err, domain.ErrItemNameEmpty)

		_, err = svc.CreateItem(ctx, owner, "Eggs", 0, nil)
		assert.ErrorIs(t, err, domain.ErrItemQuantityInvalid)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quantity", ve.Field)
	})

	t.Run("duplicate names are allowed", func(t *testing.T) {
		again, err := svc.CreateItem(ctx, owner, "Milk", 1, nil)
		require.NoError(t, err)
		assert.NotEqual(t, item.ID, again.ID)
	})
}

func TestShoppingListService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShoppingListService(t)
	alice, bob := uuid.New(), uuid.New()

	item, err := svc.CreateItem(ctx, alice, "Bread", 1, nil)
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, bob, item.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	_, err = svc.UpdateItem(ctx, bob, item.ID, domain.ItemChanges{Name: strPtr("Stolen")})
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	_, err = svc.ReplaceItem(ctx, bob, item.ID, "Stolen", 1, nil)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	err = svc.DeleteItem(ctx, bob, item.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	got, err := svc.GetItem(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Name)
}

func TestShoppingListService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShoppingListService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, "Apples", 3, strPtr("green"))
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, owner, item.ID, domain.ItemChanges{Quantity: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, "Apples", updated.Name, "unspecified fields keep their value")
	assert.Equal(t, 12, updated.Quantity)
	require.NotNil(t, updated.Note)
	assert.Equal(t, "green", *updated.Note)

	updated, err = svc.UpdateItem(ctx, owner, item.ID, domain.ItemChanges{ClearNote: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Note)

	_, err = svc.UpdateItem(ctx, owner, item.ID, domain.ItemChanges{Name: strPtr("   ")})
	assert.ErrorIs(t, err, domain.ErrItemNameEmpty)

	got, err := svc.GetItem(ctx, owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apples", got.Name, "a rejected update changes nothing")
	assert.Equal(t, 12, got.Quantity)
}

func TestShoppingListService_ReplaceItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newShoppingListService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, "Apples", 3, strPtr("green"))
	require.NoError(t, err)

	replaced, err := svc.ReplaceItem(ctx, owner, item.ID, "Pears", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pears", replaced.Name)
	assert.Equal(t, 1, replaced.Quantity)
	assert.Nil(t, replaced.Note, "an omitted note is cleared")
	assert.Equal(t, item.CreatedAt, replaced.CreatedAt)

	_, err = svc.ReplaceItem(ctx, owner, item.ID, "Pears", -1, nil)
	assert.ErrorIs(t, err, domain.ErrItemQuantityInvalid)
}

func TestShoppingListService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	svc, items := newShoppingListService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, "Cheese", 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, owner, item.ID))

	_, err = svc.GetItem(ctx, owner, item.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)

	err = svc.DeleteItem(ctx, owner, item.ID)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound, "deletion is not repeatable")

	all, err := items.ListAll(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestShoppingListService_WrapsUnexpectedStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	items := &mocks.MockShoppingItemStore{
		CreateFn: func(ctx context.Context, item *domain.ShoppingItem) error {
			return boom
		},
		SoftDeleteFn: func(ctx context.Context, userID uuid.UUID, id int64) error {
			return boom
		},
	}
	svc, err := service.NewShoppingListService(items, nil)
	require.NoError(t, err)

	_, err = svc.CreateItem(context.Background(), uuid.New(), "Milk", 1, nil)
	assert.ErrorIs(t, err, boom)
	var serviceErr *service.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "create_item", serviceErr.Operation)

	err = svc.DeleteItem(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "shopping list service delete_item failed")
}

func TestShoppingListService_MissingItemReportedBeforeValidation(t *testing.T) {
	svc, err := service.NewShoppingListService(&mocks.MockShoppingItemStore{}, nil)
	require.NoError(t, err)

	_, err = svc.ReplaceItem(context.Background(), uuid.New(), 99, "", 0, nil)
	assert.ErrorIs(t, err, store.ErrShoppingItemNotFound)
}

func TestNewShoppingListService_RequiresStore(t *testing.T) {
	_, err := service.NewShoppingListService(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
