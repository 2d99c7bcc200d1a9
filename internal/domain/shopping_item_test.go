package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewShoppingItem(t *testing.T) {
	userID := uuid.New()

	item, err := NewShoppingItem(userID, "Milk", 2, strPtr("semi-skimmed"))
	require.NoError(t, err)
	assert.Equal(t, userID, item.UserID)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 2, item.Quantity)
	require.NotNil(t, item.Note)
	assert.Equal(t, "semi-skimmed", *item.Note)
	assert.Zero(t, item.ID, "ID is assigned by the store")
	assert.False(t, item.IsDeleted)

	tests := []struct {
		name     string
		userID   uuid.UUID
		itemName string
		quantity int
		want     error
	}{
		{"missing owner", uuid.Nil, "Milk", 1, ErrItemUserIDEmpty},
		{"empty name", userID, "", 1, ErrItemNameEmpty},
		{"blank name", userID, "   ", 1, ErrItemNameEmpty},
		{"name too long", userID, strings.Repeat("n", MaxItemNameLength+1), 1, ErrItemNameTooLong},
		{"zero quantity", userID, "Milk", 0, ErrItemQuantityInvalid},
		{"negative quantity", userID, "Milk", -3, ErrItemQuantityInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShoppingItem(tc.userID, tc.itemName, tc.quantity, nil)
			assert.True(t, errors.Is(err, tc.want), "expected %v, got %v", tc.want, err)
		})
	}
}

func TestValidateItemName_CountsRunes(t *testing.T) {
	// 169 multi-byte characters are within bounds even though they exceed 169 bytes
	assert.NoError(t, ValidateItemName(strings.Repeat("é", MaxItemNameLength)))
	assert.ErrorIs(t, ValidateItemName(strings.Repeat("é", MaxItemNameLength+1)), ErrItemNameTooLong)
}

func TestShoppingItemApply(t *testing.T) {
	base := func() *ShoppingItem {
		return &ShoppingItem{UserID: uuid.New(), Name: "Eggs", Quantity: 6, Note: strPtr("free range")}
	}

	t.Run("quantity only keeps name and note", func(t *testing.T) {
		item := base()
		require.NoError(t, item.Apply(ItemChanges{Quantity: intPtr(12)}))
		assert.Equal(t, "Eggs", item.Name)
		assert.Equal(t, 12, item.Quantity)
		require.NotNil(t, item.Note)
		assert.Equal(t, "free range", *item.Note)
	})

	t.Run("clear note", func(t *testing.T) {
		item := base()
		require.NoError(t, item.Apply(ItemChanges{ClearNote: true}))
		assert.Nil(t, item.Note)
	})

	t.Run("new note is copied", func(t *testing.T) {
		item := base()
		note := "brown"
		require.NoError(t, item.Apply(ItemChanges{Note: &note}))
		note = "mutated"
		assert.Equal(t, "brown", *item.Note)
	})

	t.Run("invalid change leaves item untouched", func(t *testing.T) {
		item := base()
		err := item.Apply(ItemChanges{Name: strPtr("Bread"), Quantity: intPtr(0)})
		assert.ErrorIs(t, err, ErrItemQuantityInvalid)
		assert.Equal(t, "Eggs", item.Name)
		assert.Equal(t, 6, item.Quantity)
	})

	t.Run("empty changes", func(t *testing.T) {
		assert.True(t, ItemChanges{}.IsEmpty())
		assert.False(t, ItemChanges{ClearNote: true}.IsEmpty())
	})
}

func TestShoppingItemReplace(t *testing.T) {
	item := &ShoppingItem{UserID: uuid.New(), Name: "Eggs", Quantity: 6, Note: strPtr("free range")}

	require.NoError(t, item.Replace("Bread", 1, nil))
	assert.Equal(t, "Bread", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, item.Note, "replace without note clears it")

	require.NoError(t, item.Replace("Bread", 2, strPtr("sourdough")))
	assert.Equal(t, "sourdough", *item.Note)

	assert.ErrorIs(t, item.Replace("", 2, nil), ErrItemNameEmpty)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("item_id", "is required", nil)
	assert.Equal(t, "item_id is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, IsValidationError(err))

	wrapped := NewValidationError("id", "has invalid format", ErrInvalidID)
	assert.ErrorIs(t, wrapped, ErrInvalidID)
	assert.False(t, IsValidationError(errors.New("plain")))
}
