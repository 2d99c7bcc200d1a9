package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Shopping item field bounds.
const (
	MaxItemNameLength = 169
	MinItemQuantity   = 1
	DefaultQuantity   = 1
)

// Shopping item validation errors
var (
	// ErrItemUserIDEmpty is returned when an item has no owner.
	ErrItemUserIDEmpty = errors.New("shopping item user ID cannot be empty")

	// ErrItemNameEmpty is returned when an item name is empty or blank.
	ErrItemNameEmpty = errors.New("shopping item name cannot be empty")

	// ErrItemNameTooLong is returned when an item name exceeds MaxItemNameLength characters.
	ErrItemNameTooLong = errors.New("shopping item name must be at most 169 characters long")

	// ErrItemQuantityInvalid is returned when the quantity is below MinItemQuantity.
	ErrItemQuantityInvalid = errors.New("shopping item quantity must be at least 1")
)

// ShoppingItem is a single entry of a user's shopping list.
//
// ID is assigned by the store on creation and never reused. UserID and
// CreatedAt never change after creation. Deleted items stay in storage with
// IsDeleted set and are invisible to every query.
type ShoppingItem struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"-"`
}

// NewShoppingItem creates an unsaved item for the given owner.
// The ID and timestamps are assigned by the store on Create.
func NewShoppingItem(userID uuid.UUID, name string, quantity int, note *string) (*ShoppingItem, error) {
	item := &ShoppingItem{
		UserID:   userID,
		Name:     name,
		Quantity: quantity,
		Note:     note,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ShoppingItem has valid data.
func (i *ShoppingItem) Validate() error {
	if i.UserID == uuid.Nil {
		return ErrItemUserIDEmpty
	}
	if err := ValidateItemName(i.Name); err != nil {
		return err
	}
	return ValidateItemQuantity(i.Quantity)
}

// ValidateItemName checks that name is non-blank and within MaxItemNameLength characters.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrItemNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return ErrItemNameTooLong
	}
	return nil
}

// ValidateItemQuantity checks the quantity lower bound.
func ValidateItemQuantity(quantity int) error {
	if quantity < MinItemQuantity {
		return ErrItemQuantityInvalid
	}
	return nil
}

// ItemChanges holds a partial update. Nil fields are left untouched;
// ClearNote sets the note to null and takes precedence over Note.
type ItemChanges struct {
	Name      *string
	Quantity  *int
	Note      *string
	ClearNote bool
}

// IsEmpty reports whether the changes would leave the item untouched.
func (c ItemChanges) IsEmpty() bool {
	return c.Name == nil && c.Quantity == nil && c.Note == nil && !c.ClearNote
}

// Apply validates and applies the changes. On error the item is left unmodified.
// UpdatedAt is refreshed by the store when the change is persisted.
func (i *ShoppingItem) Apply(c ItemChanges) error {
	if c.Name != nil {
		if err := ValidateItemName(*c.Name); err != nil {
			return err
		}
	}
	if c.Quantity != nil {
		if err := ValidateItemQuantity(*c.Quantity); err != nil {
			return err
		}
	}

	if c.Name != nil {
		i.Name = *c.Name
	}
	if c.Quantity != nil {
		i.Quantity = *c.Quantity
	}
	switch {
	case c.ClearNote:
		i.Note = nil
	case c.Note != nil:
		note := *c.Note
		i.Note = &note
	}
	return nil
}

// Replace overwrites every mutable field. A nil note clears it.
func (i *ShoppingItem) Replace(name string, quantity int, note *string) error {
	changes := ItemChanges{Name: &name, Quantity: &quantity, Note: note, ClearNote: note == nil}
	return i.Apply(changes)
}
