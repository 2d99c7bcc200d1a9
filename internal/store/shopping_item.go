package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
)

// ShoppingItemStore defines the interface for shopping list persistence.
//
// Every method is scoped to a single owner. Soft-deleted items and items of
// other users are never returned; lookups for them yield ErrShoppingItemNotFound.
// Collection methods return items ordered by ID ascending.
type ShoppingItemStore interface {
	// Create inserts the item and assigns its ID, CreatedAt and UpdatedAt.
	// Names are not unique.
	Create(ctx context.Context, item *domain.ShoppingItem) error

	// GetByID returns the owner's non-deleted item with the given ID.
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.ShoppingItem, error)

	// GetByName returns the owner's first non-deleted item with exactly this name.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.ShoppingItem, error)

	// ListAll returns all of the owner's non-deleted items.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.ShoppingItem, error)

	// Search returns the owner's non-deleted items whose name contains term,
	// ignoring case. The term is matched literally.
	Search(ctx context.Context, userID uuid.UUID, term string) ([]*domain.ShoppingItem, error)

	// FilterByDateRange returns the owner's non-deleted items created on any
	// calendar day (UTC) from start to end, both inclusive. Only the date part
	// of start and end is used.
	FilterByDateRange(
		ctx context.Context,
		userID uuid.UUID,
		start, end time.Time,
	) ([]*domain.ShoppingItem, error)

	// Update persists Name, Quantity and Note of an existing item and refreshes
	// its UpdatedAt, which is written back to item.
	Update(ctx context.Context, item *domain.ShoppingItem) error

	// SoftDelete marks the owner's item as deleted and refreshes UpdatedAt.
	// Deleting an already deleted item returns ErrShoppingItemNotFound.
	SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error

	// WithTx returns a new ShoppingItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ShoppingItemStore
}

// DateRangeBounds converts an inclusive calendar-day range into the half-open
// instant range [from, to) used by store implementations.
func DateRangeBounds(start, end time.Time) (from, to time.Time) {
	from = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return from, to
}
