package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/redact"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// ShoppingListService manages a user's shopping items. Items that are deleted
// or owned by someone else yield store.ErrShoppingItemNotFound.
type ShoppingListService interface {
	// CreateItem adds an item to the user's list.
	CreateItem(ctx context.Context, userID uuid.UUID, name string, quantity int, note *string) (*domain.ShoppingItem, error)

	// GetItem retrieves one of the user's items.
	GetItem(ctx context.Context, userID uuid.UUID, itemID int64) (*domain.ShoppingItem, error)

	// UpdateItem applies a partial update. Fields absent from changes keep their value.
	UpdateItem(ctx context.Context, userID uuid.UUID, itemID int64, changes domain.ItemChanges) (*domain.ShoppingItem, error)

	// ReplaceItem overwrites name, quantity and note. A nil note clears it.
	ReplaceItem(
		ctx context.Context,
		userID uuid.UUID,
		itemID int64,
		name string,
		quantity int,
		note *string,
	) (*domain.ShoppingItem, error)

	// DeleteItem soft-deletes the item.
	DeleteItem(ctx context.Context, userID uuid.UUID, itemID int64) error
}

type shoppingListServiceImpl struct {
	items  store.ShoppingItemStore
	logger *slog.Logger
}

var _ ShoppingListService = (*shoppingListServiceImpl)(nil)

// NewShoppingListService creates a ShoppingListService.
func NewShoppingListService(items store.ShoppingItemStore, logger *slog.Logger) (ShoppingListService, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &shoppingListServiceImpl{
		items:  items,
		logger: logger.With(slog.String("component", "shopping_list_service")),
	}, nil
}

func (s *shoppingListServiceImpl) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	quantity int,
	note *string,
) (*domain.ShoppingItem, error) {
	item, err := domain.NewShoppingItem(userID, name, quantity, note)
	if err != nil {
		return nil, itemValidationError(err)
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, s.fail(ctx, "create_item", "failed to save item", userID, 0, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("shopping item created",
		slog.String("user_id", userID.String()),
		slog.Int64("item_id", item.ID))
	return item, nil
}

func (s *shoppingListServiceImpl) GetItem(
	ctx context.Context,
	userID uuid.UUID,
	itemID int64,
) (*domain.ShoppingItem, error) {
	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, s.fail(ctx, "get_item", "failed to retrieve item", userID, itemID, err)
	}
	return item, nil
}

func (s *shoppingListServiceImpl) UpdateItem(
	ctx context.Context,
	userID uuid.UUID,
	itemID int64,
	changes domain.ItemChanges,
) (*domain.ShoppingItem, error) {
	return s.modify(ctx, "update_item", userID, itemID, func(item *domain.ShoppingItem) error {
		return item.Apply(changes)
	})
}

func (s *shoppingListServiceImpl) ReplaceItem(
	ctx context.Context,
	userID uuid.UUID,
	itemID int64,
	name string,
	quantity int,
	note *string,
) (*domain.ShoppingItem, error) {
	return s.modify(ctx, "replace_item", userID, itemID, func(item *domain.ShoppingItem) error {
		return item.Replace(name, quantity, note)
	})
}

func (s *shoppingListServiceImpl) DeleteItem(ctx context.Context, userID uuid.UUID, itemID int64) error {
	if err := s.items.SoftDelete(ctx, userID, itemID); err != nil {
		return s.fail(ctx, "delete_item", "failed to delete item", userID, itemID, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("shopping item deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("item_id", itemID))
	return nil
}

// modify loads the owner's item, mutates it and writes it back. The item is
// looked up first so a missing item is reported before any validation error.
func (s *shoppingListServiceImpl) modify(
	ctx context.Context,
	operation string,
	userID uuid.UUID,
	itemID int64,
	mutate func(*domain.ShoppingItem) error,
) (*domain.ShoppingItem, error) {
	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, s.fail(ctx, operation, "failed to retrieve item", userID, itemID, err)
	}

	if err := mutate(item); err != nil {
		return nil, itemValidationError(err)
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, s.fail(ctx, operation, "failed to save item", userID, itemID, err)
	}
	return item, nil
}

// fail passes expected store errors through and wraps the rest.
func (s *shoppingListServiceImpl) fail(
	ctx context.Context,
	operation, message string,
	userID uuid.UUID,
	itemID int64,
	err error,
) error {
	if errors.Is(err, store.ErrShoppingItemNotFound) || errors.Is(err, store.ErrInvalidEntity) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error(message,
		redact.ErrorAttr(err),
		slog.String("operation", operation),
		slog.String("user_id", userID.String()),
		slog.Int64("item_id", itemID))
	return newShoppingListServiceError(operation, message, err)
}

// itemValidationError attaches the offending field to a shopping item validation error.
func itemValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrItemNameEmpty):
		return domain.NewValidationError("name", "This field may not be blank", err)
	case errors.Is(err, domain.ErrItemNameTooLong):
		return domain.NewValidationError("name", "Ensure this field has no more than 169 characters", err)
	case errors.Is(err, domain.ErrItemQuantityInvalid):
		return domain.NewValidationError("quantity", "Ensure this value is greater than or equal to 1", err)
	case errors.Is(err, domain.ErrItemUserIDEmpty):
		return domain.NewValidationError("user_id", "is required", err)
	default:
		return err
	}
}
