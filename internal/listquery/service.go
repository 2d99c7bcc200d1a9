package listquery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// Service runs list queries against a ShoppingItemStore.
type Service struct {
	items  store.ShoppingItemStore
	logger *slog.Logger
}

// NewService creates a Service. If logger is nil, a default logger is used.
func NewService(items store.ShoppingItemStore, logger *slog.Logger) (*Service, error) {
	if items == nil {
		return nil, fmt.Errorf("items store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		items:  items,
		logger: logger.With(slog.String("component", "list_query_service")),
	}, nil
}

// List returns the owner's items selected by q, in q's sort order.
func (s *Service) List(ctx context.Context, userID uuid.UUID, q Query) ([]*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		items []*domain.ShoppingItem
		err   error
	)
	switch q.Selection {
	case SelectDateRange:
		items, err = s.items.FilterByDateRange(ctx, userID, q.Start, q.End)
	case SelectSearch:
		items, err = s.items.Search(ctx, userID, q.Term)
	default:
		items, err = s.items.ListAll(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select items (%s): %w", q.Selection, err)
	}

	Sort(items, q.Sort)

	log.Debug("listed shopping items",
		slog.String("user_id", userID.String()),
		slog.String("selection", q.Selection.String()),
		slog.String("sort", q.Sort.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// Sort orders items by ID in place. SortNone leaves them untouched.
func Sort(items []*domain.ShoppingItem, order SortOrder) {
	switch order {
	case SortAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	case SortDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	}
}
