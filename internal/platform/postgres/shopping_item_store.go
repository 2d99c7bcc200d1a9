package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/redact"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

const itemColumns = `id, user_id, name, quantity, note, created_at, updated_at, is_deleted`

// PostgresShoppingItemStore implements the store.ShoppingItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresShoppingItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShoppingItemStore creates a new PostgreSQL implementation of the
// ShoppingItemStore interface. If logger is nil, a default logger will be used.
func NewPostgresShoppingItemStore(db store.DBTX, logger *slog.Logger) *PostgresShoppingItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresShoppingItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "shopping_item_store")),
	}
}

// Ensure PostgresShoppingItemStore implements store.ShoppingItemStore interface
var _ store.ShoppingItemStore = (*PostgresShoppingItemStore)(nil)

// DB returns the underlying database connection or transaction.
func (s *PostgresShoppingItemStore) DB() store.DBTX {
	return s.db
}

// WithTx implements store.ShoppingItemStore.WithTx
func (s *PostgresShoppingItemStore) WithTx(tx *sql.Tx) store.ShoppingItemStore {
	return &PostgresShoppingItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ShoppingItemStore.Create
// Returns store.ErrInvalidEntity if the item is invalid or its owner does not exist.
func (s *PostgresShoppingItemStore) Create(ctx context.Context, item *domain.ShoppingItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("shopping item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", item.UserID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shopping_items (user_id, name, quantity, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at
	`, item.UserID, item.Name, item.Quantity, item.Note, now).Scan(
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during shopping item creation",
				slog.String("user_id", item.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, item.UserID)
		}
		log.Error("failed to create shopping item",
			redact.ErrorAttr(err),
			slog.String("user_id", item.UserID.String()))
		return store.NewStoreError("shopping_item", "create", "failed to insert item", MapError(err))
	}

	item.IsDeleted = false
	log.Debug("shopping item created",
		slog.Int64("item_id", item.ID),
		slog.String("user_id", item.UserID.String()))
	return nil
}

// GetByID implements store.ShoppingItemStore.GetByID
func (s *PostgresShoppingItemStore) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
) (*domain.ShoppingItem, error) {
	return s.getOne(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_items
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, id, userID)
}

// GetByName implements store.ShoppingItemStore.GetByName
func (s *PostgresShoppingItemStore) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.ShoppingItem, error) {
	return s.getOne(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_items
		WHERE name = $1 AND user_id = $2 AND is_deleted = FALSE
		ORDER BY id
		LIMIT 1
	`, name, userID)
}

// ListAll implements store.ShoppingItemStore.ListAll
func (s *PostgresShoppingItemStore) ListAll(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ShoppingItem, error) {
	return s.list(ctx, "list_all", `
		SELECT `+itemColumns+`
		FROM shopping_items
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY id
	`, userID)
}

// Search implements store.ShoppingItemStore.Search
func (s *PostgresShoppingItemStore) Search(
	ctx context.Context,
	userID uuid.UUID,
	term string,
) ([]*domain.ShoppingItem, error) {
	return s.list(ctx, "search", `
		SELECT `+itemColumns+`
		FROM shopping_items
		WHERE user_id = $1 AND is_deleted = FALSE AND name ILIKE $2
		ORDER BY id
	`, userID, containsPattern(term))
}

// FilterByDateRange implements store.ShoppingItemStore.FilterByDateRange
func (s *PostgresShoppingItemStore) FilterByDateRange(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.ShoppingItem, error) {
	from, to := store.DateRangeBounds(start, end)
	return s.list(ctx, "filter_by_date_range", `
		SELECT `+itemColumns+`
		FROM shopping_items
		WHERE user_id = $1 AND is_deleted = FALSE
			AND created_at >= $2 AND created_at < $3
		ORDER BY id
	`, userID, from, to)
}

// Update implements store.ShoppingItemStore.Update
func (s *PostgresShoppingItemStore) Update(ctx context.Context, item *domain.ShoppingItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("shopping item validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("item_id", item.ID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err := s.db.QueryRowContext(ctx, `
		UPDATE shopping_items
		SET name = $1, quantity = $2, note = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6 AND is_deleted = FALSE
		RETURNING updated_at
	`, item.Name, item.Quantity, item.Note, time.Now().UTC(), item.ID, item.UserID).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("shopping item not found for update", slog.Int64("item_id", item.ID))
			return store.ErrShoppingItemNotFound
		}
		log.Error("failed to update shopping item",
			redact.ErrorAttr(err),
			slog.Int64("item_id", item.ID))
		return store.NewStoreError("shopping_item", "update", "failed to update item", MapError(err))
	}

	log.Debug("shopping item updated", slog.Int64("item_id", item.ID))
	return nil
}

// SoftDelete implements store.ShoppingItemStore.SoftDelete
func (s *PostgresShoppingItemStore) SoftDelete(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE shopping_items
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE
	`, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to delete shopping item",
			redact.ErrorAttr(err),
			slog.Int64("item_id", id))
		return store.NewStoreError("shopping_item", "delete", "failed to delete item", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrShoppingItemNotFound); err != nil {
		if !errors.Is(err, store.ErrShoppingItemNotFound) {
			log.Error("failed to read delete result",
				redact.ErrorAttr(err),
				slog.Int64("item_id", id))
		}
		return err
	}

	log.Debug("shopping item deleted", slog.Int64("item_id", id))
	return nil
}

func (s *PostgresShoppingItemStore) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShoppingItemNotFound
		}
		log.Error("failed to get shopping item", redact.ErrorAttr(err))
		return nil, store.NewStoreError("shopping_item", "get", "failed to query item", MapError(err))
	}
	return item, nil
}

func (s *PostgresShoppingItemStore) list(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query shopping items",
			slog.String("operation", operation),
			redact.ErrorAttr(err))
		return nil, store.NewStoreError("shopping_item", operation, "failed to query items", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.ShoppingItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan shopping item",
				slog.String("operation", operation),
				redact.ErrorAttr(err))
			return nil, store.NewStoreError("shopping_item", operation, "failed to scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate shopping items",
			slog.String("operation", operation),
			redact.ErrorAttr(err))
		return nil, store.NewStoreError("shopping_item", operation, "failed to iterate items", err)
	}

	log.Debug("shopping items listed",
		slog.String("operation", operation),
		slog.Int("count", len(items)))
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.ShoppingItem, error) {
	var (
		item domain.ShoppingItem
		note sql.NullString
	)
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Quantity,
		&note,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		item.Note = &note.String
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}
