package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/shopping-list-api/internal/api/shared"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/listquery"
	"github.com/phrazzld/shopping-list-api/internal/pagination"
	"github.com/phrazzld/shopping-list-api/internal/platform/logger"
	"github.com/phrazzld/shopping-list-api/internal/service"
)

// Query parameters of the list endpoint.
const (
	SortByParam    = "sort_by"
	SearchParam    = "search"
	StartDateParam = "start_date"
	EndDateParam   = "end_date"
)

// Success messages.
const (
	msgItemCreated = "Shopping list created successfully"
	msgItemsListed = "Shopping list retrieved successfully"
	msgItemUpdated = "Shopping list updated successfully"
	msgItemDeleted = "Shopping list deleted successfully"
)

// ShoppingListHandler serves the /shopping-list/ endpoint. Every operation is
// scoped to the authenticated user.
type ShoppingListHandler struct {
	items     service.ShoppingListService
	queries   *listquery.Service
	paginator pagination.Paginator
	logger    *slog.Logger
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(
	items service.ShoppingListService,
	queries *listquery.Service,
	paginator pagination.Paginator,
	logger *slog.Logger,
) (*ShoppingListHandler, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if queries == nil {
		return nil, domain.NewValidationError("queries", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingListHandler{
		items:     items,
		queries:   queries,
		paginator: pagination.New(paginator.DefaultPageSize, paginator.MaxPageSize),
		logger:    logger.With(slog.String("component", "shopping_list_handler")),
	}, nil
}

// CreateItem handles POST /shopping-list/.
func (h *ShoppingListHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.CreateItem(r.Context(), userID, req.Name, *req.Quantity, req.Note)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated,
		shared.Success(http.StatusCreated, msgItemCreated, toShoppingItemResponse(item)))
}

// ListItems handles GET /shopping-list/. The query parameters are validated
// before the page parameters, and both before any store access.
func (h *ShoppingListHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	values := r.URL.Query()
	q, err := listquery.Parse(listquery.Params{
		SortBy:    values.Get(SortByParam),
		Search:    values.Get(SearchParam),
		StartDate: values.Get(StartDateParam),
		EndDate:   values.Get(EndDateParam),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	pageReq, err := h.paginator.ParseRequest(values)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	items, err := h.queries.List(r.Context(), userID, q)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("failed to list shopping items: %w", err))
		return
	}

	page := pagination.Map(pagination.Paginate(items, pageReq), toShoppingItemResponse)
	next, previous := pagination.Links(pagination.RequestURL(r), page)

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("served shopping list page",
		slog.Int("count", page.Count),
		slog.Int("page", page.CurrentPage))

	shared.RespondWithJSON(w, r, http.StatusOK, ListResponse{
		Code:        strconv.Itoa(http.StatusOK),
		Message:     msgItemsListed,
		Count:       page.Count,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		Next:        next,
		Previous:    previous,
		Data:        page.Items,
	})
}

// UpdateItem handles PATCH /shopping-list/?item_id=ID.
func (h *ShoppingListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := requireItemID(w, r)
	if !ok {
		return
	}

	var req PatchItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.UpdateItem(r.Context(), userID, itemID, req.Changes())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.Success(http.StatusOK, msgItemUpdated, toShoppingItemResponse(item)))
}

// ReplaceItem handles PUT /shopping-list/?item_id=ID. The body is validated
// before item_id is looked at.
func (h *ShoppingListHandler) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ReplaceItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	itemID, ok := requireItemID(w, r)
	if !ok {
		return
	}

	item, err := h.items.ReplaceItem(r.Context(), userID, itemID, req.Name, *req.Quantity, req.Note)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.Success(http.StatusOK, msgItemUpdated, toShoppingItemResponse(item)))
}

// DeleteItem handles DELETE /shopping-list/?item_id=ID.
func (h *ShoppingListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := requireItemID(w, r)
	if !ok {
		return
	}

	if err := h.items.DeleteItem(r.Context(), userID, itemID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.Success(http.StatusOK, msgItemDeleted, nil))
}
