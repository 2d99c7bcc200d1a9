package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
)

// RegisterRequest defines the payload for the account creation endpoint.
// Password length rules are enforced by the user service.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,max=150"`
	Email           string `json:"email"            validate:"required,email,max=255"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password"          validate:"required"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenResponse is returned by every endpoint that issues tokens.
type TokenResponse struct {
	Error  bool            `json:"error"`
	Code   string          `json:"code"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// CreateItemRequest defines the payload for adding an item.
// Quantity is a pointer so that a present zero reaches domain validation
// instead of failing as missing.
type CreateItemRequest struct {
	Name     string  `json:"name"     validate:"required,max=169"`
	Quantity *int    `json:"quantity" validate:"required"`
	Note     *string `json:"note"`
}

// ReplaceItemRequest defines the payload of a full replace. An absent or null
// note clears the stored one.
type ReplaceItemRequest struct {
	Name     string  `json:"name"     validate:"required,max=169"`
	Quantity *int    `json:"quantity" validate:"required"`
	Note     *string `json:"note"`
}

// PatchItemRequest defines the payload of a partial update. Absent fields are
// left untouched; a null name or quantity counts as absent.
type PatchItemRequest struct {
	Name     *string        `json:"name"     validate:"omitnil,max=169"`
	Quantity *int           `json:"quantity"`
	Note     NullableString `json:"note"`
}

// Changes converts the request into domain changes.
func (p PatchItemRequest) Changes() domain.ItemChanges {
	changes := domain.ItemChanges{Name: p.Name, Quantity: p.Quantity}
	if p.Note.Set {
		if p.Note.Valid {
			note := p.Note.Value
			changes.Note = &note
		} else {
			changes.ClearNote = true
		}
	}
	return changes
}

// NullableString distinguishes an absent JSON field (Set false) from an
// explicit null (Set true, Valid false) and a string value.
type NullableString struct {
	Value string
	Valid bool
	Set   bool
}

var jsonNull = []byte("null")

// UnmarshalJSON implements json.Unmarshaler. It is only called when the field
// is present in the document.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value, n.Valid = "", false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// ShoppingItemResponse is the wire form of a shopping item.
type ShoppingItemResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toShoppingItemResponse(item *domain.ShoppingItem) ShoppingItemResponse {
	return ShoppingItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Note:      item.Note,
		CreatedAt: item.CreatedAt.UTC(),
		UpdatedAt: item.UpdatedAt.UTC(),
	}
}

// ListResponse is the paginated envelope of the list endpoint.
type ListResponse struct {
	Error       bool                   `json:"error"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Count       int                    `json:"count"`
	TotalPages  int                    `json:"total_pages"`
	CurrentPage int                    `json:"current_page"`
	PageSize    int                    `json:"page_size"`
	Next        *string                `json:"next"`
	Previous    *string                `json:"previous"`
	Data        []ShoppingItemResponse `json:"data"`
}
