package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/shopping-list-api/internal/api/shared"
)

// ItemIDParam is the query parameter naming the item of a PATCH, PUT or DELETE.
const ItemIDParam = "item_id"

//nolint:staticcheck
var (
	errItemIDRequired = errors.New("Item id is required")
	errItemIDInvalid  = errors.New("Invalid item id")
)

// requireUserID extracts the authenticated user from the request context.
// It writes a 401 and returns false when the auth middleware did not run.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized,
			shared.CodeNotAuthenticated, msgNotAuthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

// itemIDFromQuery parses the item_id query parameter as a positive integer.
func itemIDFromQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get(ItemIDParam)
	if raw == "" {
		return 0, errItemIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errItemIDInvalid
	}
	return id, nil
}

// requireItemID writes a 40007 response and returns false when item_id is
// missing or malformed.
func requireItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := itemIDFromQuery(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			shared.CodeInvalidRequest, err.Error(), err)
		return 0, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into v and validates it. On failure
// it writes the error response (40002 for a malformed body, 40005 with
// per-field details for validation) and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			shared.CodeMalformedBody, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			shared.CodeValidationFailed, msgValidationFailed, err,
			shared.WithDetails(shared.ValidationDetails(err)))
		return false
	}
	return true
}
