package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/shopping-list-api/internal/api/shared"
	"github.com/phrazzld/shopping-list-api/internal/domain"
	"github.com/phrazzld/shopping-list-api/internal/listquery"
	"github.com/phrazzld/shopping-list-api/internal/pagination"
	"github.com/phrazzld/shopping-list-api/internal/service"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// Client-facing messages for mapped errors.
const (
	msgInvalidCredentials = "Unable to log in with provided credentials."
	msgItemNotFound       = "Shopping list does not exist"
	msgValidationFailed   = "Validation failed"
	msgInvalidToken       = "Token is invalid"
	msgExpiredToken       = "Token is expired"
	msgNotAuthenticated   = "Authentication credentials were not provided"
	msgInternal           = "An unexpected error occurred"
)

// APIError is the client-facing form of an error: what status, code and
// message to send. It never carries the raw error text of unexpected failures.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

// MapError translates errors from the service layer into an APIError.
// Unknown errors become a sanitized 500.
func MapError(err error) APIError {
	var verr *domain.ValidationError

	switch {
	case err == nil:
		return APIError{Status: http.StatusInternalServerError, Code: shared.CodeInternal, Message: msgInternal}

	case errors.Is(err, service.ErrInvalidCredentials):
		return APIError{Status: http.StatusBadRequest, Code: shared.CodeInvalidCredentials, Message: msgInvalidCredentials}

	case errors.Is(err, store.ErrEmailExists):
		return duplicate("email", "Email already exists")
	case errors.Is(err, store.ErrUsernameExists):
		return duplicate("username", "Username already exists")

	case errors.Is(err, store.ErrShoppingItemNotFound):
		return APIError{Status: http.StatusBadRequest, Code: shared.CodeNotFound, Message: msgItemNotFound}

	case listquery.IsValidationError(err),
		errors.Is(err, pagination.ErrInvalidPage),
		errors.Is(err, pagination.ErrInvalidPageSize):
		return APIError{Status: http.StatusBadRequest, Code: shared.CodeInvalidRequest, Message: err.Error()}

	case errors.As(err, &verr):
		return APIError{
			Status:  http.StatusBadRequest,
			Code:    shared.CodeValidationFailed,
			Message: msgValidationFailed,
			Details: map[string]string{verr.Field: verr.Message},
		}
	case errors.Is(err, store.ErrInvalidEntity):
		return APIError{Status: http.StatusBadRequest, Code: shared.CodeValidationFailed, Message: msgValidationFailed}

	case errors.Is(err, auth.ErrExpiredToken), errors.Is(err, auth.ErrExpiredRefreshToken):
		return APIError{Status: http.StatusUnauthorized, Code: shared.CodeExpiredToken, Message: msgExpiredToken}
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return APIError{Status: http.StatusUnauthorized, Code: shared.CodeInvalidToken, Message: msgInvalidToken}
	case errors.Is(err, auth.ErrMissingToken):
		return APIError{Status: http.StatusUnauthorized, Code: shared.CodeNotAuthenticated, Message: msgNotAuthenticated}

	default:
		return APIError{Status: http.StatusInternalServerError, Code: shared.CodeInternal, Message: msgInternal}
	}
}

func duplicate(field, message string) APIError {
	return APIError{
		Status:  http.StatusBadRequest,
		Code:    shared.CodeDuplicate,
		Message: message,
		Details: map[string]string{field: message},
	}
}

// HandleAPIError maps err and writes the error envelope. The raw error is
// only logged, redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err)

	var opts []shared.ResponseOption
	if apiErr.Details != nil {
		opts = append(opts, shared.WithDetails(apiErr.Details))
	}
	if apiErr.Status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, apiErr.Status, apiErr.Code, apiErr.Message, err, opts...)
}
