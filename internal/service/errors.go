package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Callers check them with errors.Is;
// the API layer maps them to response codes.
var (
	// ErrInvalidCredentials is returned by Login for an unknown identifier or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

	// ErrPasswordsDoNotMatch is returned by Register when the confirmation differs.
	ErrPasswordsDoNotMatch = errors.New("passwords do not match")
)

// ServiceError adds the failed operation to an unexpected error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newUserServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "user", Operation: operation, Message: message, Err: err}
}

func newShoppingListServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "shopping list", Operation: operation, Message: message, Err: err}
}
