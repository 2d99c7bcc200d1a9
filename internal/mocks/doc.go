// Package mocks provides shared test doubles for the store and auth interfaces.
//
// Most mocks follow the function-field style: every interface method has a
// matching XxxFn field, and a nil field falls back to a simple default
// (usually "not found" or zero values). TestifyMockUserStore is the exception
// for tests that want call expectations through testify/mock.
//
//	users := &mocks.MockUserStore{
//	    GetByUsernameOrEmailFn: func(ctx context.Context, id string) (*domain.User, error) {
//	        return nil, store.ErrUserNotFound
//	    },
//	}
package mocks
