// Package service contains the application use cases of the shopping list API.
//
// UserService registers accounts and exchanges credentials or refresh tokens
// for token pairs. ShoppingListService creates, reads, updates and deletes a
// user's shopping items; every operation is scoped to the owner, so another
// user's item behaves exactly like a missing one.
//
// Services depend on the interfaces in internal/store and internal/service/auth
// only. Multi-statement work runs through a store.Transactor.
package service
