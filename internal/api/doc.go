// Package api handles incoming HTTP requests, request validation and response
// formatting for the shopping list API. Handlers translate HTTP concerns into
// calls on the services and map service errors to stable response codes
// (see MapError).
package api
