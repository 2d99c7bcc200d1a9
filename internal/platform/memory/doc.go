// Package memory provides in-process implementations of the store
// interfaces. They back the service and handler tests and the server's
// "memory" database driver for local runs without PostgreSQL.
//
// All stores are safe for concurrent use. Returned entities are copies;
// mutating them does not affect stored state.
package memory
