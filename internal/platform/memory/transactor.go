package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/shopping-list-api/internal/store"
)

// Transactor is a store.Transactor for the in-memory stores.
// Units of work are serialized; fn receives a nil *sql.Tx, which the
// in-memory stores' WithTx ignores. Writes are not rolled back on error.
type Transactor struct {
	mu sync.Mutex
}

// NewTransactor creates a Transactor.
func NewTransactor() *Transactor {
	return &Transactor{}
}

var _ store.Transactor = (*Transactor)(nil)

// RunInTransaction implements store.Transactor.
func (t *Transactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}
