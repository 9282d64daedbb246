package db

import (
	"context"
	"sync"
)

const memJournalKey contextKey = "mem_journal"

type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// MemTx is the transaction gate shared by the in-memory repositories. A
// transaction holds the write lock for its whole duration, so its writes
// become visible to other callers only after it finishes; on error the
// recorded undo steps run in reverse order.
type MemTx struct {
	mu sync.RWMutex
}

// NewMemTx creates an idle gate.
func NewMemTx() *MemTx {
	return &MemTx{}
}

func (m *MemTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inMemTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, memJournalKey, j)); err != nil {
		j.rollback()
		return err
	}
	return nil
}

// Read takes the shared lock unless ctx already runs inside InTx.
func (m *MemTx) Read(ctx context.Context) (release func()) {
	if inMemTx(ctx) {
		return func() {}
	}
	m.mu.RLock()
	return m.mu.RUnlock
}

// Write takes the exclusive lock unless ctx already runs inside InTx.
func (m *MemTx) Write(ctx context.Context) (release func()) {
	if inMemTx(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// OnRollback registers undo for the transaction running on ctx. Outside a
// transaction it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(memJournalKey).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func inMemTx(ctx context.Context) bool {
	_, ok := ctx.Value(memJournalKey).(*journal)
	return ok
}
