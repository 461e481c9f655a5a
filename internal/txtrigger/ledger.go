package txtrigger

import (
	"context"
	"sync"

	"github.com/aptosflow/engine/internal/pkg/types"
)

// Ledger records which trigger hashes have already been acted upon.
//
// Admit is the single synchronization point of the pipeline: it must test
// membership and insert in one atomic step, so that under concurrent
// evaluation of the same hash (a webhook delivery racing a poll cycle, or two
// overlapping poll cycles) at most one caller receives true.
//
// Implementations may be durable (e.g., Redis with a TTL-bounded claim) or
// process-local. Membership is never retracted: a hash admitted for execution
// stays admitted even if the execution later fails.
type Ledger interface {
	// Admit returns true exactly once per hash: the first time it is called
	// for a hash it records it and returns true; every subsequent call
	// returns false. Any error indicates a failure of the underlying store,
	// not a duplicate.
	Admit(ctx context.Context, hash string) (bool, error)
}

// memoryLedger is the default process-local Ledger. It grows monotonically
// for the lifetime of the process and is never pruned.
type memoryLedger struct {
	mu        sync.Mutex
	processed types.Set[string]
}

var _ Ledger = (*memoryLedger)(nil)

// NewMemoryLedger returns an in-memory Ledger backed by a hash set guarded
// by a mutex. Suitable for single-process deployments; use the Redis-backed
// guard for anything that must survive restarts or run multiple instances.
func NewMemoryLedger() *memoryLedger {
	return &memoryLedger{
		processed: types.NewSet[string](),
	}
}

func (l *memoryLedger) Admit(_ context.Context, hash string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.processed[hash]; exists {
		return false, nil
	}

	l.processed.Add(hash)
	return true, nil
}
