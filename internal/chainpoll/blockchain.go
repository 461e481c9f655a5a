package chainpoll

import (
	"context"

	"github.com/aptosflow/engine/internal/txtrigger"
)

// Blockchain is the read-side capability the polling driver consumes from
// the chain client.
type Blockchain interface {
	// RecentAccountTransactions returns up to limit of the most recent
	// committed user transactions for the given account, newest first.
	//
	// The bounded window is a deliberate design point: a trigger that ages
	// out of the window before being observed is silently missed, and
	// transactions committed before monitoring started are never
	// retroactively matched.
	RecentAccountTransactions(ctx context.Context, address string, limit uint64) ([]txtrigger.Transaction, error)
}
