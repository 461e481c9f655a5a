package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aptosflow/engine/internal/txtrigger"
)

const (
	// txtriggerKeyPrefix is the Redis key namespace for trigger admission
	// entries. All dedup keys are prefixed with this value.
	txtriggerKeyPrefix = "txtrigger"

	// defaultAdmissionTTL bounds ledger growth: an admission entry only
	// needs to outlive every window in which its hash can still be
	// re-observed by a poll cycle or a webhook redelivery.
	defaultAdmissionTTL = 24 * time.Hour
)

// txtriggerAdmissionKey builds the Redis key recording that the given
// trigger hash has been admitted for execution.
func txtriggerAdmissionKey(hash string) string {
	return fmt.Sprintf("%s:admitted:%s", txtriggerKeyPrefix, hash)
}

// ledger adapts the Redis client to the trigger pipeline's dedup contract.
// Unlike the default in-memory ledger, admissions survive process restarts
// and are shared across engine instances.
type ledger struct {
	client *client
	ttl    time.Duration
}

var _ txtrigger.Ledger = (*ledger)(nil)

// NewLedger wraps the Redis client as a txtrigger.Ledger. A ttl of zero
// applies the default 24h admission retention; negative values store
// admissions without expiry, reproducing the in-memory ledger's permanent
// membership.
func (c *client) NewLedger(ttl time.Duration) *ledger {
	switch {
	case ttl == 0:
		ttl = defaultAdmissionTTL
	case ttl < 0:
		ttl = 0
	}

	return &ledger{
		client: c,
		ttl:    ttl,
	}
}

// Admit performs the atomic test-and-insert via SET NX: exactly one caller
// per hash observes a successful set, no matter how many engine instances
// race on the same observation.
func (l *ledger) Admit(ctx context.Context, hash string) (bool, error) {
	key := txtriggerAdmissionKey(hash)

	admitted, err := l.client.conn.SetNX(ctx, key, "admitted", l.ttl).Result()
	if err != nil {
		return false, err
	}

	return admitted, nil
}
