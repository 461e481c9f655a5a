package txtrigger

import (
	"context"

	"github.com/aptosflow/engine/internal/pkg/logger"
)

// Dispatcher executes the compensating action for an admitted trigger.
//
// DispatchResponse builds and submits the response transaction for the given
// trigger and blocks until the chain confirms it or the attempt fails. A
// returned error means the autonomous response did not (verifiably) land
// on-chain; the trigger is NOT re-attempted and its hash stays admitted.
type Dispatcher interface {
	DispatchResponse(ctx context.Context, trigger MatchedTrigger, amountOctas uint64) error
}

// Service is the shared trigger pipeline fed by both detection paths
// (polling and webhook push).
type Service interface {
	// Process evaluates a single candidate transaction: match against the
	// configured rule, admit the hash into the ledger, and dispatch the
	// response asynchronously.
	//
	// Non-matching and already-admitted candidates return nil. An error is
	// returned only when the ledger itself fails; dispatch failures are
	// logged with full trigger context and deliberately not surfaced, so one
	// bad candidate never poisons the rest of a batch.
	Process(ctx context.Context, tx Transaction) error
}

type service struct {
	rule       Rule
	ledger     Ledger
	dispatcher Dispatcher
}

var _ Service = (*service)(nil)

func (s *service) Process(ctx context.Context, tx Transaction) error {
	trigger, ok := Match(tx, s.rule)
	if !ok {
		return nil
	}

	// Admission happens before submission so a concurrent observation of the
	// same hash cannot produce a second execution.
	admitted, err := s.ledger.Admit(ctx, trigger.SourceHash)
	if err != nil {
		return err
	}

	if !admitted {
		logger.Debug(ctx, "trigger already admitted, skipping",
			"trigger.hash", trigger.SourceHash,
		)
		return nil
	}

	logger.Info(ctx, "magic trigger detected",
		"trigger.hash", trigger.SourceHash,
		"trigger.sender", trigger.Sender,
		"trigger.amount", trigger.Amount,
		"tx.version", tx.Version,
	)

	// Dispatch on its own goroutine: confirmation waits must not delay the
	// next poll tick or the next inbound webhook.
	go s.dispatch(ctx, trigger)

	return nil
}

// dispatch runs the compensating execution for an admitted trigger and logs
// the outcome. Failures are terminal: the hash stays admitted and an operator
// reconciles manually from the logged context.
func (s *service) dispatch(ctx context.Context, trigger MatchedTrigger) {
	if err := s.dispatcher.DispatchResponse(ctx, trigger, s.rule.ResponseAmount); err != nil {
		logger.Error(ctx, "autonomous response failed",
			"trigger.hash", trigger.SourceHash,
			"trigger.sender", trigger.Sender,
			"response.amount", s.rule.ResponseAmount,
			"error", err,
		)
		return
	}

	logger.Info(ctx, "autonomous response confirmed",
		"trigger.hash", trigger.SourceHash,
		"trigger.sender", trigger.Sender,
		"response.amount", s.rule.ResponseAmount,
	)
}

type config struct {
	ledger Ledger
}

// Option customizes the pipeline service.
type Option func(*config)

// WithLedger replaces the default in-memory dedup ledger, e.g. with the
// Redis-backed guard for multi-instance deployments.
func WithLedger(l Ledger) Option {
	return func(c *config) {
		c.ledger = l
	}
}

// New builds the trigger pipeline for the given rule and dispatcher.
// By default admissions are tracked in process memory.
func New(rule Rule, dispatcher Dispatcher, opts ...Option) *service {
	cfg := config{
		ledger: NewMemoryLedger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		rule:       rule,
		ledger:     cfg.ledger,
		dispatcher: dispatcher,
	}
}
