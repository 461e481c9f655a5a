// Package trigproc coordinates the trigger engine's lifecycle, combining the
// two trigger-detection drivers (chain polling and webhook push) behind one
// Start/Close pair and running the startup preflight checks.
package trigproc

import (
	"context"
	"errors"
	"sync"

	"github.com/aptosflow/engine/internal/chainpoll"
	"github.com/aptosflow/engine/internal/handlers/webhook"
	"github.com/aptosflow/engine/internal/pkg/logger"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
//
// The service must be started only once per lifecycle.
var ErrServiceAlreadyStarted = errors.New("service already started")

// defaultLowBalanceThreshold is 0.01 APT in octas. Below this the executor
// account cannot reliably fund autonomous responses.
const defaultLowBalanceThreshold = 1_000_000

// BalanceReader reports the executor account's spendable balance in octas.
type BalanceReader interface {
	ExecutorBalance(ctx context.Context) (uint64, error)
}

// Service defines the trigger engine lifecycle entrypoint.
type Service interface {
	// Start runs the startup preflight (executor balance check) and brings
	// up the polling driver and webhook intake.
	//
	// Returns ErrServiceAlreadyStarted if Start is called more than once.
	// Call Close to shut down all background routines.
	Start(ctx context.Context) error

	// Close shuts down both trigger drivers. It is safe to call Close even
	// if the service was never started.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	poller  chainpoll.Service // pull-based trigger detection
	webhook webhook.Server    // push-based trigger detection + health endpoints
	balance BalanceReader

	lowBalanceThreshold uint64
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	s.checkExecutorBalance(ctx)

	if err := s.poller.Start(ctx); err != nil {
		cancel()
		return err
	}

	if err := s.webhook.Start(ctx); err != nil {
		s.poller.Close()
		cancel()
		return err
	}

	s.closeFunc = func() {
		s.webhook.Close()
		s.poller.Close()
		cancel()
	}
	s.isStarted = true
	return nil
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.isStarted = false
}

// checkExecutorBalance logs the executor's balance at startup and warns when
// it is too low to fund responses. An unreadable balance is a warning, not a
// startup failure: the chain client may simply be catching up.
func (s *service) checkExecutorBalance(ctx context.Context) {
	balance, err := s.balance.ExecutorBalance(ctx)
	if err != nil {
		logger.Warn(ctx, "could not read executor balance", "error", err)
		return
	}

	if balance < s.lowBalanceThreshold {
		logger.Warn(ctx, "executor balance low, autonomous responses may fail",
			"executor.balance", balance,
			"executor.threshold", s.lowBalanceThreshold,
		)
		return
	}

	logger.Info(ctx, "executor balance sufficient", "executor.balance", balance)
}

type config struct {
	lowBalanceThreshold uint64
}

// Option customizes the orchestration service.
type Option func(*config)

// WithLowBalanceThreshold overrides the startup low-balance warning level,
// in octas. Default: 1,000,000 (0.01 APT).
func WithLowBalanceThreshold(octas uint64) Option {
	return func(c *config) {
		c.lowBalanceThreshold = octas
	}
}

// New wires the polling driver and webhook intake into a single lifecycle.
func New(poller chainpoll.Service, wh webhook.Server, balance BalanceReader, opts ...Option) *service {
	cfg := config{
		lowBalanceThreshold: defaultLowBalanceThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		poller:              poller,
		webhook:             wh,
		balance:             balance,
		lowBalanceThreshold: cfg.lowBalanceThreshold,
	}
}
