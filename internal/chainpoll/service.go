// Package chainpoll implements the pull-based trigger detection driver: a
// fixed-interval scan of each monitored account's recent transactions, feeding
// every candidate through the shared trigger pipeline.
package chainpoll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aptosflow/engine/internal/pkg/logger"
	"github.com/aptosflow/engine/internal/pkg/resilience/retry"
	"github.com/aptosflow/engine/internal/pkg/x/chflow"
	"github.com/aptosflow/engine/internal/txtrigger"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

const (
	defaultPollInterval = 10 * time.Second
	defaultWindowSize   = 25

	// candidateChannelBufferSize absorbs one full scan window so the scan
	// goroutines rarely block on the processing goroutine.
	candidateChannelBufferSize = 25
)

// Service is the polling driver's lifecycle contract.
type Service interface {
	// Start launches one scan loop per monitored address plus a single
	// candidate-processing loop, then returns. Returns
	// ErrServiceAlreadyStarted if called twice without a Close in between.
	Start(ctx context.Context) error

	// Close stops all scan loops. In-flight candidate evaluation is not
	// guaranteed to complete. Safe to call on a never-started service.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	blockchain Blockchain
	pipeline   txtrigger.Service
	addresses  []string

	pollInterval time.Duration
	windowSize   uint64
	retry        retry.Retry
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	candidatesCh := make(chan txtrigger.Transaction, candidateChannelBufferSize)

	var wg sync.WaitGroup
	for _, address := range s.addresses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.scanLoop(ctx, address, candidatesCh)
		}()
	}

	go func() {
		// The candidate channel closes only after every scan loop stopped.
		wg.Wait()
		close(candidatesCh)
	}()

	go s.processCandidates(ctx, candidatesCh)

	s.closeFunc = closeFunc(cancel)
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

// scanLoop fetches the recent-transaction window for a single monitored
// address on every tick and forwards each transaction as a candidate. The
// first scan happens immediately rather than waiting a full interval.
func (s *service) scanLoop(ctx context.Context, address string, candidatesCh chan<- txtrigger.Transaction) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		s.scanAddress(ctx, address, candidatesCh)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// scanAddress performs one windowed fetch for one address. Fetch failures are
// retried per the configured policy and, if persistent, logged and dropped:
// the next tick starts from a clean slate, and other addresses are unaffected.
func (s *service) scanAddress(ctx context.Context, address string, candidatesCh chan<- txtrigger.Transaction) {
	var txs []txtrigger.Transaction

	err := s.retry.Execute(ctx, func() error {
		var fetchErr error
		txs, fetchErr = s.blockchain.RecentAccountTransactions(ctx, address, s.windowSize)
		return fetchErr
	})
	if err != nil {
		logger.Error(ctx, "recent transaction fetch failed",
			"poll.address", address,
			"poll.window", s.windowSize,
			"error", err,
		)
		return
	}

	for _, tx := range txs {
		if ok := chflow.Send(ctx, candidatesCh, tx); !ok {
			return
		}
	}
}

// processCandidates drains the candidate channel into the trigger pipeline.
// A pipeline error affects only the candidate that produced it.
func (s *service) processCandidates(ctx context.Context, candidatesCh <-chan txtrigger.Transaction) {
	for {
		tx, ok := chflow.Receive(ctx, candidatesCh)
		if !ok {
			return
		}

		if err := s.pipeline.Process(ctx, tx); err != nil {
			logger.Error(ctx, "candidate processing failed",
				"tx.hash", tx.Hash,
				"tx.sender", tx.Sender,
				"error", err,
			)
		}
	}
}

type config struct {
	pollInterval time.Duration
	windowSize   uint64
	retry        retry.Retry
}

// Option customizes the polling driver.
type Option func(*config)

// WithPollInterval overrides the scan interval. Default: 10s.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithWindowSize overrides how many recent transactions each scan fetches
// per address. Default: 25.
func WithWindowSize(n uint64) Option {
	return func(c *config) {
		c.windowSize = n
	}
}

// WithRetry replaces the retry policy applied to transaction fetches.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// New builds the polling driver over the given chain client and pipeline,
// scanning each address in addresses on every tick.
func New(blockchain Blockchain, pipeline txtrigger.Service, addresses []string, opts ...Option) *service {
	cfg := config{
		pollInterval: defaultPollInterval,
		windowSize:   defaultWindowSize,
		retry:        retry.New(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		blockchain:   blockchain,
		pipeline:     pipeline,
		addresses:    addresses,
		pollInterval: cfg.pollInterval,
		windowSize:   cfg.windowSize,
		retry:        cfg.retry,
	}
}
