// Package webhook exposes the push-based trigger intake: an HTTP endpoint
// that receives workflow-creation event deliveries from the indexer,
// acknowledges them immediately, and runs the match/execute pipeline
// asynchronously so the deliverer's retry policy is never coupled to
// blockchain confirmation latency. It also serves the process health
// endpoints used by cloud deployments.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aptosflow/engine/internal/execution"
	"github.com/aptosflow/engine/internal/pkg/logger"
	"github.com/aptosflow/engine/internal/txtrigger"
	"github.com/aptosflow/engine/internal/workflow"
)

// ErrServerAlreadyStarted is returned if Start is called more than once.
var ErrServerAlreadyStarted = errors.New("webhook server already started")

const shutdownTimeout = 5 * time.Second

// WorkflowExecutor is the execution capability the webhook intake consumes.
type WorkflowExecutor interface {
	ExecuteWorkflow(ctx context.Context, workflowID uint64) execution.Result
}

// Server is the webhook intake's lifecycle contract.
type Server interface {
	// Start begins serving on the configured listen address and returns.
	// Returns ErrServerAlreadyStarted if called twice without a Close.
	Start(ctx context.Context) error

	// Close gracefully shuts the listener down. Asynchronous deliveries
	// still in the pipeline are canceled, not awaited.
	Close()
}

type server struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc func()

	listenAddr      string
	executorAddress string
	eventType       string

	ledger   txtrigger.Ledger
	executor WorkflowExecutor

	// baseCtx outlives individual requests so that pipeline work started
	// after the 200 acknowledgment is tied to the server lifecycle, not to
	// the already-answered request.
	baseCtx context.Context
}

var _ Server = (*server)(nil)

// New builds the webhook intake server.
//
// eventType is the fully qualified workflow-creation event identifier to
// accept; any other delivery is logged and ignored. The ledger is shared with
// the polling path so a delivery observed twice is executed at most once.
func New(listenAddr, executorAddress, eventType string, ledger txtrigger.Ledger, executor WorkflowExecutor) *server {
	return &server{
		listenAddr:      listenAddr,
		executorAddress: executorAddress,
		eventType:       eventType,
		ledger:          ledger,
		executor:        executor,
	}
}

func (s *server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServerAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.baseCtx = ctx

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /webhook", s.handleWebhook)

	httpServer := &http.Server{
		Addr:    s.listenAddr,
		Handler: mux,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "webhook server stopped unexpectedly", "error", err)
		}
	}()

	s.closeFunc = func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		cancel()
	}
	s.isStarted = true
	return nil
}

func (s *server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
	s.isStarted = false
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "running",
		"service":  "aptosflow-engine",
		"executor": s.executorAddress,
		"message":  "monitoring blockchain for trigger transactions",
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleWebhook acknowledges the delivery before any pipeline work: the
// deliverer only needs to know the payload was received, and its retry window
// must not depend on how long confirmation takes.
func (s *server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload deliveryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn(r.Context(), "undecodable webhook delivery", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	go s.processDelivery(s.baseCtx, payload)
}

// processDelivery runs the asynchronous part of a webhook delivery: event
// type filtering, payload extraction, dedup admission, and execution. Each
// message in the delivery is evaluated independently.
func (s *server) processDelivery(ctx context.Context, payload deliveryPayload) {
	if payload.Event.EventType != s.eventType {
		logger.Info(ctx, "ignoring event delivery",
			"event.type", payload.Event.EventType,
		)
		return
	}

	for _, message := range payload.Event.Messages {
		event, err := workflow.ParseCreatedEvent(message.Data)
		if err != nil {
			logger.Error(ctx, "workflow event parse failed",
				"event.type", payload.Event.EventType,
				"error", err,
			)
			continue
		}

		admitted, err := s.ledger.Admit(ctx, workflowAdmissionKey(event.ID))
		if err != nil {
			logger.Error(ctx, "dedup admission failed",
				"workflow.id", event.ID,
				"error", err,
			)
			continue
		}

		if !admitted {
			logger.Debug(ctx, "workflow already admitted, skipping",
				"workflow.id", event.ID,
			)
			continue
		}

		logger.Info(ctx, "workflow creation detected",
			"workflow.id", event.ID,
		)

		s.executor.ExecuteWorkflow(ctx, event.ID)
	}
}

// workflowAdmissionKey namespaces workflow identifiers in the shared ledger
// so they cannot collide with trigger transaction hashes.
func workflowAdmissionKey(id uint64) string {
	return fmt.Sprintf("workflow:%d", id)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
