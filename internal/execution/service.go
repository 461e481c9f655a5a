// Package execution implements the autonomous execution dispatcher: given an
// admitted trigger, it builds and submits the compensating transaction and
// waits for on-chain confirmation, reporting a terminal Result per attempt.
//
// Dispatch is deliberately at-most-once. A failed submission or a
// confirmation timeout is logged with full context and never retried: a late
// confirmation after a blind retry would mean a duplicate payout.
package execution

import (
	"context"
	"time"

	"github.com/aptosflow/engine/internal/pkg/logger"
	"github.com/aptosflow/engine/internal/txtrigger"

	"github.com/google/uuid"
)

// Service dispatches autonomous response transactions.
type Service interface {
	// Execute sends amountOctas from the executor account to target and
	// waits for confirmation. The returned Result is always terminal.
	Execute(ctx context.Context, target string, amountOctas uint64) Result

	// ExecuteWorkflow submits the workflow module's execute_workflow entry
	// function for the given workflow identifier and waits for confirmation.
	ExecuteWorkflow(ctx context.Context, workflowID uint64) Result
}

type service struct {
	submitter TransactionSubmitter
}

var (
	_ Service              = (*service)(nil)
	_ txtrigger.Dispatcher = (*service)(nil)
)

// New builds the execution dispatcher on top of the given chain submitter.
func New(submitter TransactionSubmitter) *service {
	return &service{
		submitter: submitter,
	}
}

func (s *service) Execute(ctx context.Context, target string, amountOctas uint64) Result {
	executionID := uuid.Must(uuid.NewV7()).String()

	logger.Info(ctx, "submitting autonomous response",
		"execution.id", executionID,
		"execution.recipient", target,
		"execution.amount", amountOctas,
	)

	hash, err := s.submitter.SubmitTransfer(ctx, target, amountOctas)
	if err != nil {
		return s.finish(ctx, Result{
			ExecutionID: executionID,
			Status:      StatusFailed,
			Err:         err,
		})
	}

	return s.awaitConfirmation(ctx, Result{
		ExecutionID:  executionID,
		Status:       StatusSubmitted,
		ResponseHash: hash,
	})
}

func (s *service) ExecuteWorkflow(ctx context.Context, workflowID uint64) Result {
	executionID := uuid.Must(uuid.NewV7()).String()

	logger.Info(ctx, "submitting workflow execution",
		"execution.id", executionID,
		"workflow.id", workflowID,
	)

	hash, err := s.submitter.SubmitWorkflowExecution(ctx, workflowID)
	if err != nil {
		return s.finish(ctx, Result{
			ExecutionID: executionID,
			Status:      StatusFailed,
			Err:         err,
		})
	}

	return s.awaitConfirmation(ctx, Result{
		ExecutionID:  executionID,
		Status:       StatusSubmitted,
		ResponseHash: hash,
	})
}

// awaitConfirmation blocks on the chain client's confirmation wait for a
// submitted transaction. On a timeout or transaction failure the response
// hash is kept in the Result so an operator can follow up on-chain.
func (s *service) awaitConfirmation(ctx context.Context, res Result) Result {
	if err := s.submitter.WaitForConfirmation(ctx, res.ResponseHash); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return s.finish(ctx, res)
	}

	res.Status = StatusConfirmed
	return s.finish(ctx, res)
}

// finish stamps the terminal time and logs the outcome.
func (s *service) finish(ctx context.Context, res Result) Result {
	res.CompletedAt = time.Now().UTC()

	if res.Status == StatusFailed {
		logger.Error(ctx, "execution failed",
			"execution.id", res.ExecutionID,
			"execution.hash", res.ResponseHash,
			"error", res.Err,
		)
	} else {
		logger.Info(ctx, "execution confirmed",
			"execution.id", res.ExecutionID,
			"execution.hash", res.ResponseHash,
		)
	}

	return res
}

// DispatchResponse adapts Execute to the trigger pipeline's Dispatcher
// contract: the trigger's sender receives the configured response amount.
func (s *service) DispatchResponse(ctx context.Context, trigger txtrigger.MatchedTrigger, amountOctas uint64) error {
	res := s.Execute(ctx, trigger.Sender, amountOctas)
	if res.Status == StatusFailed {
		return res.Err
	}

	return nil
}
