package execution

import "time"

// Status describes the terminal state of a single dispatch attempt.
type Status string

const (
	// StatusSubmitted means the response transaction was accepted by the
	// node but its confirmation outcome is not yet known.
	StatusSubmitted Status = "submitted"

	// StatusConfirmed means the response transaction was reported as
	// finalized on-chain.
	StatusConfirmed Status = "confirmed"

	// StatusFailed means submission or confirmation failed. When
	// ResponseHash is set alongside StatusFailed, the transaction was
	// submitted but never confirmed within the client's wait window.
	StatusFailed Status = "failed"
)

// Result is the outcome of dispatching one autonomous response. It exists for
// logging and operator follow-up only; the service keeps no execution history
// beyond process memory.
type Result struct {
	ExecutionID  string    // Unique identifier for this dispatch attempt (UUIDv7)
	Status       Status    // Terminal state of the attempt
	ResponseHash string    // Hash of the response transaction, set once submitted
	CompletedAt  time.Time // When the attempt reached its terminal state
	Err          error     // Set iff Status == StatusFailed
}
