package execution

import "context"

// TransactionSubmitter is the write-side capability the dispatcher consumes
// from the chain client.
//
// Implementations own the signing account's sequence number and must
// serialize submissions from the same signer: two concurrent submissions
// without sequence coordination would have one rejected by the network.
type TransactionSubmitter interface {
	// SubmitTransfer builds, signs, and submits a native coin transfer from
	// the service's executor account to recipient for amountOctas. It
	// returns the pending transaction hash on acceptance by the node.
	SubmitTransfer(ctx context.Context, recipient string, amountOctas uint64) (string, error)

	// SubmitWorkflowExecution builds, signs, and submits the on-chain
	// workflow module's execute_workflow entry function for the given
	// workflow identifier.
	SubmitWorkflowExecution(ctx context.Context, workflowID uint64) (string, error)

	// WaitForConfirmation blocks until the transaction with the given hash
	// is reported finalized on-chain, or fails with the client's timeout or
	// a transaction-level failure.
	WaitForConfirmation(ctx context.Context, hash string) error
}
