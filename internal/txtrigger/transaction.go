// Package txtrigger implements the trigger-detection pipeline: it inspects
// observed on-chain transactions, decides whether they constitute an
// automation trigger, enforces at-most-once admission per transaction hash,
// and hands admitted triggers to a dispatcher for autonomous execution.
package txtrigger

import "encoding/json"

// Event represents a single event emitted by an on-chain transaction.
// Data holds the raw event payload as received from the node.
type Event struct {
	Type string          // Fully qualified event type (e.g., "0xabc::workflow::CreateWorkflowEvent")
	Data json.RawMessage // Raw event payload
}

// Transaction is a read-only projection of a committed user transaction.
// It is created once per observation and never mutated.
type Transaction struct {
	Hash      string   // Unique transaction hash identifier
	Sender    string   // Sender account address
	Function  string   // Fully qualified entry function invoked (e.g., "0x1::aptos_account::transfer")
	Arguments []string // Ordered entry function arguments, as decimal/hex strings
	Version   uint64   // Monotonic position in the chain's transaction history
	Success   bool     // Whether the transaction executed successfully on-chain
	Events    []Event  // Events emitted by the transaction, in order
}

// Rule is the static trigger configuration for a deployment.
//
// A transaction matches when it succeeded on-chain, invoked one of the listed
// entry functions, and carried a transfer amount exactly equal to MatchAmount.
// Amounts are integer octas, so equality is exact by construction.
type Rule struct {
	Functions      []string // Entry function identifiers that qualify as transfers
	MatchAmount    uint64   // Exact transfer amount (octas) that denotes a trigger
	ResponseAmount uint64   // Amount (octas) to send back to the trigger's sender
}

// MatchedTrigger carries the parameters extracted from a matching transaction,
// everything the dispatcher needs to build the compensating transaction.
type MatchedTrigger struct {
	Sender     string // Account that sent the trigger transfer
	SourceHash string // Hash of the trigger transaction
	Amount     uint64 // Transfer amount carried by the trigger (octas)
}
