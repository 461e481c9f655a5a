// Package aptos implements the engine's chain client capabilities (recent
// transaction reads, transfer and entry-function submission, confirmation
// waits, balance reads) on top of the official Aptos Go SDK, the counterpart
// of the TypeScript SDK the hosted deployment uses.
package aptos

import (
	"context"
	"fmt"
	"sync"

	"github.com/aptosflow/engine/internal/chainpoll"
	"github.com/aptosflow/engine/internal/execution"
	"github.com/aptosflow/engine/internal/trigproc"
	"github.com/aptosflow/engine/internal/txtrigger"

	sdk "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/aptos-labs/aptos-go-sdk/crypto"
)

// workflowModuleName is the Move module within the configured deployment
// address that owns the workflow entry functions and events.
const workflowModuleName = "workflow"

type client struct {
	conn    *sdk.Client
	account *sdk.Account

	moduleAddress sdk.AccountAddress

	// submitMu serializes the build/sign/submit path. The signing account's
	// sequence number is shared mutable state: two unsynchronized
	// submissions from the same signer race on it and one gets rejected.
	submitMu sync.Mutex
}

// Compile-time assertions for every capability this client provides.
var (
	_ chainpoll.Blockchain           = (*client)(nil)
	_ execution.TransactionSubmitter = (*client)(nil)
	_ trigproc.BalanceReader         = (*client)(nil)
)

// NewClient connects to the Aptos fullnode at nodeURL (the public testnet
// fullnode when empty), derives the executor account from the Ed25519 private
// key, and resolves the workflow module's deployment address.
func NewClient(nodeURL, privateKeyHex, moduleAddress string) (*client, error) {
	cfg := sdk.TestnetConfig
	if nodeURL != "" {
		cfg.NodeUrl = nodeURL
	}

	conn, err := sdk.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to fullnode: %w", err)
	}

	privateKey := &crypto.Ed25519PrivateKey{}
	if err := privateKey.FromHex(privateKeyHex); err != nil {
		return nil, fmt.Errorf("parsing executor private key: %w", err)
	}

	account, err := sdk.NewAccountFromSigner(privateKey)
	if err != nil {
		return nil, fmt.Errorf("deriving executor account: %w", err)
	}

	var module sdk.AccountAddress
	if err := module.ParseStringRelaxed(moduleAddress); err != nil {
		return nil, fmt.Errorf("parsing workflow module address: %w", err)
	}

	return &client{
		conn:          conn,
		account:       account,
		moduleAddress: module,
	}, nil
}

// ExecutorAddress returns the executor account's canonical address string.
func (c *client) ExecutorAddress() string {
	return c.account.Address.String()
}

// RecentAccountTransactions fetches the most recent committed transactions
// for address and projects the user transactions among them into the
// engine's domain shape. Non-user transaction types are skipped.
func (c *client) RecentAccountTransactions(ctx context.Context, address string, limit uint64) ([]txtrigger.Transaction, error) {
	var account sdk.AccountAddress
	if err := account.ParseStringRelaxed(address); err != nil {
		return nil, fmt.Errorf("parsing monitored address %q: %w", address, err)
	}

	committed, err := c.conn.AccountTransactions(account, nil, &limit)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for %s: %w", address, err)
	}

	txs := make([]txtrigger.Transaction, 0, len(committed))
	for _, txn := range committed {
		user, err := txn.UserTransaction()
		if err != nil {
			continue
		}

		txs = append(txs, toDomainTransaction(user))
	}

	return txs, nil
}

// SubmitTransfer submits a native APT transfer from the executor account.
func (c *client) SubmitTransfer(ctx context.Context, recipient string, amountOctas uint64) (string, error) {
	var target sdk.AccountAddress
	if err := target.ParseStringRelaxed(recipient); err != nil {
		return "", fmt.Errorf("parsing recipient %q: %w", recipient, err)
	}

	amount, err := bcs.SerializeU64(amountOctas)
	if err != nil {
		return "", err
	}

	payload := sdk.TransactionPayload{Payload: &sdk.EntryFunction{
		Module:   sdk.ModuleId{Address: sdk.AccountOne, Name: "aptos_account"},
		Function: "transfer",
		ArgTypes: []sdk.TypeTag{},
		Args:     [][]byte{target[:], amount},
	}}

	return c.submit(payload)
}

// SubmitWorkflowExecution submits the workflow module's execute_workflow
// entry function for the given workflow identifier.
func (c *client) SubmitWorkflowExecution(ctx context.Context, workflowID uint64) (string, error) {
	id, err := bcs.SerializeU64(workflowID)
	if err != nil {
		return "", err
	}

	payload := sdk.TransactionPayload{Payload: &sdk.EntryFunction{
		Module:   sdk.ModuleId{Address: c.moduleAddress, Name: workflowModuleName},
		Function: "execute_workflow",
		ArgTypes: []sdk.TypeTag{},
		Args:     [][]byte{id},
	}}

	return c.submit(payload)
}

// submit builds, signs, and submits an entry-function transaction from the
// executor account. Held under submitMu for sequence-number safety.
func (c *client) submit(payload sdk.TransactionPayload) (string, error) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	rawTxn, err := c.conn.BuildTransaction(c.account.Address, payload)
	if err != nil {
		return "", fmt.Errorf("building transaction: %w", err)
	}

	signedTxn, err := rawTxn.SignedTransaction(c.account)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	pending, err := c.conn.SubmitTransaction(signedTxn)
	if err != nil {
		return "", fmt.Errorf("submitting transaction: %w", err)
	}

	return pending.Hash, nil
}

// WaitForConfirmation blocks until the node reports the transaction
// finalized. A transaction that commits but aborts on-chain is a failure.
func (c *client) WaitForConfirmation(ctx context.Context, hash string) error {
	txn, err := c.conn.WaitForTransaction(hash)
	if err != nil {
		return fmt.Errorf("waiting for transaction %s: %w", hash, err)
	}

	if !txn.Success {
		return fmt.Errorf("transaction %s aborted on-chain: %s", hash, txn.VmStatus)
	}

	return nil
}

// ExecutorBalance reports the executor account's APT balance in octas.
func (c *client) ExecutorBalance(ctx context.Context) (uint64, error) {
	return c.conn.AccountAPTBalance(c.account.Address)
}

// toDomainTransaction projects an SDK user transaction into the engine's
// immutable domain record.
func toDomainTransaction(user *api.UserTransaction) txtrigger.Transaction {
	tx := txtrigger.Transaction{
		Hash:    user.Hash,
		Sender:  user.Sender.String(),
		Version: user.Version,
		Success: user.Success,
	}

	if entry, ok := entryFunctionPayload(user.Payload); ok {
		tx.Function = entry.Function
		tx.Arguments = make([]string, 0, len(entry.Arguments))
		for _, arg := range entry.Arguments {
			tx.Arguments = append(tx.Arguments, argumentString(arg))
		}
	}

	for _, event := range user.Events {
		tx.Events = append(tx.Events, txtrigger.Event{
			Type: event.Type,
			Data: marshalEventData(event.Data),
		})
	}

	return tx
}
