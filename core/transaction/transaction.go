package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrTxnInvalidState = errors.New("transaction is in an invalid state for this operation")
	ErrUnknownOpType   = errors.New("unknown operation type")
)

// TransactionState represents the in-memory state of a transaction.
type TransactionState int

const (
	TxnStateRunning   TransactionState = iota // Transaction is active, modifications are being recorded
	TxnStatePrepared                          // No more modifications; waiting for the commit/rollback decision
	TxnStateCommitted                         // Resolved as committed
	TxnStateAborted                           // Resolved as rolled back
)

func (s TransactionState) String() string {
	switch s {
	case TxnStateRunning:
		return "running"
	case TxnStatePrepared:
		return "prepared"
	case TxnStateCommitted:
		return "committed"
	case TxnStateAborted:
		return "aborted"
	}
	return fmt.Sprintf("TransactionState(%d)", int(s))
}

// Transaction owns the modification list built while it runs. It is not safe
// for concurrent use; one goroutine drives a transaction at a time.
type Transaction struct {
	ID    uint64
	State TransactionState
	mods  []Operation
}

// NewTransaction starts a running transaction.
func NewTransaction(id uint64) *Transaction {
	return &Transaction{ID: id, State: TxnStateRunning}
}

// Log appends a modification. Only running transactions accept modifications.
func (txn *Transaction) Log(op Operation) error {
	if txn.State != TxnStateRunning {
		return fmt.Errorf("txn %d: log %s while %s: %w", txn.ID, op.Type(), txn.State, ErrTxnInvalidState)
	}
	op.validate()
	txn.mods = append(txn.mods, op)
	return nil
}

// Prepare stops the transaction from accepting modifications.
func (txn *Transaction) Prepare() error {
	if txn.State != TxnStateRunning {
		return fmt.Errorf("txn %d: prepare while %s: %w", txn.ID, txn.State, ErrTxnInvalidState)
	}
	txn.State = TxnStatePrepared
	return nil
}

// Mods returns the modification list in its current order. The slice is the
// transaction's own storage and must not be kept past resolution.
func (txn *Transaction) Mods() []Operation { return txn.mods }

// SortMods sorts the modification list in place for resolution. A running
// transaction may be sorted too (rollback does not need a prepare); later Log
// calls append after the sorted prefix, so sort again before resolving.
// Sorting a resolved transaction panics.
func (txn *Transaction) SortMods() {
	if txn.State != TxnStatePrepared && txn.State != TxnStateRunning {
		panic(fmt.Sprintf("transaction: sort mods of txn %d while %s", txn.ID, txn.State))
	}
	SortOps(txn.mods)
}

// MarkResolved finishes the transaction and releases its modification list.
// A running transaction may only be rolled back.
func (txn *Transaction) MarkResolved(commit bool) error {
	switch {
	case txn.State == TxnStatePrepared:
	case txn.State == TxnStateRunning && !commit:
	default:
		return fmt.Errorf("txn %d: resolve (commit=%t) while %s: %w", txn.ID, commit, txn.State, ErrTxnInvalidState)
	}
	if commit {
		txn.State = TxnStateCommitted
	} else {
		txn.State = TxnStateAborted
	}
	txn.mods = nil
	return nil
}
