package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/payments-engine/internal/errors"
	"github.com/riteshkumar/payments-engine/internal/models"
)

// ledgerEntry records an accepted charge. The charge itself never changes
// after insertion; only the disputed flag moves.
type ledgerEntry struct {
	charge   models.Transaction
	disputed bool
}

// Engine owns the account and ledger maps and applies transactions one at
// a time. It is not safe for concurrent use; callers that share an Engine
// across goroutines must serialize access themselves.
type Engine struct {
	accounts map[models.ClientID]*Account
	ledger   map[models.TxID]*ledgerEntry
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		accounts: make(map[models.ClientID]*Account),
		ledger:   make(map[models.TxID]*ledgerEntry),
		logger:   logger,
	}
}

// Apply dispatches one transaction. A returned error means the
// transaction was rejected and no state changed; the engine stays
// consistent and can keep processing.
func (e *Engine) Apply(tx models.Transaction) error {
	switch tx.Type {
	case models.TypeDeposit:
		return e.applyCharge(tx, (*Account).Deposit)
	case models.TypeWithdrawal:
		return e.applyCharge(tx, (*Account).Withdraw)
	case models.TypeDispute:
		return e.applyReference(tx, (*Account).Dispute, false)
	case models.TypeResolve:
		return e.applyReference(tx, (*Account).Resolve, true)
	case models.TypeChargeback:
		return e.applyReference(tx, (*Account).ChargeBack, true)
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}

// applyCharge handles deposits and withdrawals. The id must be fresh, and
// the ledger entry is only written after the account accepted the charge:
// a rejected withdrawal never burns its transaction id.
func (e *Engine) applyCharge(tx models.Transaction, op func(*Account, decimal.Decimal) error) error {
	if _, exists := e.ledger[tx.Tx]; exists {
		return errors.ErrDuplicateTransaction
	}
	account := e.getOrCreateAccount(tx.Client)
	if err := op(account, tx.Amount); err != nil {
		return err
	}
	e.ledger[tx.Tx] = &ledgerEntry{charge: tx}
	return nil
}

// applyReference handles dispute/resolve/chargeback. The referenced id
// must name an existing deposit; the account is resolved through the
// client stored on that deposit, and the client field on the reference
// itself is ignored. A reference that finds the entry in the wrong
// dispute state is a no-op, not an error.
func (e *Engine) applyReference(tx models.Transaction, op func(*Account, decimal.Decimal) error, wantDisputed bool) error {
	entry, exists := e.ledger[tx.Tx]
	if !exists {
		return errors.ErrUnknownTransaction
	}
	if entry.charge.Type != models.TypeDeposit {
		return errors.ErrNotDisputable
	}
	if entry.disputed != wantDisputed {
		e.logger.Debug("reference transaction ignored",
			"type", string(tx.Type),
			"tx", entry.charge.Tx,
			"disputed", entry.disputed,
		)
		return nil
	}
	account, exists := e.accounts[entry.charge.Client]
	if !exists {
		return errors.ErrUnknownAccount
	}
	if err := op(account, entry.charge.Amount); err != nil {
		return err
	}
	entry.disputed = !wantDisputed
	return nil
}

func (e *Engine) getOrCreateAccount(client models.ClientID) *Account {
	account, exists := e.accounts[client]
	if !exists {
		account = NewAccount(client)
		e.accounts[client] = account
	}
	return account
}

// Snapshot returns every account's state, sorted by client id for
// deterministic output.
func (e *Engine) Snapshot() []models.AccountSnapshot {
	snapshots := make([]models.AccountSnapshot, 0, len(e.accounts))
	for _, account := range e.accounts {
		snapshots = append(snapshots, account.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}
