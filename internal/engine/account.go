package engine

import (
	"github.com/shopspring/decimal"

	"github.com/riteshkumar/payments-engine/internal/errors"
	"github.com/riteshkumar/payments-engine/internal/models"
)

// Account holds one client's funds. Available funds can be withdrawn or
// disputed; held funds are frozen pending dispute resolution. Once locked
// by a chargeback the account rejects every further operation.
type Account struct {
	client    models.ClientID
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
}

func NewAccount(client models.ClientID) *Account {
	return &Account{
		client:    client,
		available: decimal.Zero,
		held:      decimal.Zero,
	}
}

func (a *Account) Client() models.ClientID    { return a.client }
func (a *Account) Available() decimal.Decimal { return a.available }
func (a *Account) Held() decimal.Decimal      { return a.held }
func (a *Account) Locked() bool               { return a.locked }

// Total is available + held. Deposits increase it, withdrawals and
// chargebacks decrease it; dispute/resolve only move funds between the
// two buckets.
func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

// Deposit credits available funds. Always succeeds on an unlocked account.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := a.checkNotLocked(); err != nil {
		return err
	}
	a.available = a.available.Add(amount)
	return nil
}

// Withdraw debits available funds.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.checkNotLocked(); err != nil {
		return err
	}
	if amount.GreaterThan(a.available) {
		return errors.ErrInsufficientFunds
	}
	a.available = a.available.Sub(amount)
	return nil
}

// Dispute freezes funds by moving them from available to held. A deposit
// whose funds were already partly withdrawn cannot be disputed, since
// that would drive available negative.
func (a *Account) Dispute(amount decimal.Decimal) error {
	if err := a.checkNotLocked(); err != nil {
		return err
	}
	if amount.GreaterThan(a.available) {
		return errors.ErrInsufficientFunds
	}
	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
	return nil
}

// Resolve releases held funds back to available.
func (a *Account) Resolve(amount decimal.Decimal) error {
	if err := a.checkNotLocked(); err != nil {
		return err
	}
	if amount.GreaterThan(a.held) {
		return errors.ErrInsufficientFunds
	}
	a.held = a.held.Sub(amount)
	a.available = a.available.Add(amount)
	return nil
}

// ChargeBack removes the held funds and locks the account, as if the
// dispute were resolved and the funds immediately withdrawn. Either both
// the fund movement and the lock happen, or neither does.
func (a *Account) ChargeBack(amount decimal.Decimal) error {
	if err := a.checkNotLocked(); err != nil {
		return err
	}
	if amount.GreaterThan(a.held) {
		return errors.ErrInsufficientFunds
	}
	a.held = a.held.Sub(amount)
	a.Lock()
	return nil
}

// Lock freezes the account. Idempotent.
func (a *Account) Lock() {
	a.locked = true
}

// Snapshot renders the account's current state as an output row.
func (a *Account) Snapshot() models.AccountSnapshot {
	return models.AccountSnapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}

func (a *Account) checkNotLocked() error {
	if a.locked {
		return errors.ErrAccountLocked
	}
	return nil
}
