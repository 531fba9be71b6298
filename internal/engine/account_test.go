package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/payments-engine/internal/errors"
)

func TestAccountDepositAndWithdraw(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("10.5")))
	require.NoError(t, a.Withdraw(decimal.RequireFromString("4.5")))

	assert.True(t, a.Available().Equal(decimal.RequireFromString("6.0")))
	assert.True(t, a.Held().IsZero())
	assert.True(t, a.Total().Equal(decimal.RequireFromString("6.0")))
}

func TestAccountWithdrawExactBalance(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("1.0")))
	require.NoError(t, a.Withdraw(decimal.RequireFromString("1.0")))
	assert.True(t, a.Available().IsZero())
}

func TestAccountLockedRejectsEverything(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("5.0")))
	a.Lock()

	amount := decimal.RequireFromString("1.0")
	require.ErrorIs(t, a.Deposit(amount), errors.ErrAccountLocked)
	require.ErrorIs(t, a.Withdraw(amount), errors.ErrAccountLocked)
	require.ErrorIs(t, a.Dispute(amount), errors.ErrAccountLocked)
	require.ErrorIs(t, a.Resolve(amount), errors.ErrAccountLocked)
	require.ErrorIs(t, a.ChargeBack(amount), errors.ErrAccountLocked)

	// no mutation happened
	assert.True(t, a.Available().Equal(decimal.RequireFromString("5.0")))
	assert.True(t, a.Held().IsZero())
}

func TestAccountLockIdempotent(t *testing.T) {
	a := NewAccount(1)
	a.Lock()
	a.Lock()
	assert.True(t, a.Locked())
}

func TestAccountDisputeAndResolveKeepTotal(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("3.0")))
	total := a.Total()

	require.NoError(t, a.Dispute(decimal.RequireFromString("2.0")))
	assert.True(t, a.Total().Equal(total))
	assert.True(t, a.Held().Equal(decimal.RequireFromString("2.0")))

	require.NoError(t, a.Resolve(decimal.RequireFromString("2.0")))
	assert.True(t, a.Total().Equal(total))
	assert.True(t, a.Held().IsZero())
}

func TestAccountResolveMoreThanHeld(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("3.0")))
	require.NoError(t, a.Dispute(decimal.RequireFromString("1.0")))
	require.ErrorIs(t, a.Resolve(decimal.RequireFromString("2.0")), errors.ErrInsufficientFunds)
}

func TestAccountChargeBackAtomic(t *testing.T) {
	a := NewAccount(1)
	require.NoError(t, a.Deposit(decimal.RequireFromString("3.0")))
	require.NoError(t, a.Dispute(decimal.RequireFromString("1.0")))

	// more than held: nothing moves and the account stays unlocked
	require.ErrorIs(t, a.ChargeBack(decimal.RequireFromString("2.0")), errors.ErrInsufficientFunds)
	assert.False(t, a.Locked())
	assert.True(t, a.Held().Equal(decimal.RequireFromString("1.0")))
	assert.True(t, a.Available().Equal(decimal.RequireFromString("2.0")))

	require.NoError(t, a.ChargeBack(decimal.RequireFromString("1.0")))
	assert.True(t, a.Locked())
	assert.True(t, a.Held().IsZero())
	assert.True(t, a.Available().Equal(decimal.RequireFromString("2.0")))
}

func TestAccountSnapshot(t *testing.T) {
	a := NewAccount(7)
	require.NoError(t, a.Deposit(decimal.RequireFromString("2.0")))
	require.NoError(t, a.Dispute(decimal.RequireFromString("0.5")))

	snapshot := a.Snapshot()
	assert.EqualValues(t, 7, snapshot.Client)
	assert.True(t, snapshot.Available.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, snapshot.Held.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, snapshot.Total.Equal(decimal.RequireFromString("2.0")))
	assert.False(t, snapshot.Locked)
}
