package errors

import (
	"errors"
)

// Domain error types for the payments engine
var (
	ErrAccountLocked        = errors.New("account is locked")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateTransaction = errors.New("transaction id already exists")
	ErrUnknownTransaction   = errors.New("transaction id not found")
	ErrNotDisputable        = errors.New("only deposits can be disputed")
	ErrUnknownAccount       = errors.New("account not found")
)

func IsAccountLocked(err error) bool {
	return errors.Is(err, ErrAccountLocked)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsDuplicateTransaction(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

func IsUnknownTransaction(err error) bool {
	return errors.Is(err, ErrUnknownTransaction)
}

func IsNotDisputable(err error) bool {
	return errors.Is(err, ErrNotDisputable)
}
