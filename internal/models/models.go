package models

import (
	"github.com/shopspring/decimal"
)

// ClientID identifies one account. The first charge referencing an id
// creates the account.
type ClientID uint16

// TxID is globally unique across the whole stream, not per client.
type TxID uint32

// AmountPrecision is the number of fractional digits used when rendering
// amounts. Internal arithmetic is exact decimal arithmetic.
const AmountPrecision = 4

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// Transaction is one input event. Amount is only meaningful for deposit
// and withdrawal; dispute/resolve/chargeback carry just a reference to a
// prior charge via Tx.
type Transaction struct {
	Type   TransactionType `json:"type"`
	Client ClientID        `json:"client"`
	Tx     TxID            `json:"tx"`
	Amount decimal.Decimal `json:"amount"`
}

// IsCharge reports whether the transaction carries an amount of its own.
func (t Transaction) IsCharge() bool {
	return t.Type == TypeDeposit || t.Type == TypeWithdrawal
}

// AccountSnapshot is one row of engine output.
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
