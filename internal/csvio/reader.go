package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/payments-engine/internal/models"
)

// ReadAll parses a transaction stream in CSV form. The header row
// `type,client,tx,amount` is required; fields are trimmed of surrounding
// whitespace. Malformed records are dropped from the stream rather than
// aborting the run, so a bad row costs one transaction, not the batch.
func ReadAll(r io.Reader, logger *slog.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var transactions []models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Debug("skipping unreadable record", "error", err.Error())
			continue
		}
		tx, err := fromRecord(record, columns)
		if err != nil {
			logger.Debug("skipping malformed record", "error", err.Error())
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// ParseLine parses a single service-mode request of the form
// `type,client,tx[,amount]`, positional, no header. Unlike batch input,
// a malformed line is reported to the caller rather than dropped.
func ParseLine(line string) (models.Transaction, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 3 || len(fields) > 4 {
		return models.Transaction{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}
	columns := map[string]int{"type": 0, "client": 1, "tx": 2}
	if len(fields) == 4 {
		columns["amount"] = 3
	}
	return fromRecord(fields, columns)
}

func fromRecord(record []string, columns map[string]int) (models.Transaction, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	txType := models.TransactionType(field("type"))
	switch txType {
	case models.TypeDeposit, models.TypeWithdrawal, models.TypeDispute, models.TypeResolve, models.TypeChargeback:
	default:
		return models.Transaction{}, fmt.Errorf("unknown transaction type %q", field("type"))
	}

	client, err := strconv.ParseUint(field("client"), 10, 16)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid client id %q", field("client"))
	}
	txID, err := strconv.ParseUint(field("tx"), 10, 32)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid transaction id %q", field("tx"))
	}

	tx := models.Transaction{
		Type:   txType,
		Client: models.ClientID(client),
		Tx:     models.TxID(txID),
	}

	if tx.IsCharge() {
		raw := field("amount")
		if raw == "" {
			return models.Transaction{}, fmt.Errorf("%s requires an amount", txType)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("invalid amount %q", raw)
		}
		if amount.IsNegative() {
			return models.Transaction{}, fmt.Errorf("amount must be non-negative, got %s", raw)
		}
		tx.Amount = amount
	}
	return tx, nil
}
