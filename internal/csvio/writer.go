package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/riteshkumar/payments-engine/internal/models"
)

// Write renders account snapshots as CSV rows with four-decimal amounts.
// Batch output carries the header row; service-mode replies omit it.
func Write(w io.Writer, snapshots []models.AccountSnapshot, header bool) error {
	writer := csv.NewWriter(w)
	if header {
		if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
	}
	for _, snapshot := range snapshots {
		record := []string{
			strconv.FormatUint(uint64(snapshot.Client), 10),
			snapshot.Available.StringFixed(models.AmountPrecision),
			snapshot.Held.StringFixed(models.AmountPrecision),
			snapshot.Total.StringFixed(models.AmountPrecision),
			strconv.FormatBool(snapshot.Locked),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write account row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
