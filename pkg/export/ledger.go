package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// LedgerRow is one fee line of the ledger export.
type LedgerRow struct {
	FeeID       string
	StudentID   string
	StudentName string
	Amount      float64
	DueDate     string
	Status      string
}

var ledgerHeaders = []string{"fee_id", "student_id", "student_name", "amount", "due_date", "status"}

// RenderLedgerCSV writes rows as CSV with a trailing total line.
func RenderLedgerCSV(rows []LedgerRow, money *MoneyFormatter) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(ledgerHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	var total float64
	for _, row := range rows {
		total += row.Amount
		record := []string{
			row.FeeID,
			row.StudentID,
			row.StudentName,
			strconv.FormatFloat(row.Amount, 'f', 2, 64),
			row.DueDate,
			row.Status,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	if money != nil {
		if err := writer.Write([]string{"TOTAL", "", "", money.Format(total), "", ""}); err != nil {
			return nil, fmt.Errorf("write csv total: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
