package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFormatter(t *testing.T) {
	money := NewMoneyFormatter("USD", "en-US")
	assert.Equal(t, "$1,050.00", money.Format(1050))
	assert.Equal(t, "$500.00", money.Format(500))
	assert.Equal(t, "USD", money.Code())
}

func TestMoneyFormatterSymbolSpacing(t *testing.T) {
	euro := NewMoneyFormatter("EUR", "en-US")
	assert.Equal(t, "€12.50", euro.Format(12.5))

	franc := NewMoneyFormatter("CHF", "en-US")
	assert.Equal(t, "CHF 12.50", franc.Format(12.5))
}

func TestMoneyFormatterFallback(t *testing.T) {
	money := NewMoneyFormatter("???", "not a locale")
	assert.Equal(t, "USD", money.Code())
}

func TestRenderLedgerCSV(t *testing.T) {
	rows := []LedgerRow{
		{FeeID: "F001", StudentID: "S001", StudentName: "Alice Johnson", Amount: 500, DueDate: "2024-01-15", Status: "Paid"},
		{FeeID: "F002", StudentID: "S002", StudentName: "Michael Smith", Amount: 500, DueDate: "2024-01-15", Status: "Overdue"},
	}
	out, err := RenderLedgerCSV(rows, NewMoneyFormatter("USD", "en-US"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "fee_id,student_id,student_name,amount,due_date,status", lines[0])
	assert.Equal(t, "F001,S001,Alice Johnson,500.00,2024-01-15,Paid", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "TOTAL,"))
	assert.Contains(t, lines[3], "1,000.00")
}

func TestRenderLedgerCSVWithoutTotal(t *testing.T) {
	out, err := RenderLedgerCSV(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "fee_id,student_id,student_name,amount,due_date,status\n", string(out))
}

func TestInvoiceRenderer(t *testing.T) {
	renderer := NewInvoiceRenderer(nil)
	out, err := renderer.Render(Invoice{
		Number:      "INV-F004",
		StudentID:   "S001",
		StudentName: "Alice Johnson",
		Amount:      500,
		DueDate:     "2024-06-01",
		Status:      "Pending",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestInvoiceRendererRequiresNumber(t *testing.T) {
	_, err := NewInvoiceRenderer(nil).Render(Invoice{})
	assert.Error(t, err)
}
