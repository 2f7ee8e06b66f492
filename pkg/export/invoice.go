package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Invoice is the printable view of a single fee record.
type Invoice struct {
	Number      string
	SchoolName  string
	StudentID   string
	StudentName string
	Grade       string
	ParentName  string
	Description string
	Amount      float64
	DueDate     string
	Status      string
	IssuedAt    time.Time
}

// InvoiceRenderer renders fee invoices into A4 PDFs.
type InvoiceRenderer struct {
	money *MoneyFormatter
}

// NewInvoiceRenderer constructs a renderer. A nil formatter defaults to USD.
func NewInvoiceRenderer(money *MoneyFormatter) *InvoiceRenderer {
	if money == nil {
		money = NewMoneyFormatter("USD", "en-US")
	}
	return &InvoiceRenderer{money: money}
}

// Render produces the invoice PDF bytes.
func (r *InvoiceRenderer) Render(inv Invoice) ([]byte, error) {
	if inv.Number == "" {
		return nil, fmt.Errorf("invoice number required")
	}
	school := inv.SchoolName
	if school == "" {
		school = "EduSphere Academy"
	}
	issued := inv.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Invoice "+inv.Number, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, school, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Fee Invoice", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	meta := [][2]string{
		{"Invoice #", inv.Number},
		{"Issued", issued.Format("2006-01-02")},
		{"Student", fmt.Sprintf("%s (%s)", inv.StudentName, inv.StudentID)},
		{"Grade", inv.Grade},
		{"Billed to", inv.ParentName},
	}
	for _, line := range meta {
		if line[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 6, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	description := inv.Description
	if description == "" {
		description = "Tuition fee"
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Due date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, inv.DueDate, "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, inv.Status, "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, r.money.Format(inv.Amount), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 8, "Total ("+r.money.Code()+")", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, r.money.Format(inv.Amount), "1", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
