package models

// FeeStatus is the payment state of a fee record.
type FeeStatus string

const (
	FeePaid    FeeStatus = "Paid"
	FeePending FeeStatus = "Pending"
	FeeOverdue FeeStatus = "Overdue"
)

// FeeRecord is a billed amount owned by one student.
type FeeRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Amount      float64   `json:"amount"`
	DueDate     string    `json:"due_date"`
	Status      FeeStatus `json:"status"`
}

func (f FeeRecord) RecordID() string       { return f.ID }
func (f FeeRecord) OwnerStudentID() string { return f.StudentID }
func (f FeeRecord) GradeLevel() string     { return "" }

// FeeRequest creates or edits a fee record.
type FeeRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"gt=0"`
	DueDate   string    `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status    FeeStatus `json:"status" validate:"omitempty,oneof=Paid Pending Overdue"`
}

// InvoiceLink is a signed, time-limited download link for a rendered invoice.
type InvoiceLink struct {
	FeeID     string `json:"fee_id"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}
