package models

import "time"

// SMSStatus is the delivery state of an outbound message.
type SMSStatus string

const (
	SMSQueued SMSStatus = "Queued"
	SMSSent   SMSStatus = "Sent"
	SMSFailed SMSStatus = "Failed"
)

// SMSMaxLength bounds a single message body.
const SMSMaxLength = 160

// SMSMessage is an outbound message to a parent about one student.
type SMSMessage struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Recipient string    `json:"recipient"`
	Phone     string    `json:"phone"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Status    SMSStatus `json:"status"`
	SentBy    string    `json:"sent_by,omitempty"`
}

func (m SMSMessage) RecordID() string       { return m.ID }
func (m SMSMessage) OwnerStudentID() string { return m.StudentID }
func (m SMSMessage) GradeLevel() string     { return "" }

// SendSMSRequest queues a message to the parent of StudentID.
type SendSMSRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=160"`
}

// DraftSMSRequest asks the generator for a message about Topic.
type DraftSMSRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Topic     string `json:"topic" validate:"required,max=200"`
}

// SMSDraft is a generated message body awaiting review.
type SMSDraft struct {
	StudentID string `json:"student_id"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}
