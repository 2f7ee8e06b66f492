package models

import "time"

// AdmissionStatus tracks an application through review.
type AdmissionStatus string

const (
	AdmissionSubmitted AdmissionStatus = "Submitted"
	AdmissionAccepted  AdmissionStatus = "Accepted"
)

// AdmissionApplication is a new-enrollment request captured by the admission form.
type AdmissionApplication struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	BirthDate      string          `json:"birth_date"`
	Gender         string          `json:"gender"`
	Grade          string          `json:"grade"`
	PreviousSchool string          `json:"previous_school,omitempty"`
	ParentName     string          `json:"parent_name"`
	ParentPhone    string          `json:"parent_phone"`
	ParentEmail    string          `json:"parent_email"`
	Status         AdmissionStatus `json:"status"`
	StudentID      string          `json:"student_id,omitempty"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// AdmissionRequest is the payload of the admission form.
type AdmissionRequest struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female Other"`
	Grade          string `json:"grade" validate:"required"`
	PreviousSchool string `json:"previous_school"`
	ParentName     string `json:"parent_name" validate:"required"`
	ParentPhone    string `json:"parent_phone" validate:"required"`
	ParentEmail    string `json:"parent_email" validate:"required,email"`
}

func (a AdmissionApplication) RecordID() string { return a.ID }
