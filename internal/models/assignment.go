package models

import "time"

// AssignmentStatus tells whether submissions are accepted.
type AssignmentStatus string

const (
	AssignmentActive AssignmentStatus = "Active"
	AssignmentClosed AssignmentStatus = "Closed"
)

// Assignment is homework posted for a grade.
type Assignment struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Subject     string           `json:"subject"`
	Grade       string           `json:"grade"`
	Description string           `json:"description"`
	DueDate     string           `json:"due_date"`
	PostedBy    string           `json:"posted_by"`
	Status      AssignmentStatus `json:"status"`
}

func (a Assignment) RecordID() string       { return a.ID }
func (a Assignment) OwnerStudentID() string { return "" }
func (a Assignment) GradeLevel() string     { return a.Grade }

// Submission is a student's answer to an assignment.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      string    `json:"content"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

func (s Submission) RecordID() string       { return s.ID }
func (s Submission) OwnerStudentID() string { return s.StudentID }
func (s Submission) GradeLevel() string     { return "" }

// AssignmentRequest posts or edits an assignment.
type AssignmentRequest struct {
	Title       string           `json:"title" validate:"required"`
	Subject     string           `json:"subject" validate:"required"`
	Grade       string           `json:"grade" validate:"required"`
	Description string           `json:"description" validate:"required"`
	DueDate     string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status      AssignmentStatus `json:"status" validate:"omitempty,oneof=Active Closed"`
}

// SubmissionRequest carries a student's answer.
type SubmissionRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}
