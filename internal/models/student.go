package models

// SubjectScore is one subject result in a student's performance record.
type SubjectScore struct {
	Subject string `json:"subject" validate:"required"`
	Score   int    `json:"score" validate:"gte=0,lte=100"`
}

// Student is a student directory record.
type Student struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Grade          string         `json:"grade"`
	EnrollmentDate string         `json:"enrollment_date"`
	ParentID       string         `json:"parent_id"`
	ParentName     string         `json:"parent_name"`
	ParentPhone    string         `json:"parent_phone"`
	FeesPaid       bool           `json:"fees_paid"`
	Attendance     int            `json:"attendance"`
	Performance    []SubjectScore `json:"performance"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (s Student) RecordID() string       { return s.ID }
func (s Student) OwnerStudentID() string { return s.ID }
func (s Student) GradeLevel() string     { return s.Grade }

// StudentFilter narrows the student directory listing.
type StudentFilter struct {
	Search   string
	Grade    string
	Page     int
	PageSize int
}

// UpdateGradesRequest replaces a student's subject scores.
type UpdateGradesRequest struct {
	Performance []SubjectScore `json:"performance" validate:"required,min=1,dive"`
}

// UpdateStudentRequest edits directory fields of a student.
type UpdateStudentRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1"`
	Grade       *string `json:"grade" validate:"omitempty,min=1"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
	FeesPaid    *bool   `json:"fees_paid"`
}

// ProgressReport is a generated narrative for a student.
type ProgressReport struct {
	StudentID string `json:"student_id"`
	Report    string `json:"report"`
	Cached    bool   `json:"cached"`
}
