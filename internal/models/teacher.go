package models

// Teacher is a staff directory record.
type Teacher struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (t Teacher) RecordID() string       { return t.ID }
func (t Teacher) OwnerStudentID() string { return "" }
func (t Teacher) GradeLevel() string     { return "" }

// TeacherRequest creates or replaces a teacher record.
type TeacherRequest struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
}
