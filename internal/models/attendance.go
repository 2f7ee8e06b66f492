package models

import "time"

// AttendanceEntry marks one student present or absent.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

// AttendanceSession is a class register taken for a grade on a date.
type AttendanceSession struct {
	ID        string            `json:"id"`
	Grade     string            `json:"grade"`
	Date      string            `json:"date"`
	TakenBy   string            `json:"taken_by"`
	Entries   []AttendanceEntry `json:"entries"`
	Alerts    int               `json:"alerts_queued"`
	CreatedAt time.Time         `json:"created_at"`
}

func (a AttendanceSession) RecordID() string       { return a.ID }
func (a AttendanceSession) OwnerStudentID() string { return "" }
func (a AttendanceSession) GradeLevel() string     { return a.Grade }

// TakeAttendanceRequest submits the register for a grade.
type TakeAttendanceRequest struct {
	Grade   string            `json:"grade" validate:"required"`
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}
