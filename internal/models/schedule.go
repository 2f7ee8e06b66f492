package models

// Weekday names accepted for routine slots, in teaching order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// RoutineItem is one weekly class slot.
type RoutineItem struct {
	ID        string `json:"id"`
	Grade     string `json:"grade"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher"`
	Room      string `json:"room"`
}

func (r RoutineItem) RecordID() string       { return r.ID }
func (r RoutineItem) OwnerStudentID() string { return "" }
func (r RoutineItem) GradeLevel() string     { return r.Grade }

// ExamSession is a scheduled exam for a grade.
type ExamSession struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Grade     string `json:"grade"`
	Subject   string `json:"subject"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
	Room      string `json:"room"`
}

func (e ExamSession) RecordID() string       { return e.ID }
func (e ExamSession) OwnerStudentID() string { return "" }
func (e ExamSession) GradeLevel() string     { return e.Grade }

// DayRoutine groups the slots of one weekday, sorted by start time.
type DayRoutine struct {
	Day   string        `json:"day"`
	Slots []RoutineItem `json:"slots"`
}

// WeeklySchedule is the routine and exam view for one grade.
type WeeklySchedule struct {
	Grade   string        `json:"grade"`
	Routine []DayRoutine  `json:"routine"`
	Exams   []ExamSession `json:"exams"`
}

// RoutineItemRequest adds a weekly slot.
type RoutineItemRequest struct {
	Grade     string `json:"grade" validate:"required"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Subject   string `json:"subject" validate:"required"`
	Teacher   string `json:"teacher" validate:"required"`
	Room      string `json:"room" validate:"required"`
}

// ExamSessionRequest schedules an exam.
type ExamSessionRequest struct {
	Title     string `json:"title" validate:"required"`
	Grade     string `json:"grade" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	Duration  string `json:"duration" validate:"required"`
	Room      string `json:"room" validate:"required"`
}
