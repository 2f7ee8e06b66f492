package repository

import "github.com/noah-isme/edusphere-api/internal/models"

// SeedStudents returns the demo student directory.
func SeedStudents() []models.Student {
	return []models.Student{
		{
			ID: "S001", FirstName: "Alice", LastName: "Johnson", Grade: "10th", EnrollmentDate: "2023-09-01",
			ParentID: "P001", ParentName: "Robert Johnson", ParentPhone: "+1 555-0101", FeesPaid: true, Attendance: 95,
			Performance: []models.SubjectScore{{Subject: "Math", Score: 88}, {Subject: "Science", Score: 92}, {Subject: "History", Score: 85}, {Subject: "English", Score: 90}},
		},
		{
			ID: "S002", FirstName: "Michael", LastName: "Smith", Grade: "10th", EnrollmentDate: "2023-09-01",
			ParentID: "P002", ParentName: "Sarah Smith", ParentPhone: "+1 555-0102", FeesPaid: false, Attendance: 82,
			Performance: []models.SubjectScore{{Subject: "Math", Score: 72}, {Subject: "Science", Score: 78}, {Subject: "History", Score: 80}, {Subject: "English", Score: 75}},
		},
		{
			ID: "S003", FirstName: "Emma", LastName: "Davis", Grade: "11th", EnrollmentDate: "2022-09-01",
			ParentID: "P003", ParentName: "James Davis", ParentPhone: "+1 555-0103", FeesPaid: true, Attendance: 98,
			Performance: []models.SubjectScore{{Subject: "Math", Score: 95}, {Subject: "Science", Score: 98}, {Subject: "History", Score: 92}, {Subject: "English", Score: 96}},
		},
	}
}

// SeedTeachers returns the demo staff directory.
func SeedTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "T001", Name: "Mr. Anderson", Subject: "Mathematics", Email: "anderson@edusphere.com", Phone: "555-1111"},
		{ID: "T002", Name: "Ms. Roberts", Subject: "Science", Email: "roberts@edusphere.com", Phone: "555-2222"},
		{ID: "T003", Name: "Mrs. Clark", Subject: "English", Email: "clark@edusphere.com", Phone: "555-3333"},
	}
}

// SeedFees returns the demo fee ledger.
func SeedFees() []models.FeeRecord {
	return []models.FeeRecord{
		{ID: "F001", StudentID: "S001", StudentName: "Alice Johnson", Amount: 500, DueDate: "2024-05-01", Status: models.FeePaid},
		{ID: "F002", StudentID: "S002", StudentName: "Michael Smith", Amount: 500, DueDate: "2024-05-01", Status: models.FeeOverdue},
		{ID: "F003", StudentID: "S003", StudentName: "Emma Davis", Amount: 550, DueDate: "2024-05-01", Status: models.FeePaid},
		{ID: "F004", StudentID: "S001", StudentName: "Alice Johnson", Amount: 500, DueDate: "2024-06-01", Status: models.FeePending},
	}
}

// SeedRoutine returns the demo weekly routine.
func SeedRoutine() []models.RoutineItem {
	return []models.RoutineItem{
		{ID: "R001", Grade: "10th", Day: "Monday", StartTime: "09:00", EndTime: "10:00", Subject: "Mathematics", Teacher: "Mr. Anderson", Room: "101"},
		{ID: "R002", Grade: "10th", Day: "Monday", StartTime: "10:15", EndTime: "11:15", Subject: "Science", Teacher: "Ms. Roberts", Room: "Lab A"},
		{ID: "R003", Grade: "10th", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", Subject: "English", Teacher: "Mrs. Clark", Room: "102"},
		{ID: "R004", Grade: "11th", Day: "Monday", StartTime: "09:00", EndTime: "10:30", Subject: "Physics", Teacher: "Ms. Roberts", Room: "Lab B"},
		{ID: "R005", Grade: "10th", Day: "Wednesday", StartTime: "11:30", EndTime: "12:30", Subject: "History", Teacher: "Mr. Wright", Room: "103"},
	}
}

// SeedExams returns the demo exam sessions.
func SeedExams() []models.ExamSession {
	return []models.ExamSession{
		{ID: "E001", Title: "Mid-Term Mathematics", Grade: "10th", Subject: "Mathematics", Date: "2024-06-10", StartTime: "09:00", Duration: "2 Hours", Room: "Hall A"},
		{ID: "E002", Title: "Mid-Term Science", Grade: "10th", Subject: "Science", Date: "2024-06-12", StartTime: "09:00", Duration: "1.5 Hours", Room: "Hall A"},
		{ID: "E003", Title: "Final Physics", Grade: "11th", Subject: "Physics", Date: "2024-06-15", StartTime: "10:00", Duration: "3 Hours", Room: "Lab B"},
	}
}

// SeedAssignments returns the demo homework.
func SeedAssignments() []models.Assignment {
	return []models.Assignment{
		{ID: "A001", Title: "Quadratic Equations Practice", Subject: "Mathematics", Grade: "10th", Description: "Complete exercises 4.1 to 4.3 from the textbook.", DueDate: "2024-05-25", PostedBy: "Mr. Anderson", Status: models.AssignmentActive},
		{ID: "A002", Title: "Lab Report: Photosynthesis", Subject: "Science", Grade: "10th", Description: "Submit the lab report based on yesterdays experiment.", DueDate: "2024-05-28", PostedBy: "Ms. Roberts", Status: models.AssignmentActive},
		{ID: "A003", Title: "Essay: Shakespeare Sonnets", Subject: "English", Grade: "11th", Description: "Write a 500-word analysis of Sonnet 18.", DueDate: "2024-06-01", PostedBy: "Mrs. Clark", Status: models.AssignmentActive},
	}
}

// CloneStudent deep-copies the performance slice.
func CloneStudent(s models.Student) models.Student {
	s.Performance = append([]models.SubjectScore(nil), s.Performance...)
	return s
}

// CloneAttendance deep-copies the register entries.
func CloneAttendance(a models.AttendanceSession) models.AttendanceSession {
	a.Entries = append([]models.AttendanceEntry(nil), a.Entries...)
	return a
}

// Store groups the in-memory collections backing the API.
type Store struct {
	Students    *Collection[models.Student]
	Teachers    *Collection[models.Teacher]
	Fees        *Collection[models.FeeRecord]
	Routine     *Collection[models.RoutineItem]
	Exams       *Collection[models.ExamSession]
	Assignments *Collection[models.Assignment]
	Submissions *Collection[models.Submission]
	SMS         *Collection[models.SMSMessage]
	Attendance  *Collection[models.AttendanceSession]
	Admissions  *Collection[models.AdmissionApplication]
}

// NewSeededStore builds every collection from the demo data.
func NewSeededStore() *Store {
	return &Store{
		Students:    NewCollection("student", SeedStudents(), CloneStudent),
		Teachers:    NewCollection("teacher", SeedTeachers(), nil),
		Fees:        NewCollection("fee", SeedFees(), nil),
		Routine:     NewCollection("routine item", SeedRoutine(), nil),
		Exams:       NewCollection("exam", SeedExams(), nil),
		Assignments: NewCollection("assignment", SeedAssignments(), nil),
		Submissions: NewCollection[models.Submission]("submission", nil, nil),
		SMS:         NewCollection[models.SMSMessage]("sms", nil, nil),
		Attendance:  NewCollection[models.AttendanceSession]("attendance session", nil, CloneAttendance),
		Admissions:  NewCollection[models.AdmissionApplication]("admission", nil, nil),
	}
}

// StudentGrade reports the current grade of a student for class-scope checks.
func (s *Store) StudentGrade(id string) (string, bool) {
	st, err := s.Students.Find(id)
	if err != nil {
		return "", false
	}
	return st.Grade, true
}
