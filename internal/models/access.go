package models

// Route is a named destination guarded by the access policy.
type Route string

const (
	RouteHome        Route = "home"
	RouteAbout       Route = "about"
	RouteContact     Route = "contact"
	RouteLogin       Route = "login"
	RouteDashboard   Route = "dashboard"
	RouteStudents    Route = "students"
	RouteAdmission   Route = "admission"
	RouteTeachers    Route = "teachers"
	RouteFees        Route = "fees"
	RouteSMS         Route = "sms"
	RouteSchedule    Route = "schedule"
	RouteAssignments Route = "assignments"
)

// Action is a mutating or privileged operation kind.
type Action string

const (
	ActionStudentGrade       Action = "student.grade"
	ActionStudentEdit        Action = "student.edit"
	ActionStudentReport      Action = "student.report"
	ActionAdmissionSubmit    Action = "admission.submit"
	ActionTeacherCreate      Action = "teacher.create"
	ActionTeacherUpdate      Action = "teacher.update"
	ActionTeacherDelete      Action = "teacher.delete"
	ActionFeeCreate          Action = "fee.create"
	ActionFeeUpdate          Action = "fee.update"
	ActionFeeDelete          Action = "fee.delete"
	ActionFeePay             Action = "fee.pay"
	ActionFeeInvoice         Action = "fee.invoice"
	ActionFeeExport          Action = "fee.export"
	ActionSMSSend            Action = "sms.send"
	ActionSMSDraft           Action = "sms.draft"
	ActionAssignmentPost     Action = "assignment.post"
	ActionAssignmentUpdate   Action = "assignment.update"
	ActionAssignmentDelete   Action = "assignment.delete"
	ActionAssignmentSubmit   Action = "assignment.submit"
	ActionAssignmentDownload Action = "assignment.download"
	ActionScheduleSlotAdd    Action = "schedule.slot.add"
	ActionScheduleSlotDelete Action = "schedule.slot.delete"
	ActionScheduleExamAdd    Action = "schedule.exam.add"
	ActionScheduleExamDelete Action = "schedule.exam.delete"
	ActionAttendanceTake     Action = "attendance.take"
	ActionAuditView          Action = "audit.view"
)
