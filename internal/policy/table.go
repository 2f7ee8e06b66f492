package policy

import "github.com/noah-isme/edusphere-api/internal/models"

type roleSet map[models.Role]struct{}

func roles(rs ...models.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

func (s roleSet) has(r models.Role) bool {
	_, ok := s[r]
	return ok
}

const (
	admin   = models.RoleAdmin
	teacher = models.RoleTeacher
	parent  = models.RoleParent
	student = models.RoleStudent
	guest   = models.RoleGuest
)

// publicRoutes are reachable without a session.
var publicRoutes = map[models.Route]struct{}{
	models.RouteHome:    {},
	models.RouteAbout:   {},
	models.RouteContact: {},
	models.RouteLogin:   {},
}

// routeTable lists, per route, every role allowed to view it. Routes missing here do not exist.
var routeTable = map[models.Route]roleSet{
	models.RouteHome:        roles(admin, teacher, parent, student, guest),
	models.RouteAbout:       roles(admin, teacher, parent, student, guest),
	models.RouteContact:     roles(admin, teacher, parent, student, guest),
	models.RouteLogin:       roles(admin, teacher, parent, student, guest),
	models.RouteDashboard:   roles(admin, teacher, parent, student),
	models.RouteStudents:    roles(admin, teacher, parent),
	models.RouteAdmission:   roles(admin),
	models.RouteTeachers:    roles(admin),
	models.RouteFees:        roles(admin, parent),
	models.RouteSMS:         roles(admin, teacher, parent),
	models.RouteSchedule:    roles(admin, teacher, parent, student),
	models.RouteAssignments: roles(admin, teacher, parent, student),
}

// actionTable lists, per action, every role allowed to perform it. No role inherits from another.
var actionTable = map[models.Action]roleSet{
	models.ActionStudentGrade:       roles(admin, teacher),
	models.ActionStudentEdit:        roles(admin),
	models.ActionStudentReport:      roles(admin, teacher, parent),
	models.ActionAdmissionSubmit:    roles(admin),
	models.ActionTeacherCreate:      roles(admin),
	models.ActionTeacherUpdate:      roles(admin),
	models.ActionTeacherDelete:      roles(admin),
	models.ActionFeeCreate:          roles(admin),
	models.ActionFeeUpdate:          roles(admin),
	models.ActionFeeDelete:          roles(admin),
	models.ActionFeePay:             roles(parent),
	models.ActionFeeInvoice:         roles(admin, parent),
	models.ActionFeeExport:          roles(admin),
	models.ActionSMSSend:            roles(admin, teacher),
	models.ActionSMSDraft:           roles(admin, teacher),
	models.ActionAssignmentPost:     roles(admin, teacher),
	models.ActionAssignmentUpdate:   roles(admin, teacher),
	models.ActionAssignmentDelete:   roles(admin, teacher),
	models.ActionAssignmentSubmit:   roles(student),
	models.ActionAssignmentDownload: roles(admin, teacher, parent, student),
	models.ActionScheduleSlotAdd:    roles(admin),
	models.ActionScheduleSlotDelete: roles(admin),
	models.ActionScheduleExamAdd:    roles(admin),
	models.ActionScheduleExamDelete: roles(admin),
	models.ActionAttendanceTake:     roles(admin, teacher),
	models.ActionAuditView:          roles(admin),
}

// Routes returns every declared route.
func Routes() []models.Route {
	out := make([]models.Route, 0, len(routeTable))
	for r := range routeTable {
		out = append(out, r)
	}
	return out
}

// Actions returns every declared action.
func Actions() []models.Action {
	out := make([]models.Action, 0, len(actionTable))
	for a := range actionTable {
		out = append(out, a)
	}
	return out
}
