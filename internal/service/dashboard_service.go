package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/pkg/export"
)

type snapshotter[T any] interface {
	Snapshot() []T
}

// DashboardSources are the collections the overview is computed from.
type DashboardSources struct {
	Students    snapshotter[models.Student]
	Fees        snapshotter[models.FeeRecord]
	Exams       snapshotter[models.ExamSession]
	Assignments snapshotter[models.Assignment]
	Submissions snapshotter[models.Submission]
	Admissions  snapshotter[models.AdmissionApplication]
}

// quickActionCatalog lists every shortcut; each is offered only when the policy allows it.
var quickActionCatalog = []models.QuickAction{
	{Label: "New admission", Route: models.RouteAdmission, Action: models.ActionAdmissionSubmit},
	{Label: "Take attendance", Route: models.RouteStudents, Action: models.ActionAttendanceTake},
	{Label: "Update grades", Route: models.RouteStudents, Action: models.ActionStudentGrade},
	{Label: "Post assignment", Route: models.RouteAssignments, Action: models.ActionAssignmentPost},
	{Label: "Submit assignment", Route: models.RouteAssignments, Action: models.ActionAssignmentSubmit},
	{Label: "Send SMS", Route: models.RouteSMS, Action: models.ActionSMSSend},
	{Label: "Pay fees", Route: models.RouteFees, Action: models.ActionFeePay},
	{Label: "Export ledger", Route: models.RouteFees, Action: models.ActionFeeExport},
	{Label: "Add teacher", Route: models.RouteTeachers, Action: models.ActionTeacherCreate},
	{Label: "Schedule exam", Route: models.RouteSchedule, Action: models.ActionScheduleExamAdd},
	{Label: "View schedule", Route: models.RouteSchedule},
}

// DashboardService builds the role-specific overview.
type DashboardService struct {
	src    DashboardSources
	access *Access
	money  *export.MoneyFormatter
	now    func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(src DashboardSources, access *Access, money *export.MoneyFormatter) *DashboardService {
	if money == nil {
		money = export.NewMoneyFormatter("USD", "en-US")
	}
	return &DashboardService{src: src, access: access, money: money, now: time.Now}
}

// Overview returns the widgets and quick actions for p.
func (s *DashboardService) Overview(p *models.Principal) (*models.Dashboard, error) {
	if err := s.access.Route(p, models.RouteDashboard); err != nil {
		return nil, err
	}

	dash := &models.Dashboard{Role: p.Role, QuickActions: s.quickActions(p)}
	switch p.Role {
	case models.RoleAdmin:
		dash.Title = "Admin Dashboard"
		dash.Widgets = s.adminWidgets()
	case models.RoleTeacher:
		dash.Title = "Teacher Dashboard"
		dash.Widgets = s.teacherWidgets(p)
	case models.RoleParent:
		dash.Title = "Parent Dashboard"
		dash.Widgets = s.familyWidgets(p)
	case models.RoleStudent:
		dash.Title = "Student Dashboard"
		dash.Widgets = append(s.familyWidgets(p), s.pendingAssignments(p))
	}
	return dash, nil
}

func (s *DashboardService) adminWidgets() []models.Widget {
	var revenue float64
	outstanding := 0
	month := s.now().UTC().Format("2006-01")
	for _, f := range s.src.Fees.Snapshot() {
		if f.Status != models.FeePaid {
			outstanding++
			continue
		}
		if len(f.DueDate) >= 7 && f.DueDate[:7] == month {
			revenue += f.Amount
		}
	}
	return []models.Widget{
		{Key: "total_students", Label: "Total Students", Value: len(s.src.Students.Snapshot()), Route: models.RouteStudents},
		{Key: "monthly_revenue", Label: "Revenue This Month", Value: s.money.Format(revenue), Route: models.RouteFees},
		{Key: "outstanding_fees", Label: "Outstanding Fees", Value: outstanding, Route: models.RouteFees},
		{Key: "new_admissions", Label: "New Admissions", Value: len(s.src.Admissions.Snapshot()), Route: models.RouteAdmission},
	}
}

func (s *DashboardService) teacherWidgets(p *models.Principal) []models.Widget {
	students := visible(s.access, p, s.src.Students.Snapshot(), policy.KindStudent)
	active := 0
	for _, a := range visible(s.access, p, s.src.Assignments.Snapshot(), policy.KindAssignment) {
		if a.Status == models.AssignmentActive {
			active++
		}
	}
	return []models.Widget{
		{Key: "class_students", Label: "My Students", Value: len(students), Route: models.RouteStudents},
		{Key: "active_assignments", Label: "Active Assignments", Value: active, Route: models.RouteAssignments},
	}
}

// familyWidgets serves parents and students: attendance per child, next fee where the
// fees screen is reachable, and exams.
func (s *DashboardService) familyWidgets(p *models.Principal) []models.Widget {
	widgets := make([]models.Widget, 0, 4)
	for _, st := range visible(s.access, p, s.src.Students.Snapshot(), policy.KindStudent) {
		widgets = append(widgets, models.Widget{
			Key:   "attendance_" + st.ID,
			Label: st.FirstName + "'s Attendance",
			Value: fmt.Sprintf("%d%%", st.Attendance),
		})
	}

	if s.access.Evaluator().CanAccessRoute(p.Role, models.RouteFees) {
		widgets = append(widgets, s.nextFeeDue(p))
	}

	today := s.now().UTC().Format("2006-01-02")
	upcoming := 0
	for _, e := range visible(s.access, p, s.src.Exams.Snapshot(), policy.KindSchedule) {
		if e.Date >= today {
			upcoming++
		}
	}
	return append(widgets, models.Widget{Key: "upcoming_exams", Label: "Upcoming Exams", Value: upcoming, Route: models.RouteSchedule})
}

func (s *DashboardService) nextFeeDue(p *models.Principal) models.Widget {
	var due []models.FeeRecord
	for _, f := range visible(s.access, p, s.src.Fees.Snapshot(), policy.KindFee) {
		if f.Status != models.FeePaid {
			due = append(due, f)
		}
	}
	next := models.Widget{Key: "next_fee_due", Label: "Next Fee Due", Value: "None", Route: models.RouteFees}
	if len(due) > 0 {
		sort.SliceStable(due, func(i, j int) bool { return due[i].DueDate < due[j].DueDate })
		next.Value = fmt.Sprintf("%s on %s", s.money.Format(due[0].Amount), due[0].DueDate)
	}
	return next
}

func (s *DashboardService) pendingAssignments(p *models.Principal) models.Widget {
	done := make(map[string]struct{})
	for _, sub := range visible(s.access, p, s.src.Submissions.Snapshot(), policy.KindSubmission) {
		done[sub.AssignmentID] = struct{}{}
	}
	pending := 0
	for _, a := range visible(s.access, p, s.src.Assignments.Snapshot(), policy.KindAssignment) {
		if _, ok := done[a.ID]; !ok && a.Status == models.AssignmentActive {
			pending++
		}
	}
	return models.Widget{Key: "pending_assignments", Label: "Pending Assignments", Value: pending, Route: models.RouteAssignments}
}

func (s *DashboardService) quickActions(p *models.Principal) []models.QuickAction {
	e := s.access.Evaluator()
	candidates := make([]models.Action, 0, len(quickActionCatalog))
	for _, qa := range quickActionCatalog {
		if qa.Action != "" {
			candidates = append(candidates, qa.Action)
		}
	}
	allowed := make(map[models.Action]struct{})
	for _, a := range e.AllowedActions(p.Role, candidates...) {
		allowed[a] = struct{}{}
	}

	out := make([]models.QuickAction, 0, len(quickActionCatalog))
	for _, qa := range quickActionCatalog {
		if !e.CanAccessRoute(p.Role, qa.Route) {
			continue
		}
		if _, ok := allowed[qa.Action]; qa.Action != "" && !ok {
			continue
		}
		out = append(out, qa)
	}
	return out
}
