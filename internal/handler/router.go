package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edusphere-api/internal/middleware"
	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/service"
)

// Binding ties an HTTP endpoint to the policy route that guards it.
type Binding struct {
	Method string
	Path   string
	Route  models.Route
	// Action adds a role check in front of handlers whose service does not
	// authorize the action itself.
	Action models.Action
	// Signed endpoints are authorized by a signed token instead of the session.
	Signed bool
	// Throttled endpoints share the per-IP rate limiter.
	Throttled bool
	// Audit names the audit action recorded after a successful response.
	Audit   string
	Handler gin.HandlerFunc
}

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth        *AuthHandler
	Access      *AccessHandler
	Dashboard   *DashboardHandler
	Students    *StudentHandler
	Teachers    *TeacherHandler
	Fees        *FeeHandler
	Schedule    *ScheduleHandler
	Assignments *AssignmentHandler
	Attendance  *AttendanceHandler
	SMS         *SMSHandler
	Audit       *AuditHandler
}

// Routes returns the API surface relative to the API prefix.
func Routes(h *Handlers) []Binding {
	return []Binding{
		{Method: http.MethodPost, Path: "/auth/login", Route: models.RouteLogin, Throttled: true, Handler: h.Auth.Login},
		{Method: http.MethodPost, Path: "/auth/logout", Route: models.RouteHome, Handler: h.Auth.Logout},
		{Method: http.MethodGet, Path: "/auth/me", Route: models.RouteHome, Handler: h.Auth.Me},

		{Method: http.MethodGet, Path: "/access/navigation", Route: models.RouteHome, Handler: h.Access.Navigation},
		{Method: http.MethodGet, Path: "/access/check", Route: models.RouteHome, Handler: h.Access.Check},

		{Method: http.MethodGet, Path: "/dashboard", Route: models.RouteDashboard, Handler: h.Dashboard.Overview},

		{Method: http.MethodGet, Path: "/students", Route: models.RouteStudents, Handler: h.Students.List},
		{Method: http.MethodGet, Path: "/students/:id", Route: models.RouteStudents, Handler: h.Students.Get},
		{Method: http.MethodPatch, Path: "/students/:id", Route: models.RouteStudents, Handler: h.Students.Update},
		{Method: http.MethodPut, Path: "/students/:id/grades", Route: models.RouteStudents, Handler: h.Students.UpdateGrades},
		{Method: http.MethodPost, Path: "/students/:id/report", Route: models.RouteStudents, Throttled: true, Handler: h.Students.ProgressReport},
		{Method: http.MethodPost, Path: "/admissions", Route: models.RouteAdmission, Handler: h.Students.SubmitAdmission},

		{Method: http.MethodGet, Path: "/teachers", Route: models.RouteTeachers, Handler: h.Teachers.List},
		{Method: http.MethodPost, Path: "/teachers", Route: models.RouteTeachers, Handler: h.Teachers.Create},
		{Method: http.MethodPut, Path: "/teachers/:id", Route: models.RouteTeachers, Handler: h.Teachers.Update},
		{Method: http.MethodDelete, Path: "/teachers/:id", Route: models.RouteTeachers, Handler: h.Teachers.Delete},

		{Method: http.MethodGet, Path: "/fees", Route: models.RouteFees, Handler: h.Fees.List},
		{Method: http.MethodGet, Path: "/fees/ledger", Route: models.RouteFees, Handler: h.Fees.Ledger},
		{Method: http.MethodGet, Path: "/fees/invoices/download", Signed: true, Audit: "invoice.download", Handler: h.Fees.DownloadInvoice},
		{Method: http.MethodGet, Path: "/fees/:id", Route: models.RouteFees, Handler: h.Fees.Get},
		{Method: http.MethodPost, Path: "/fees", Route: models.RouteFees, Handler: h.Fees.Create},
		{Method: http.MethodPut, Path: "/fees/:id", Route: models.RouteFees, Handler: h.Fees.Update},
		{Method: http.MethodDelete, Path: "/fees/:id", Route: models.RouteFees, Handler: h.Fees.Delete},
		{Method: http.MethodPost, Path: "/fees/:id/pay", Route: models.RouteFees, Handler: h.Fees.Pay},
		{Method: http.MethodPost, Path: "/fees/:id/invoice", Route: models.RouteFees, Handler: h.Fees.Invoice},

		{Method: http.MethodGet, Path: "/schedule", Route: models.RouteSchedule, Handler: h.Schedule.Weekly},
		{Method: http.MethodPost, Path: "/schedule/slots", Route: models.RouteSchedule, Handler: h.Schedule.AddSlot},
		{Method: http.MethodDelete, Path: "/schedule/slots/:id", Route: models.RouteSchedule, Handler: h.Schedule.DeleteSlot},
		{Method: http.MethodPost, Path: "/schedule/exams", Route: models.RouteSchedule, Handler: h.Schedule.AddExam},
		{Method: http.MethodDelete, Path: "/schedule/exams/:id", Route: models.RouteSchedule, Handler: h.Schedule.DeleteExam},

		{Method: http.MethodGet, Path: "/assignments", Route: models.RouteAssignments, Handler: h.Assignments.List},
		{Method: http.MethodGet, Path: "/assignments/:id", Route: models.RouteAssignments, Handler: h.Assignments.Get},
		{Method: http.MethodPost, Path: "/assignments", Route: models.RouteAssignments, Handler: h.Assignments.Post},
		{Method: http.MethodPut, Path: "/assignments/:id", Route: models.RouteAssignments, Handler: h.Assignments.Update},
		{Method: http.MethodDelete, Path: "/assignments/:id", Route: models.RouteAssignments, Handler: h.Assignments.Delete},
		{Method: http.MethodPost, Path: "/assignments/:id/submissions", Route: models.RouteAssignments, Handler: h.Assignments.Submit},
		{Method: http.MethodGet, Path: "/assignments/:id/submissions", Route: models.RouteAssignments, Handler: h.Assignments.Submissions},
		{Method: http.MethodGet, Path: "/assignments/:id/download", Route: models.RouteAssignments, Audit: "assignment.download", Handler: h.Assignments.Download},

		{Method: http.MethodGet, Path: "/attendance", Route: models.RouteStudents, Handler: h.Attendance.History},
		{Method: http.MethodPost, Path: "/attendance", Route: models.RouteStudents, Handler: h.Attendance.Take},

		{Method: http.MethodGet, Path: "/sms", Route: models.RouteSMS, Handler: h.SMS.Outbox},
		{Method: http.MethodPost, Path: "/sms", Route: models.RouteSMS, Handler: h.SMS.Send},
		{Method: http.MethodPost, Path: "/sms/draft", Route: models.RouteSMS, Throttled: true, Handler: h.SMS.Draft},

		{Method: http.MethodGet, Path: "/audit", Route: models.RouteDashboard, Action: models.ActionAuditView, Handler: h.Audit.Recent},
	}
}

// Register mounts bindings on r. Every binding must name a declared route, or be
// signed, and any action must be declared; otherwise nothing is mounted.
func Register(r gin.IRouter, access *service.Access, audit *service.AuditService, limiter gin.HandlerFunc, bindings []Binding) error {
	evaluator := access.Evaluator()
	for _, b := range bindings {
		if b.Handler == nil {
			return fmt.Errorf("binding %s %s: missing handler", b.Method, b.Path)
		}
		if b.Route == "" && !b.Signed {
			return fmt.Errorf("binding %s %s: no route guard", b.Method, b.Path)
		}
		if b.Route != "" && !evaluator.HasRoute(b.Route) {
			return fmt.Errorf("binding %s %s: unknown route %q", b.Method, b.Path, b.Route)
		}
		if b.Action != "" && !evaluator.HasAction(b.Action) {
			return fmt.Errorf("binding %s %s: unknown action %q", b.Method, b.Path, b.Action)
		}
	}

	for _, b := range bindings {
		chain := make([]gin.HandlerFunc, 0, 5)
		if b.Throttled && limiter != nil {
			chain = append(chain, limiter)
		}
		if !b.Signed {
			chain = append(chain, middleware.RequireRoute(access, b.Route))
		}
		if b.Action != "" {
			chain = append(chain, middleware.RequireAction(access, b.Action))
		}
		if b.Audit != "" {
			chain = append(chain, middleware.Audit(audit, b.Audit, resourceOf(b.Path)))
		}
		chain = append(chain, b.Handler)
		r.Handle(b.Method, b.Path, chain...)
	}
	return nil
}

func resourceOf(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return segment
}
