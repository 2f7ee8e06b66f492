package policy

import (
	"github.com/noah-isme/edusphere-api/internal/models"
)

// Evaluator answers route, action and visibility questions from the static tables.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	teacherScopes map[string]map[string]struct{}
	studentGrade  GradeLookup
}

// GradeLookup resolves a student's current grade.
type GradeLookup func(studentID string) (string, bool)

// NewEvaluator builds an evaluator. teacherScopes maps a teacher ID to the grades
// they are assigned to; teachers without an entry see every grade.
func NewEvaluator(teacherScopes map[string][]string) *Evaluator {
	scopes := make(map[string]map[string]struct{}, len(teacherScopes))
	for id, grades := range teacherScopes {
		if len(grades) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(grades))
		for _, g := range grades {
			set[g] = struct{}{}
		}
		scopes[id] = set
	}
	return &Evaluator{teacherScopes: scopes}
}

// WithStudentGrades lets class-scoped teachers see records that carry only an
// owning student. Without it such records are hidden from scoped teachers.
func (e *Evaluator) WithStudentGrades(lookup GradeLookup) *Evaluator {
	e.studentGrade = lookup
	return e
}

// HasRoute reports whether route is declared.
func (e *Evaluator) HasRoute(route models.Route) bool {
	_, ok := routeTable[route]
	return ok
}

// HasAction reports whether action is declared.
func (e *Evaluator) HasAction(action models.Action) bool {
	_, ok := actionTable[action]
	return ok
}

// IsPublic reports whether route is reachable without a session.
func (e *Evaluator) IsPublic(route models.Route) bool {
	_, ok := publicRoutes[route]
	return ok
}

// CanAccessRoute reports whether role may view route. Unknown routes are denied.
func (e *Evaluator) CanAccessRoute(role models.Role, route models.Route) bool {
	allowed, ok := routeTable[route]
	if !ok {
		return false
	}
	if role == "" {
		role = models.RoleGuest
	}
	return allowed.has(role)
}

// AuthorizeRoute classifies a route request. A nil principal is treated as Guest.
func (e *Evaluator) AuthorizeRoute(p *models.Principal, route models.Route) Decision {
	if !e.HasRoute(route) {
		return UnknownRoute
	}
	role := roleOf(p)
	if e.CanAccessRoute(role, route) {
		return Allowed
	}
	if role == models.RoleGuest {
		return Unauthenticated
	}
	return Forbidden
}

// CanPerformAction reports whether role may perform action. Unknown actions are denied.
func (e *Evaluator) CanPerformAction(role models.Role, action models.Action) bool {
	allowed, ok := actionTable[action]
	if !ok {
		return false
	}
	return allowed.has(role)
}

// AuthorizeAction classifies an action request. A nil principal is treated as Guest.
func (e *Evaluator) AuthorizeAction(p *models.Principal, action models.Action) Decision {
	if !e.HasAction(action) {
		return UnknownAction
	}
	role := roleOf(p)
	if e.CanPerformAction(role, action) {
		return Allowed
	}
	if role == models.RoleGuest {
		return Unauthenticated
	}
	return Forbidden
}

// AllowedActions returns, in declaration order of candidates, the actions role may perform.
func (e *Evaluator) AllowedActions(role models.Role, candidates ...models.Action) []models.Action {
	out := make([]models.Action, 0, len(candidates))
	for _, a := range candidates {
		if e.CanPerformAction(role, a) {
			out = append(out, a)
		}
	}
	return out
}

// TeacherScope returns the grades assigned to teacherID and whether a scope is configured.
func (e *Evaluator) TeacherScope(teacherID string) ([]string, bool) {
	set, ok := e.teacherScopes[teacherID]
	if !ok {
		return nil, false
	}
	grades := make([]string, 0, len(set))
	for g := range set {
		grades = append(grades, g)
	}
	return grades, true
}

func roleOf(p *models.Principal) models.Role {
	if p.IsGuest() {
		return models.RoleGuest
	}
	return p.Role
}
