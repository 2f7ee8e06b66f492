package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
)

// Access is the single gate services use to consult the policy evaluator.
// It adds logging, metrics and auditing around each decision.
type Access struct {
	evaluator *policy.Evaluator
	metrics   *MetricsService
	audit     *AuditService
	logger    *zap.Logger
}

// NewAccess wires an Access gate. Only evaluator is required.
func NewAccess(evaluator *policy.Evaluator, metrics *MetricsService, audit *AuditService, logger *zap.Logger) *Access {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Access{evaluator: evaluator, metrics: metrics, audit: audit, logger: logger}
}

// Evaluator exposes the underlying evaluator.
func (a *Access) Evaluator() *policy.Evaluator {
	return a.evaluator
}

// Route authorizes p for route and returns the mapped API error on denial.
func (a *Access) Route(p *models.Principal, route models.Route) error {
	d := a.evaluator.AuthorizeRoute(p, route)
	a.observe("route", string(route), p, d)
	return d.Err()
}

// Action authorizes p for action. Denials are audited.
func (a *Access) Action(ctx context.Context, p *models.Principal, action models.Action) error {
	d := a.evaluator.AuthorizeAction(p, action)
	a.observe("action", string(action), p, d)
	if !d.Allowed() {
		a.audit.Record(ctx, AuditEntry{Principal: p, Action: string(action), Resource: "policy", Outcome: models.AuditDenied, Details: map[string]interface{}{"decision": d.String()}})
	}
	return d.Err()
}

// Can reports whether p's role may perform action, without logging.
func (a *Access) Can(p *models.Principal, action models.Action) bool {
	if p.IsGuest() {
		return false
	}
	return a.evaluator.CanPerformAction(p.Role, action)
}

func (a *Access) observe(kind, subject string, p *models.Principal, d policy.Decision) {
	role := models.RoleGuest
	if !p.IsGuest() {
		role = p.Role
	}
	a.metrics.RecordDecision(kind, subject, string(role), d.String())
	if !d.Allowed() {
		a.logger.Debug("policy denied",
			zap.String("kind", kind),
			zap.String("subject", subject),
			zap.String("role", string(role)),
			zap.String("decision", d.String()),
		)
	}
}

// visibleRecord fetches-then-checks a single record for p.
func visibleRecord[T policy.Record](a *Access, p *models.Principal, rec T, kind policy.RecordKind) error {
	return policy.AuthorizeRecord(a.evaluator, p, rec, kind).Err()
}

// visible filters records for p.
func visible[T policy.Record](a *Access, p *models.Principal, records []T, kind policy.RecordKind) []T {
	return policy.FilterVisible(a.evaluator, p, records, kind)
}
