package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditEntry is what callers know about an audited event.
type AuditEntry struct {
	Principal  *models.Principal
	Action     string
	Resource   string
	ResourceID string
	Outcome    string
	Details    map[string]interface{}
	IP         string
	UserAgent  string
}

// AuditService records access decisions and mutations. Without a repository it only logs.
type AuditService struct {
	repo   AuditRepository
	logger *zap.Logger
}

// NewAuditService constructs an audit service; repo may be nil.
func NewAuditService(repo AuditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record writes entry. Persistence failures are logged, never returned.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	role := models.RoleGuest
	var principalID *string
	if !entry.Principal.IsGuest() {
		role = entry.Principal.Role
		id := entry.Principal.ID
		principalID = &id
	}

	s.logger.Debug("audit",
		zap.String("principal_id", deref(principalID)),
		zap.String("role", string(role)),
		zap.String("action", entry.Action),
		zap.String("resource", entry.Resource),
		zap.String("resource_id", entry.ResourceID),
		zap.String("outcome", entry.Outcome),
	)

	if s.repo == nil {
		return
	}

	var details json.RawMessage
	if len(entry.Details) > 0 {
		details, _ = json.Marshal(entry.Details)
	}
	var resourceID *string
	if entry.ResourceID != "" {
		resourceID = &entry.ResourceID
	}
	if err := s.repo.Create(ctx, &models.AuditLog{
		PrincipalID: principalID,
		Role:        role,
		Action:      entry.Action,
		Resource:    entry.Resource,
		ResourceID:  resourceID,
		Outcome:     entry.Outcome,
		Details:     details,
		IPAddress:   entry.IP,
		UserAgent:   entry.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

// Recent lists recent audit entries; empty when no repository is configured.
func (s *AuditService) Recent(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, nil
	}
	return s.repo.List(ctx, filter)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
