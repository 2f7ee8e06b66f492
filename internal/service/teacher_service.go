package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

type teacherStore interface {
	Snapshot() []models.Teacher
	Find(id string) (models.Teacher, error)
	Add(item models.Teacher) ([]models.Teacher, error)
	Update(id string, mutate func(models.Teacher) (models.Teacher, error)) (models.Teacher, []models.Teacher, error)
	Remove(id string) ([]models.Teacher, error)
}

// TeacherService manages the staff directory.
type TeacherService struct {
	teachers  teacherStore
	access    *Access
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the service.
func NewTeacherService(teachers teacherStore, access *Access, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{teachers: teachers, access: access, audit: audit, validator: validate, logger: logger}
}

// List returns the teacher directory.
func (s *TeacherService) List(p *models.Principal) ([]models.Teacher, error) {
	if err := s.access.Route(p, models.RouteTeachers); err != nil {
		return nil, err
	}
	return visible(s.access, p, s.teachers.Snapshot(), policy.KindTeacher), nil
}

// Create adds a teacher. Emails are unique case-insensitively.
func (s *TeacherService) Create(ctx context.Context, p *models.Principal, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.access.Action(ctx, p, models.ActionTeacherCreate); err != nil {
		return nil, err
	}
	if err := s.validate(req, ""); err != nil {
		return nil, err
	}
	teacher := models.Teacher{ID: "T-" + strings.ToUpper(uuid.NewString()[:8]), Name: req.Name, Subject: req.Subject, Email: req.Email, Phone: req.Phone}
	if _, err := s.teachers.Add(teacher); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionTeacherCreate), Resource: "teacher", ResourceID: teacher.ID, Outcome: models.AuditAllowed})
	return &teacher, nil
}

// Update replaces a teacher's fields.
func (s *TeacherService) Update(ctx context.Context, p *models.Principal, id string, req models.TeacherRequest) (*models.Teacher, error) {
	if err := s.access.Action(ctx, p, models.ActionTeacherUpdate); err != nil {
		return nil, err
	}
	if err := s.validate(req, id); err != nil {
		return nil, err
	}
	updated, _, err := s.teachers.Update(id, func(t models.Teacher) (models.Teacher, error) {
		t.Name, t.Subject, t.Email, t.Phone = req.Name, req.Subject, req.Email, req.Phone
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionTeacherUpdate), Resource: "teacher", ResourceID: id, Outcome: models.AuditAllowed})
	return &updated, nil
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if err := s.access.Action(ctx, p, models.ActionTeacherDelete); err != nil {
		return err
	}
	if _, err := s.teachers.Remove(id); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionTeacherDelete), Resource: "teacher", ResourceID: id, Outcome: models.AuditAllowed})
	return nil
}

func (s *TeacherService) validate(req models.TeacherRequest, selfID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	for _, t := range s.teachers.Snapshot() {
		if t.ID != selfID && strings.EqualFold(t.Email, req.Email) {
			return appErrors.Clone(appErrors.ErrConflict, "email already in use")
		}
	}
	return nil
}
