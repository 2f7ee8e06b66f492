package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

type assignmentStore interface {
	Snapshot() []models.Assignment
	Find(id string) (models.Assignment, error)
	Add(item models.Assignment) ([]models.Assignment, error)
	Update(id string, mutate func(models.Assignment) (models.Assignment, error)) (models.Assignment, []models.Assignment, error)
	Remove(id string) ([]models.Assignment, error)
}

type submissionStore interface {
	Snapshot() []models.Submission
	Find(id string) (models.Submission, error)
	Add(item models.Submission) ([]models.Submission, error)
	Update(id string, mutate func(models.Submission) (models.Submission, error)) (models.Submission, []models.Submission, error)
}

// AssignmentService manages homework and student submissions.
type AssignmentService struct {
	assignments assignmentStore
	submissions submissionStore
	access      *Access
	audit       *AuditService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssignmentService constructs the service.
func NewAssignmentService(assignments assignmentStore, submissions submissionStore, access *Access, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		assignments: assignments,
		submissions: submissions,
		access:      access,
		audit:       audit,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns assignments visible to p, optionally narrowed to a subject.
func (s *AssignmentService) List(p *models.Principal, subject string) ([]models.Assignment, error) {
	if err := s.access.Route(p, models.RouteAssignments); err != nil {
		return nil, err
	}
	items := visible(s.access, p, s.assignments.Snapshot(), policy.KindAssignment)
	if subject == "" {
		return items, nil
	}
	out := items[:0]
	for _, a := range items {
		if strings.EqualFold(a.Subject, subject) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Get returns one assignment if p may see it.
func (s *AssignmentService) Get(p *models.Principal, id string) (*models.Assignment, error) {
	if err := s.access.Route(p, models.RouteAssignments); err != nil {
		return nil, err
	}
	a, err := s.assignments.Find(id)
	if err != nil {
		return nil, err
	}
	if err := visibleRecord(s.access, p, a, policy.KindAssignment); err != nil {
		return nil, err
	}
	return &a, nil
}

// Post publishes an assignment. Scoped teachers may only post to their grades.
func (s *AssignmentService) Post(ctx context.Context, p *models.Principal, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.access.Action(ctx, p, models.ActionAssignmentPost); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	status := req.Status
	if status == "" {
		status = models.AssignmentActive
	}
	a := models.Assignment{
		ID:          "A-" + strings.ToUpper(uuid.NewString()[:8]),
		Title:       req.Title,
		Subject:     req.Subject,
		Grade:       req.Grade,
		Description: req.Description,
		DueDate:     req.DueDate,
		PostedBy:    p.Name,
		Status:      status,
	}
	if err := visibleRecord(s.access, p, a, policy.KindAssignment); err != nil {
		return nil, err
	}
	if _, err := s.assignments.Add(a); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionAssignmentPost), Resource: "assignment", ResourceID: a.ID, Outcome: models.AuditAllowed})
	return &a, nil
}

// Update edits an assignment within the caller's view.
func (s *AssignmentService) Update(ctx context.Context, p *models.Principal, id string, req models.AssignmentRequest) (*models.Assignment, error) {
	if err := s.access.Action(ctx, p, models.ActionAssignmentUpdate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.Get(p, id); err != nil {
		return nil, err
	}
	updated, _, err := s.assignments.Update(id, func(a models.Assignment) (models.Assignment, error) {
		a.Title, a.Subject, a.Grade = req.Title, req.Subject, req.Grade
		a.Description, a.DueDate = req.Description, req.DueDate
		if req.Status != "" {
			a.Status = req.Status
		}
		if err := visibleRecord(s.access, p, a, policy.KindAssignment); err != nil {
			return a, err
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionAssignmentUpdate), Resource: "assignment", ResourceID: id, Outcome: models.AuditAllowed})
	return &updated, nil
}

// Delete removes an assignment within the caller's view.
func (s *AssignmentService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if err := s.access.Action(ctx, p, models.ActionAssignmentDelete); err != nil {
		return err
	}
	if _, err := s.Get(p, id); err != nil {
		return err
	}
	if _, err := s.assignments.Remove(id); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionAssignmentDelete), Resource: "assignment", ResourceID: id, Outcome: models.AuditAllowed})
	return nil
}

// Submit records the student's answer. Resubmitting replaces the previous content.
func (s *AssignmentService) Submit(ctx context.Context, p *models.Principal, id string, req models.SubmissionRequest) (*models.Submission, error) {
	if err := s.access.Action(ctx, p, models.ActionAssignmentSubmit); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	a, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AssignmentActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment is closed")
	}

	sub := models.Submission{
		ID:           a.ID + ":" + p.ID,
		AssignmentID: a.ID,
		StudentID:    p.ID,
		Content:      req.Content,
		SubmittedAt:  s.now().UTC(),
	}
	if _, err := s.submissions.Find(sub.ID); err == nil {
		sub, _, err = s.submissions.Update(sub.ID, func(existing models.Submission) (models.Submission, error) {
			existing.Content, existing.SubmittedAt = sub.Content, sub.SubmittedAt
			return existing, nil
		})
		if err != nil {
			return nil, err
		}
	} else if _, err := s.submissions.Add(sub); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionAssignmentSubmit), Resource: "assignment", ResourceID: a.ID, Outcome: models.AuditAllowed})
	return &sub, nil
}

// Submissions lists the answers to an assignment that p may see.
func (s *AssignmentService) Submissions(p *models.Principal, id string) ([]models.Submission, error) {
	if _, err := s.Get(p, id); err != nil {
		return nil, err
	}
	out := make([]models.Submission, 0)
	for _, sub := range visible(s.access, p, s.submissions.Snapshot(), policy.KindSubmission) {
		if sub.AssignmentID == id {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Download renders the assignment brief as a plain-text attachment.
func (s *AssignmentService) Download(ctx context.Context, p *models.Principal, id string) (string, []byte, error) {
	if err := s.access.Action(ctx, p, models.ActionAssignmentDownload); err != nil {
		return "", nil, err
	}
	a, err := s.Get(p, id)
	if err != nil {
		return "", nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", a.Title)
	fmt.Fprintf(&b, "Subject: %s\nGrade: %s\nDue: %s\nPosted by: %s\nStatus: %s\n\n", a.Subject, a.Grade, a.DueDate, a.PostedBy, a.Status)
	b.WriteString(a.Description)
	b.WriteString("\n")
	return fmt.Sprintf("assignment-%s.txt", a.ID), []byte(b.String()), nil
}
