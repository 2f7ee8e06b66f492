package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/genai"
)

type studentStore interface {
	Snapshot() []models.Student
	Find(id string) (models.Student, error)
	Add(item models.Student) ([]models.Student, error)
	Update(id string, mutate func(models.Student) (models.Student, error)) (models.Student, []models.Student, error)
}

type admissionStore interface {
	Add(item models.AdmissionApplication) ([]models.AdmissionApplication, error)
}

// StudentService serves the student directory, grading, admissions and progress reports.
type StudentService struct {
	students   studentStore
	admissions admissionStore
	access     *Access
	generator  genai.Generator
	cache      *CacheService
	metrics    *MetricsService
	audit      *AuditService
	validator  *validator.Validate
	logger     *zap.Logger
	reportTTL  time.Duration
}

// StudentServiceDeps groups the collaborators of StudentService.
type StudentServiceDeps struct {
	Students   studentStore
	Admissions admissionStore
	Access     *Access
	Generator  genai.Generator
	Cache      *CacheService
	Metrics    *MetricsService
	Audit      *AuditService
	Validator  *validator.Validate
	Logger     *zap.Logger
	ReportTTL  time.Duration
}

// NewStudentService constructs the service.
func NewStudentService(deps StudentServiceDeps) *StudentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &StudentService{
		students:   deps.Students,
		admissions: deps.Admissions,
		access:     deps.Access,
		generator:  deps.Generator,
		cache:      deps.Cache,
		metrics:    deps.Metrics,
		audit:      deps.Audit,
		validator:  deps.Validator,
		logger:     deps.Logger,
		reportTTL:  deps.ReportTTL,
	}
}

// List returns the students visible to p, searched by first or last name.
func (s *StudentService) List(p *models.Principal, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if err := s.access.Route(p, models.RouteStudents); err != nil {
		return nil, nil, err
	}
	visibleStudents := visible(s.access, p, s.students.Snapshot(), policy.KindStudent)

	query := foldName(filter.Search)
	matched := make([]models.Student, 0, len(visibleStudents))
	for _, st := range visibleStudents {
		if filter.Grade != "" && st.Grade != filter.Grade {
			continue
		}
		if query != "" && !strings.Contains(foldName(st.FirstName), query) && !strings.Contains(foldName(st.LastName), query) {
			continue
		}
		matched = append(matched, st)
	}
	page, pagination := models.Paginate(matched, filter.Page, filter.PageSize)
	return page, pagination, nil
}

// Get returns one student if p may see it.
func (s *StudentService) Get(p *models.Principal, id string) (*models.Student, error) {
	if err := s.access.Route(p, models.RouteStudents); err != nil {
		return nil, err
	}
	st, err := s.students.Find(id)
	if err != nil {
		return nil, err
	}
	if err := visibleRecord(s.access, p, st, policy.KindStudent); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateGrades replaces the subject scores of a student in the caller's view.
func (s *StudentService) UpdateGrades(ctx context.Context, p *models.Principal, id string, req models.UpdateGradesRequest) (*models.Student, error) {
	if err := s.access.Action(ctx, p, models.ActionStudentGrade); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grades payload")
	}
	if _, err := s.Get(p, id); err != nil {
		return nil, err
	}
	updated, _, err := s.students.Update(id, func(st models.Student) (models.Student, error) {
		st.Performance = append([]models.SubjectScore(nil), req.Performance...)
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, reportCacheKey(id, "*"))
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionStudentGrade), Resource: "student", ResourceID: id, Outcome: models.AuditAllowed})
	return &updated, nil
}

// Update edits the directory fields of a student.
func (s *StudentService) Update(ctx context.Context, p *models.Principal, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.access.Action(ctx, p, models.ActionStudentEdit); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	updated, _, err := s.students.Update(id, func(st models.Student) (models.Student, error) {
		if req.FirstName != nil {
			st.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			st.LastName = *req.LastName
		}
		if req.Grade != nil {
			st.Grade = *req.Grade
		}
		if req.ParentName != nil {
			st.ParentName = *req.ParentName
		}
		if req.ParentPhone != nil {
			st.ParentPhone = *req.ParentPhone
		}
		if req.FeesPaid != nil {
			st.FeesPaid = *req.FeesPaid
		}
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, reportCacheKey(id, "*"))
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionStudentEdit), Resource: "student", ResourceID: id, Outcome: models.AuditAllowed})
	return &updated, nil
}

// SubmitAdmission records an application and enrolls the applicant in the directory.
func (s *StudentService) SubmitAdmission(ctx context.Context, p *models.Principal, req models.AdmissionRequest) (*models.AdmissionApplication, error) {
	if err := s.access.Action(ctx, p, models.ActionAdmissionSubmit); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}

	now := time.Now().UTC()
	student := models.Student{
		ID:             "S-" + strings.ToUpper(uuid.NewString()[:8]),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Grade:          req.Grade,
		EnrollmentDate: now.Format("2006-01-02"),
		ParentName:     req.ParentName,
		ParentPhone:    req.ParentPhone,
		Attendance:     100,
		Performance:    []models.SubjectScore{},
	}
	if _, err := s.students.Add(student); err != nil {
		return nil, err
	}

	app := models.AdmissionApplication{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BirthDate:      req.BirthDate,
		Gender:         req.Gender,
		Grade:          req.Grade,
		PreviousSchool: req.PreviousSchool,
		ParentName:     req.ParentName,
		ParentPhone:    req.ParentPhone,
		ParentEmail:    req.ParentEmail,
		Status:         models.AdmissionAccepted,
		StudentID:      student.ID,
		SubmittedAt:    now,
	}
	if _, err := s.admissions.Add(app); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionAdmissionSubmit), Resource: "student", ResourceID: student.ID, Outcome: models.AuditAllowed})
	s.logger.Info("admission accepted", zap.String("student_id", student.ID), zap.String("grade", student.Grade))
	return &app, nil
}

// ProgressReport generates (or serves from cache) a narrative report for a student.
func (s *StudentService) ProgressReport(ctx context.Context, p *models.Principal, id string) (*models.ProgressReport, error) {
	if err := s.access.Action(ctx, p, models.ActionStudentReport); err != nil {
		return nil, err
	}
	st, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey(st.ID, performanceHash(*st))
	var cached models.ProgressReport
	if s.cache.Get(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "report generation is not configured")
	}
	start := time.Now()
	text, err := s.generator.Generate(ctx, progressPrompt(*st))
	s.metrics.ObserveGeneration("progress_report", err, time.Since(start))
	if err != nil {
		s.logger.Warn("progress report generation failed", zap.String("student_id", st.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to generate report")
	}

	report := models.ProgressReport{StudentID: st.ID, Report: text}
	s.cache.Set(ctx, key, report, s.reportTTL)
	return &report, nil
}

func progressPrompt(st models.Student) string {
	scores, _ := json.Marshal(st.Performance)
	return fmt.Sprintf(`Act as a senior academic advisor. Analyze the following student performance data and provide a concise, constructive progress report for their parents.
Focus on strengths and areas for improvement. Keep it under 150 words.

Student: %s
Grade: %s
Attendance: %d%%
Grades: %s`, st.FullName(), st.Grade, st.Attendance, scores)
}

func performanceHash(st models.Student) string {
	payload, _ := json.Marshal(struct {
		Grade       string                `json:"g"`
		Attendance  int                   `json:"a"`
		Performance []models.SubjectScore `json:"p"`
	}{st.Grade, st.Attendance, st.Performance})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

func reportCacheKey(studentID, hash string) string {
	return "report:" + studentID + ":" + hash
}
