package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

// attendanceWindow is the number of school days the running percentage averages over.
const attendanceWindow = 20

type attendanceStore interface {
	Snapshot() []models.AttendanceSession
	Add(item models.AttendanceSession) ([]models.AttendanceSession, error)
}

type notifier interface {
	Notify(sentBy string, st models.Student, content string) (*models.SMSMessage, error)
}

// AttendanceService records class registers and alerts parents of absentees.
type AttendanceService struct {
	sessions  attendanceStore
	students  studentMutator
	access    *Access
	notifier  notifier
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the service. A nil notifier disables absence alerts.
func NewAttendanceService(sessions attendanceStore, students studentMutator, access *Access, notifier notifier, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		sessions:  sessions,
		students:  students,
		access:    access,
		notifier:  notifier,
		audit:     audit,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Take records the register for a grade, updates each student's attendance
// percentage and queues an SMS to the parent of every absentee.
func (s *AttendanceService) Take(ctx context.Context, p *models.Principal, req models.TakeAttendanceRequest) (*models.AttendanceSession, error) {
	if err := s.access.Action(ctx, p, models.ActionAttendanceTake); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	session := models.AttendanceSession{
		ID:        uuid.NewString(),
		Grade:     req.Grade,
		Date:      req.Date,
		TakenBy:   p.Name,
		Entries:   append([]models.AttendanceEntry(nil), req.Entries...),
		CreatedAt: s.now().UTC(),
	}
	if err := visibleRecord(s.access, p, session, policy.KindAttendance); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.Entries))
	roster := make([]models.Student, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if _, dup := seen[entry.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s listed twice", entry.StudentID))
		}
		seen[entry.StudentID] = struct{}{}
		st, err := s.students.Find(entry.StudentID)
		if err != nil || st.Grade != req.Grade {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not in grade %s", entry.StudentID, req.Grade))
		}
		roster = append(roster, st)
	}

	for i, entry := range req.Entries {
		sample := 0.0
		if entry.Present {
			sample = 100
		}
		if _, _, err := s.students.Update(entry.StudentID, func(st models.Student) (models.Student, error) {
			st.Attendance = runningAttendance(st.Attendance, sample)
			return st, nil
		}); err != nil {
			return nil, err
		}
		if entry.Present || s.notifier == nil {
			continue
		}
		st := roster[i]
		content := fmt.Sprintf("Dear %s, %s was marked absent on %s. Please contact the school office.", st.ParentName, st.FirstName, req.Date)
		if _, err := s.notifier.Notify(p.Name, st, content); err != nil {
			s.logger.Warn("absence alert not queued", zap.String("student_id", st.ID), zap.Error(err))
			continue
		}
		session.Alerts++
	}

	if _, err := s.sessions.Add(session); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{
		Principal:  p,
		Action:     string(models.ActionAttendanceTake),
		Resource:   "attendance",
		ResourceID: session.ID,
		Outcome:    models.AuditAllowed,
		Details:    map[string]interface{}{"grade": req.Grade, "date": req.Date, "alerts": session.Alerts},
	})
	return &session, nil
}

// History lists the registers visible to p, newest first, optionally for one grade.
func (s *AttendanceService) History(p *models.Principal, grade string) ([]models.AttendanceSession, error) {
	if err := s.access.Route(p, models.RouteStudents); err != nil {
		return nil, err
	}
	out := make([]models.AttendanceSession, 0)
	for _, session := range visible(s.access, p, s.sessions.Snapshot(), policy.KindAttendance) {
		if grade == "" || session.Grade == grade {
			out = append(out, session)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func runningAttendance(current int, sample float64) int {
	next := float64(current) + (sample-float64(current))/attendanceWindow
	return int(math.Round(math.Max(0, math.Min(100, next))))
}
