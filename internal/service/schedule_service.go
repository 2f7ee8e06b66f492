package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

type routineStore interface {
	Snapshot() []models.RoutineItem
	Add(item models.RoutineItem) ([]models.RoutineItem, error)
	Remove(id string) ([]models.RoutineItem, error)
}

type examStore interface {
	Snapshot() []models.ExamSession
	Add(item models.ExamSession) ([]models.ExamSession, error)
	Remove(id string) ([]models.ExamSession, error)
}

// ScheduleService serves weekly routines and exam timetables.
type ScheduleService struct {
	routine   routineStore
	exams     examStore
	access    *Access
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(routine routineStore, exams examStore, access *Access, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{routine: routine, exams: exams, access: access, audit: audit, validator: validate, logger: logger}
}

// Weekly returns the routine of grade grouped by weekday and the grade's exams.
// Parents and students see only their own grades.
func (s *ScheduleService) Weekly(p *models.Principal, grade string) (*models.WeeklySchedule, error) {
	if err := s.access.Route(p, models.RouteSchedule); err != nil {
		return nil, err
	}
	grade = strings.TrimSpace(grade)
	if grade == "" {
		if len(p.Grades) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "grade is required")
		}
		grade = p.Grades[0]
	}

	slots := visible(s.access, p, s.routine.Snapshot(), policy.KindSchedule)
	byDay := make(map[string][]models.RoutineItem, len(models.Weekdays))
	for _, slot := range slots {
		if slot.Grade == grade {
			byDay[slot.Day] = append(byDay[slot.Day], slot)
		}
	}
	routine := make([]models.DayRoutine, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		daySlots := byDay[day]
		sort.SliceStable(daySlots, func(i, j int) bool { return daySlots[i].StartTime < daySlots[j].StartTime })
		if daySlots == nil {
			daySlots = []models.RoutineItem{}
		}
		routine = append(routine, models.DayRoutine{Day: day, Slots: daySlots})
	}

	exams := make([]models.ExamSession, 0)
	for _, exam := range visible(s.access, p, s.exams.Snapshot(), policy.KindSchedule) {
		if exam.Grade == grade {
			exams = append(exams, exam)
		}
	}
	sort.SliceStable(exams, func(i, j int) bool {
		if exams[i].Date != exams[j].Date {
			return exams[i].Date < exams[j].Date
		}
		return exams[i].StartTime < exams[j].StartTime
	})

	return &models.WeeklySchedule{Grade: grade, Routine: routine, Exams: exams}, nil
}

// UpcomingExams lists exams visible to p on or after date (YYYY-MM-DD).
func (s *ScheduleService) UpcomingExams(p *models.Principal, date string) []models.ExamSession {
	out := make([]models.ExamSession, 0)
	for _, exam := range visible(s.access, p, s.exams.Snapshot(), policy.KindSchedule) {
		if exam.Date >= date {
			out = append(out, exam)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// AddSlot adds a weekly routine slot.
func (s *ScheduleService) AddSlot(ctx context.Context, p *models.Principal, req models.RoutineItemRequest) (*models.RoutineItem, error) {
	if err := s.access.Action(ctx, p, models.ActionScheduleSlotAdd); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine slot")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	item := models.RoutineItem{
		ID:        "R-" + strings.ToUpper(uuid.NewString()[:8]),
		Grade:     req.Grade,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Subject:   req.Subject,
		Teacher:   req.Teacher,
		Room:      req.Room,
	}
	if _, err := s.routine.Add(item); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionScheduleSlotAdd), Resource: "routine", ResourceID: item.ID, Outcome: models.AuditAllowed})
	return &item, nil
}

// DeleteSlot removes a routine slot.
func (s *ScheduleService) DeleteSlot(ctx context.Context, p *models.Principal, id string) error {
	if err := s.access.Action(ctx, p, models.ActionScheduleSlotDelete); err != nil {
		return err
	}
	if _, err := s.routine.Remove(id); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionScheduleSlotDelete), Resource: "routine", ResourceID: id, Outcome: models.AuditAllowed})
	return nil
}

// AddExam schedules an exam session.
func (s *ScheduleService) AddExam(ctx context.Context, p *models.Principal, req models.ExamSessionRequest) (*models.ExamSession, error) {
	if err := s.access.Action(ctx, p, models.ActionScheduleExamAdd); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam session")
	}
	exam := models.ExamSession{
		ID:        "E-" + strings.ToUpper(uuid.NewString()[:8]),
		Title:     req.Title,
		Grade:     req.Grade,
		Subject:   req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Room:      req.Room,
	}
	if _, err := s.exams.Add(exam); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionScheduleExamAdd), Resource: "exam", ResourceID: exam.ID, Outcome: models.AuditAllowed})
	return &exam, nil
}

// DeleteExam removes an exam session.
func (s *ScheduleService) DeleteExam(ctx context.Context, p *models.Principal, id string) error {
	if err := s.access.Action(ctx, p, models.ActionScheduleExamDelete); err != nil {
		return err
	}
	if _, err := s.exams.Remove(id); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionScheduleExamDelete), Resource: "exam", ResourceID: id, Outcome: models.AuditAllowed})
	return nil
}
