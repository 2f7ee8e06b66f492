package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/genai"
	"github.com/noah-isme/edusphere-api/pkg/jobs"
)

const smsTaskKind = "sms.deliver"

// Dispatcher hands a message to an SMS gateway.
type Dispatcher interface {
	Dispatch(msg models.SMSMessage) error
}

// LoggingGateway is a Dispatcher that only logs outbound messages.
type LoggingGateway struct {
	logger *zap.Logger
}

// NewLoggingGateway constructs the gateway.
func NewLoggingGateway(logger *zap.Logger) *LoggingGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingGateway{logger: logger}
}

// Dispatch logs msg as delivered.
func (g *LoggingGateway) Dispatch(msg models.SMSMessage) error {
	g.logger.Info("sms delivered",
		zap.String("sms_id", msg.ID),
		zap.String("student_id", msg.StudentID),
		zap.String("phone", msg.Phone),
		zap.Int("length", len([]rune(msg.Content))),
	)
	return nil
}

type smsStore interface {
	Snapshot() []models.SMSMessage
	Add(item models.SMSMessage) ([]models.SMSMessage, error)
	Update(id string, mutate func(models.SMSMessage) (models.SMSMessage, error)) (models.SMSMessage, []models.SMSMessage, error)
}

// SMSServiceDeps groups the collaborators of SMSService.
type SMSServiceDeps struct {
	Messages   smsStore
	Students   studentLookup
	Access     *Access
	Generator  genai.Generator
	Dispatcher Dispatcher
	Metrics    *MetricsService
	Audit      *AuditService
	Validator  *validator.Validate
	Logger     *zap.Logger
	Queue      jobs.Config
}

// SMSService drafts, queues and tracks parent notifications.
type SMSService struct {
	messages   smsStore
	students   studentLookup
	access     *Access
	generator  genai.Generator
	dispatcher Dispatcher
	metrics    *MetricsService
	audit      *AuditService
	validator  *validator.Validate
	logger     *zap.Logger
	queue      *jobs.Queue[models.SMSMessage]
	now        func() time.Time
}

// NewSMSService constructs the service and its delivery queue. Call Start before sending.
func NewSMSService(deps SMSServiceDeps) *SMSService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = NewLoggingGateway(deps.Logger)
	}
	if deps.Queue.Logger == nil {
		deps.Queue.Logger = deps.Logger
	}
	s := &SMSService{
		messages:   deps.Messages,
		students:   deps.Students,
		access:     deps.Access,
		generator:  deps.Generator,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		audit:      deps.Audit,
		validator:  deps.Validator,
		logger:     deps.Logger,
		now:        time.Now,
	}
	s.queue = jobs.NewQueue[models.SMSMessage]("sms", s.deliver, deps.Queue)
	s.queue.OnFailure(s.markFailed)
	return s
}

// Start launches the delivery workers.
func (s *SMSService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts delivery. Queued messages stay in the outbox as Queued.
func (s *SMSService) Stop() {
	s.queue.Stop()
}

// Outbox lists messages visible to p, newest first.
func (s *SMSService) Outbox(p *models.Principal) ([]models.SMSMessage, error) {
	if err := s.access.Route(p, models.RouteSMS); err != nil {
		return nil, err
	}
	out := visible(s.access, p, s.messages.Snapshot(), policy.KindSMS)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Draft asks the generator for a message to the student's parent about a topic.
func (s *SMSService) Draft(ctx context.Context, p *models.Principal, req models.DraftSMSRequest) (*models.SMSDraft, error) {
	if err := s.access.Action(ctx, p, models.ActionSMSDraft); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft request")
	}
	st, err := s.recipient(p, req.StudentID)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "message drafting is not configured")
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, draftPrompt(st.ParentName, st.FirstName, req.Topic))
	s.metrics.ObserveGeneration("sms_draft", err, time.Since(start))
	if err != nil {
		s.logger.Warn("sms draft generation failed", zap.String("student_id", st.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to draft message")
	}
	return &models.SMSDraft{
		StudentID: st.ID,
		Recipient: st.ParentName,
		Content:   truncateRunes(strings.TrimSpace(text), models.SMSMaxLength),
	}, nil
}

// Send queues a message to the student's parent.
func (s *SMSService) Send(ctx context.Context, p *models.Principal, req models.SendSMSRequest) (*models.SMSMessage, error) {
	if err := s.access.Action(ctx, p, models.ActionSMSSend); err != nil {
		return nil, err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message")
	}
	if len([]rune(req.Content)) > models.SMSMaxLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("message exceeds %d characters", models.SMSMaxLength))
	}
	st, err := s.recipient(p, req.StudentID)
	if err != nil {
		return nil, err
	}
	msg, err := s.enqueue(p.Name, st, req.Content)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionSMSSend), Resource: "sms", ResourceID: msg.ID, Outcome: models.AuditAllowed})
	return msg, nil
}

// Notify queues a system message without a policy check. Callers authorize first.
func (s *SMSService) Notify(sentBy string, st models.Student, content string) (*models.SMSMessage, error) {
	return s.enqueue(sentBy, st, truncateRunes(content, models.SMSMaxLength))
}

func (s *SMSService) recipient(p *models.Principal, studentID string) (models.Student, error) {
	st, err := s.students.Find(studentID)
	if err != nil {
		return models.Student{}, err
	}
	if err := visibleRecord(s.access, p, st, policy.KindStudent); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

func (s *SMSService) enqueue(sentBy string, st models.Student, content string) (*models.SMSMessage, error) {
	msg := models.SMSMessage{
		ID:        uuid.NewString(),
		StudentID: st.ID,
		Recipient: st.ParentName,
		Phone:     st.ParentPhone,
		Content:   content,
		Date:      s.now().UTC(),
		Status:    models.SMSQueued,
		SentBy:    sentBy,
	}
	if _, err := s.messages.Add(msg); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(jobs.Task[models.SMSMessage]{ID: msg.ID, Kind: smsTaskKind, Payload: msg}); err != nil {
		s.setStatus(msg.ID, models.SMSFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "sms queue unavailable")
	}
	return &msg, nil
}

func (s *SMSService) deliver(_ context.Context, task jobs.Task[models.SMSMessage]) error {
	if err := s.dispatcher.Dispatch(task.Payload); err != nil {
		return err
	}
	s.setStatus(task.Payload.ID, models.SMSSent)
	s.metrics.RecordSMSDelivery(string(models.SMSSent))
	return nil
}

func (s *SMSService) markFailed(task jobs.Task[models.SMSMessage], err error) {
	s.logger.Error("sms delivery failed", zap.String("sms_id", task.Payload.ID), zap.Int("attempts", task.Attempt), zap.Error(err))
	s.setStatus(task.Payload.ID, models.SMSFailed)
	s.metrics.RecordSMSDelivery(string(models.SMSFailed))
}

func (s *SMSService) setStatus(id string, status models.SMSStatus) {
	if _, _, err := s.messages.Update(id, func(m models.SMSMessage) (models.SMSMessage, error) {
		m.Status = status
		return m, nil
	}); err != nil {
		s.logger.Warn("sms status update failed", zap.String("sms_id", id), zap.Error(err))
	}
}

func draftPrompt(parent, child, topic string) string {
	return fmt.Sprintf(`Draft a professional, polite, and short SMS message (max %d characters) to a parent named %s.
The message is regarding their child, %s, about the following topic: %q.
Do not include placeholders.`, models.SMSMaxLength, parent, child, topic)
}
