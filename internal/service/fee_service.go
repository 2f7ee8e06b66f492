package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/export"
	"github.com/noah-isme/edusphere-api/pkg/storage"
)

type feeStore interface {
	Snapshot() []models.FeeRecord
	Find(id string) (models.FeeRecord, error)
	Add(item models.FeeRecord) ([]models.FeeRecord, error)
	Update(id string, mutate func(models.FeeRecord) (models.FeeRecord, error)) (models.FeeRecord, []models.FeeRecord, error)
	Remove(id string) ([]models.FeeRecord, error)
}

type studentMutator interface {
	Find(id string) (models.Student, error)
	Update(id string, mutate func(models.Student) (models.Student, error)) (models.Student, []models.Student, error)
}

type fileStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
}

type linkSigner interface {
	Issue(subject, name string) (string, time.Time, error)
	Verify(token string) (storage.Grant, error)
}

// FeeServiceDeps groups the collaborators of FeeService.
type FeeServiceDeps struct {
	Fees         feeStore
	Students     studentMutator
	Access       *Access
	Files        fileStore
	Signer       linkSigner
	Money        *export.MoneyFormatter
	Audit        *AuditService
	Validator    *validator.Validate
	Logger       *zap.Logger
	SchoolName   string
	DownloadPath string
}

// FeeService manages the fee ledger, payments and invoices.
type FeeService struct {
	fees         feeStore
	students     studentMutator
	access       *Access
	files        fileStore
	signer       linkSigner
	money        *export.MoneyFormatter
	invoices     *export.InvoiceRenderer
	audit        *AuditService
	validator    *validator.Validate
	logger       *zap.Logger
	schoolName   string
	downloadPath string
	now          func() time.Time
}

// NewFeeService constructs the service.
func NewFeeService(deps FeeServiceDeps) *FeeService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Money == nil {
		deps.Money = export.NewMoneyFormatter("USD", "en-US")
	}
	if deps.SchoolName == "" {
		deps.SchoolName = "EduSphere Academy"
	}
	if deps.DownloadPath == "" {
		deps.DownloadPath = "/api/v1/fees/invoices/download"
	}
	return &FeeService{
		fees:         deps.Fees,
		students:     deps.Students,
		access:       deps.Access,
		files:        deps.Files,
		signer:       deps.Signer,
		money:        deps.Money,
		invoices:     export.NewInvoiceRenderer(deps.Money),
		audit:        deps.Audit,
		validator:    deps.Validator,
		logger:       deps.Logger,
		schoolName:   deps.SchoolName,
		downloadPath: deps.DownloadPath,
		now:          time.Now,
	}
}

// List returns the fee records visible to p.
func (s *FeeService) List(p *models.Principal) ([]models.FeeRecord, error) {
	if err := s.access.Route(p, models.RouteFees); err != nil {
		return nil, err
	}
	return visible(s.access, p, s.fees.Snapshot(), policy.KindFee), nil
}

// Get returns one fee record if p may see it.
func (s *FeeService) Get(p *models.Principal, id string) (*models.FeeRecord, error) {
	if err := s.access.Route(p, models.RouteFees); err != nil {
		return nil, err
	}
	fee, err := s.fees.Find(id)
	if err != nil {
		return nil, err
	}
	if err := visibleRecord(s.access, p, fee, policy.KindFee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// Create bills a student. New fees default to Pending.
func (s *FeeService) Create(ctx context.Context, p *models.Principal, req models.FeeRequest) (*models.FeeRecord, error) {
	if err := s.access.Action(ctx, p, models.ActionFeeCreate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	st, err := s.students.Find(req.StudentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student_id")
	}
	status := req.Status
	if status == "" {
		status = models.FeePending
	}
	fee := models.FeeRecord{
		ID:          "F-" + strings.ToUpper(uuid.NewString()[:8]),
		StudentID:   st.ID,
		StudentName: st.FullName(),
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		Status:      status,
	}
	if _, err := s.fees.Add(fee); err != nil {
		return nil, err
	}
	s.syncFeesPaid(st.ID)
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionFeeCreate), Resource: "fee", ResourceID: fee.ID, Outcome: models.AuditAllowed})
	return &fee, nil
}

// Update replaces the billing fields of a fee.
func (s *FeeService) Update(ctx context.Context, p *models.Principal, id string, req models.FeeRequest) (*models.FeeRecord, error) {
	if err := s.access.Action(ctx, p, models.ActionFeeUpdate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	st, err := s.students.Find(req.StudentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student_id")
	}
	previous, err := s.fees.Find(id)
	if err != nil {
		return nil, err
	}
	updated, _, err := s.fees.Update(id, func(f models.FeeRecord) (models.FeeRecord, error) {
		f.StudentID, f.StudentName = st.ID, st.FullName()
		f.Amount, f.DueDate = req.Amount, req.DueDate
		if req.Status != "" {
			f.Status = req.Status
		}
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	s.syncFeesPaid(previous.StudentID)
	if previous.StudentID != st.ID {
		s.syncFeesPaid(st.ID)
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionFeeUpdate), Resource: "fee", ResourceID: id, Outcome: models.AuditAllowed})
	return &updated, nil
}

// Delete removes a fee record.
func (s *FeeService) Delete(ctx context.Context, p *models.Principal, id string) error {
	if err := s.access.Action(ctx, p, models.ActionFeeDelete); err != nil {
		return err
	}
	fee, err := s.fees.Find(id)
	if err != nil {
		return err
	}
	if _, err := s.fees.Remove(id); err != nil {
		return err
	}
	s.syncFeesPaid(fee.StudentID)
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionFeeDelete), Resource: "fee", ResourceID: id, Outcome: models.AuditAllowed})
	return nil
}

// Pay settles one of the parent's own outstanding fees.
func (s *FeeService) Pay(ctx context.Context, p *models.Principal, id string) (*models.FeeRecord, error) {
	if err := s.access.Action(ctx, p, models.ActionFeePay); err != nil {
		return nil, err
	}
	fee, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	if fee.Status == models.FeePaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "fee already paid")
	}
	updated, _, err := s.fees.Update(id, func(f models.FeeRecord) (models.FeeRecord, error) {
		if f.Status == models.FeePaid {
			return f, appErrors.Clone(appErrors.ErrConflict, "fee already paid")
		}
		f.Status = models.FeePaid
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	s.syncFeesPaid(updated.StudentID)
	s.audit.Record(ctx, AuditEntry{
		Principal:  p,
		Action:     string(models.ActionFeePay),
		Resource:   "fee",
		ResourceID: id,
		Outcome:    models.AuditAllowed,
		Details:    map[string]interface{}{"amount": s.money.Format(updated.Amount)},
	})
	s.logger.Info("fee paid", zap.String("fee_id", id), zap.String("student_id", updated.StudentID))
	return &updated, nil
}

// Invoice renders the fee's PDF invoice, stores it and returns a signed download link.
func (s *FeeService) Invoice(ctx context.Context, p *models.Principal, id string) (*models.InvoiceLink, error) {
	if err := s.access.Action(ctx, p, models.ActionFeeInvoice); err != nil {
		return nil, err
	}
	fee, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	if s.files == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "invoice storage is not configured")
	}

	inv := export.Invoice{
		Number:      "INV-" + fee.ID,
		SchoolName:  s.schoolName,
		StudentID:   fee.StudentID,
		StudentName: fee.StudentName,
		Description: "Tuition fee",
		Amount:      fee.Amount,
		DueDate:     fee.DueDate,
		Status:      string(fee.Status),
		IssuedAt:    s.now().UTC(),
	}
	if st, err := s.students.Find(fee.StudentID); err == nil {
		inv.Grade = st.Grade
		inv.ParentName = st.ParentName
	}

	pdf, err := s.invoices.Render(inv)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice")
	}
	name := fmt.Sprintf("invoice-%s-%d.pdf", fee.ID, inv.IssuedAt.Unix())
	if _, err := s.files.Save(name, pdf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store invoice")
	}
	token, expiresAt, err := s.signer.Issue(p.ID, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign invoice link")
	}

	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionFeeInvoice), Resource: "fee", ResourceID: fee.ID, Outcome: models.AuditAllowed})
	return &models.InvoiceLink{
		FeeID:     fee.ID,
		URL:       s.downloadPath + "?token=" + url.QueryEscape(token),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// DownloadInvoice resolves a signed token to the stored PDF.
func (s *FeeService) DownloadInvoice(token string) (string, []byte, error) {
	if s.files == nil || s.signer == nil {
		return "", nil, appErrors.Clone(appErrors.ErrUnavailable, "invoice storage is not configured")
	}
	grant, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrExpiredToken) {
			return "", nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return "", nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	data, err := s.files.Read(grant.Name)
	if err != nil {
		return "", nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
	}
	return grant.Name, data, nil
}

// Ledger exports every fee as CSV with a formatted total.
func (s *FeeService) Ledger(ctx context.Context, p *models.Principal) ([]byte, error) {
	if err := s.access.Action(ctx, p, models.ActionFeeExport); err != nil {
		return nil, err
	}
	fees := s.fees.Snapshot()
	rows := make([]export.LedgerRow, 0, len(fees))
	for _, f := range fees {
		rows = append(rows, export.LedgerRow{
			FeeID:       f.ID,
			StudentID:   f.StudentID,
			StudentName: f.StudentName,
			Amount:      f.Amount,
			DueDate:     f.DueDate,
			Status:      string(f.Status),
		})
	}
	data, err := export.RenderLedgerCSV(rows, s.money)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export ledger")
	}
	s.audit.Record(ctx, AuditEntry{Principal: p, Action: string(models.ActionFeeExport), Resource: "fee", Outcome: models.AuditAllowed, Details: map[string]interface{}{"rows": len(rows)}})
	return data, nil
}

// syncFeesPaid keeps the student's fees_paid flag in line with the ledger.
func (s *FeeService) syncFeesPaid(studentID string) {
	paid := true
	for _, f := range s.fees.Snapshot() {
		if f.StudentID == studentID && f.Status != models.FeePaid {
			paid = false
			break
		}
	}
	if _, _, err := s.students.Update(studentID, func(st models.Student) (models.Student, error) {
		st.FeesPaid = paid
		return st, nil
	}); err != nil {
		s.logger.Debug("fees_paid sync skipped", zap.String("student_id", studentID), zap.Error(err))
	}
}
