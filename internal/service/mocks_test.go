package service

import (
	"context"
	"sync"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/repository"
)

type mockAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
	err  error
}

func (m *mockAuditRepo) Create(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, _ models.AuditFilter) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, *l)
	}
	return out, nil
}

type mockGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockDispatcher struct {
	mu   sync.Mutex
	sent []models.SMSMessage
	err  error
}

func (m *mockDispatcher) Dispatch(msg models.SMSMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestAccess(scopes map[string][]string, store *repository.Store) *Access {
	return NewAccess(policy.NewEvaluator(scopes).WithStudentGrades(store.StudentGrade), nil, nil, nil)
}

var (
	adminP   = &models.Principal{ID: "A001", Name: "Principal Skinner", Role: models.RoleAdmin}
	teacherP = &models.Principal{ID: "T001", Name: "Mrs. Krabappel", Role: models.RoleTeacher}
	parentP  = &models.Principal{ID: "P001", Name: "Robert Johnson", Role: models.RoleParent, LinkedStudentIDs: []string{"S001"}, Grades: []string{"10th"}}
	studentP = &models.Principal{ID: "S001", Name: "Alice Johnson", Role: models.RoleStudent, LinkedStudentIDs: []string{"S001"}, Grades: []string{"10th"}}
)
