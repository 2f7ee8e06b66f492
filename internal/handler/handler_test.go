package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edusphere-api/internal/middleware"
	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/repository"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/cache"
	"github.com/noah-isme/edusphere-api/pkg/jobs"
	"github.com/noah-isme/edusphere-api/pkg/storage"
)

type memoryAudit struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (m *memoryAudit) Create(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memoryAudit) List(_ context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, 0, len(m.logs))
	for _, l := range m.logs {
		if filter.Outcome != "" && l.Outcome != filter.Outcome {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memoryAudit) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l.Action)
	}
	return out
}

type stubGenerator struct{ text string }

func (s stubGenerator) Generate(context.Context, string) (string, error) { return s.text, nil }

type testServer struct {
	engine *gin.Engine
	store  *repository.Store
	audit  *memoryAudit
}

type responseEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta       map[string]interface{} `json:"meta"`
	Pagination *models.Pagination     `json:"pagination"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewSeededStore()
	auditRepo := &memoryAudit{}
	audit := service.NewAuditService(auditRepo, nil)
	access := service.NewAccess(policy.NewEvaluator(nil).WithStudentGrades(store.StudentGrade), nil, audit, nil)

	accounts, err := repository.NewAccountRepository("password", bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService(accounts, store.Students, audit, nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "edusphere-test",
	})

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	gen := stubGenerator{text: "Doing well."}

	sms := service.NewSMSService(service.SMSServiceDeps{
		Messages:  store.SMS,
		Students:  store.Students,
		Access:    access,
		Generator: gen,
		Audit:     audit,
		Queue:     jobs.Config{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond},
	})
	ctx, cancel := context.WithCancel(context.Background())
	sms.Start(ctx)
	t.Cleanup(func() {
		cancel()
		sms.Stop()
	})

	handlers := &Handlers{
		Auth:   NewAuthHandler(auth),
		Access: NewAccessHandler(access),
		Dashboard: NewDashboardHandler(service.NewDashboardService(service.DashboardSources{
			Students:    store.Students,
			Fees:        store.Fees,
			Exams:       store.Exams,
			Assignments: store.Assignments,
			Submissions: store.Submissions,
			Admissions:  store.Admissions,
		}, access, nil)),
		Students: NewStudentHandler(service.NewStudentService(service.StudentServiceDeps{
			Students:   store.Students,
			Admissions: store.Admissions,
			Access:     access,
			Generator:  gen,
			Cache:      service.NewCacheService(cache.NewLocal(16, 0), nil, 0, nil),
			Audit:      audit,
		})),
		Teachers: NewTeacherHandler(service.NewTeacherService(store.Teachers, access, audit, nil, nil)),
		Fees: NewFeeHandler(service.NewFeeService(service.FeeServiceDeps{
			Fees:     store.Fees,
			Students: store.Students,
			Access:   access,
			Files:    files,
			Signer:   storage.NewSigner("invoice-secret", time.Minute),
			Audit:    audit,
		})),
		Schedule:    NewScheduleHandler(service.NewScheduleService(store.Routine, store.Exams, access, audit, nil, nil)),
		Assignments: NewAssignmentHandler(service.NewAssignmentService(store.Assignments, store.Submissions, access, audit, nil, nil)),
		Attendance:  NewAttendanceHandler(service.NewAttendanceService(store.Attendance, store.Students, access, sms, audit, nil, nil)),
		SMS:         NewSMSHandler(sms),
		Audit:       NewAuditHandler(audit),
	}

	engine := gin.New()
	engine.Use(middleware.Session(auth), middleware.WithResponseMeta())
	require.NoError(t, Register(engine.Group("/api/v1"), access, audit, nil, Routes(handlers)))

	return &testServer{engine: engine, store: store, audit: auditRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, role models.Role, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Role: role, Email: email, Password: "password"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login models.LoginResponse
	decode(t, rec, &login)
	return login.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}
