package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/repository"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func newTeacherService() (*TeacherService, *repository.Store, *mockAuditRepo) {
	store := repository.NewSeededStore()
	audit := &mockAuditRepo{}
	return NewTeacherService(store.Teachers, newTestAccess(nil, store), NewAuditService(audit, nil), nil, nil), store, audit
}

func TestTeacherCRUDByAdmin(t *testing.T) {
	svc, store, audit := newTeacherService()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminP, models.TeacherRequest{Name: "Mr. Wright", Subject: "History", Email: "wright@edusphere.com", Phone: "555-4444"})
	require.NoError(t, err)
	assert.Len(t, store.Teachers.Snapshot(), 4)

	updated, err := svc.Update(ctx, adminP, created.ID, models.TeacherRequest{Name: "Mr. Wright", Subject: "Geography", Email: "wright@edusphere.com", Phone: "555-4444"})
	require.NoError(t, err)
	assert.Equal(t, "Geography", updated.Subject)

	require.NoError(t, svc.Delete(ctx, adminP, created.ID))
	assert.Len(t, store.Teachers.Snapshot(), 3)
	assert.Len(t, audit.logs, 3)

	list, err := svc.List(adminP)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestTeacherDeleteForbiddenForStudent(t *testing.T) {
	svc, store, audit := newTeacherService()
	err := svc.Delete(context.Background(), studentP, "T001")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Len(t, store.Teachers.Snapshot(), 3)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditDenied, audit.logs[0].Outcome)
}

func TestTeacherListRequiresAdmin(t *testing.T) {
	svc, _, _ := newTeacherService()
	_, err := svc.List(teacherP)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	_, err = svc.List(nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}

func TestTeacherCreateValidation(t *testing.T) {
	svc, _, _ := newTeacherService()
	_, err := svc.Create(context.Background(), adminP, models.TeacherRequest{Name: "X", Subject: "Y", Email: "not-an-email", Phone: "1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), adminP, models.TeacherRequest{Name: "X", Subject: "Y", Email: "ANDERSON@edusphere.com", Phone: "1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}
