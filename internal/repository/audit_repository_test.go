package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestAuditCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	principal := "P001"
	entry := &models.AuditLog{PrincipalID: &principal, Role: models.RoleParent, Action: string(models.ActionFeePay), Resource: "fee", Outcome: models.AuditAllowed}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "principal_id", "role", "action", "resource", "resource_id", "outcome", "details", "ip_address", "user_agent", "created_at"}).
		AddRow("1", "S001", "STUDENT", "teacher.delete", "teacher", "T001", models.AuditDenied, nil, "127.0.0.1", "test", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs WHERE 1=1 AND outcome = $1 ORDER BY created_at DESC LIMIT $2")).
		WithArgs(models.AuditDenied, 100).
		WillReturnRows(rows)

	logs, err := repo.List(context.Background(), models.AuditFilter{Outcome: models.AuditDenied})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.RoleStudent, logs[0].Role)
	assert.Equal(t, "T001", *logs[0].ResourceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
