package service

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/repository"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/storage"
)

func newFeeService(t *testing.T) (*FeeService, *repository.Store) {
	t.Helper()
	store := repository.NewSeededStore()
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := NewFeeService(FeeServiceDeps{
		Fees:     store.Fees,
		Students: store.Students,
		Access:   newTestAccess(nil, store),
		Files:    files,
		Signer:   storage.NewSigner("test-secret", time.Minute),
		Audit:    NewAuditService(&mockAuditRepo{}, nil),
	})
	return svc, store
}

func feeIDs(fees []models.FeeRecord) []string {
	out := make([]string, 0, len(fees))
	for _, f := range fees {
		out = append(out, f.ID)
	}
	return out
}

func TestFeeListFiltersForParent(t *testing.T) {
	svc, _ := newFeeService(t)

	all, err := svc.List(adminP)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := svc.List(parentP)
	require.NoError(t, err)
	assert.Equal(t, []string{"F001", "F004"}, feeIDs(mine))

	_, err = svc.List(studentP)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	_, err = svc.List(teacherP)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestFeePay(t *testing.T) {
	svc, store := newFeeService(t)
	ctx := context.Background()

	paid, err := svc.Pay(ctx, parentP, "F004")
	require.NoError(t, err)
	assert.Equal(t, models.FeePaid, paid.Status)

	st, err := store.Students.Find("S001")
	require.NoError(t, err)
	assert.True(t, st.FeesPaid)

	_, err = svc.Pay(ctx, parentP, "F001")
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Pay(ctx, parentP, "F002")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Pay(ctx, adminP, "F002")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestFeeCreateUpdateDelete(t *testing.T) {
	svc, store := newFeeService(t)
	ctx := context.Background()

	fee, err := svc.Create(ctx, adminP, models.FeeRequest{StudentID: "S003", Amount: 120, DueDate: "2024-07-01"})
	require.NoError(t, err)
	assert.Equal(t, models.FeePending, fee.Status)
	assert.Equal(t, "Emma Davis", fee.StudentName)

	st, _ := store.Students.Find("S003")
	assert.False(t, st.FeesPaid)

	updated, err := svc.Update(ctx, adminP, fee.ID, models.FeeRequest{StudentID: "S003", Amount: 150, DueDate: "2024-07-01", Status: models.FeePaid})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Amount)
	st, _ = store.Students.Find("S003")
	assert.True(t, st.FeesPaid)

	require.NoError(t, svc.Delete(ctx, adminP, fee.ID))
	assert.Len(t, store.Fees.Snapshot(), 4)

	_, err = svc.Create(ctx, adminP, models.FeeRequest{StudentID: "S404", Amount: 1, DueDate: "2024-07-01"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(ctx, parentP, models.FeeRequest{StudentID: "S001", Amount: 1, DueDate: "2024-07-01"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestFeeInvoiceRoundTrip(t *testing.T) {
	svc, _ := newFeeService(t)
	ctx := context.Background()

	link, err := svc.Invoice(ctx, parentP, "F001")
	require.NoError(t, err)
	assert.Equal(t, "F001", link.FeeID)

	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)
	name, data, err := svc.DownloadInvoice(parsed.Query().Get("token"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "invoice-F001-"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = svc.Invoice(ctx, parentP, "F002")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, _, err = svc.DownloadInvoice("garbage")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestFeeLedger(t *testing.T) {
	svc, _ := newFeeService(t)

	data, err := svc.Ledger(context.Background(), adminP)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "fee_id,student_id,student_name,amount,due_date,status", lines[0])
	assert.Len(t, lines, 6)

	_, err = svc.Ledger(context.Background(), parentP)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
