package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/repository"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
	"github.com/noah-isme/edusphere-api/pkg/jobs"
)

type smsFixture struct {
	svc   *SMSService
	store *repository.Store
	gen   *mockGenerator
	gw    *mockDispatcher
}

func newSMSFixture(t *testing.T, gw *mockDispatcher) smsFixture {
	t.Helper()
	return newScopedSMSFixture(t, gw, nil)
}

func newScopedSMSFixture(t *testing.T, gw *mockDispatcher, scopes map[string][]string) smsFixture {
	t.Helper()
	store := repository.NewSeededStore()
	gen := &mockGenerator{text: "Dear Robert, Alice did great today."}
	svc := NewSMSService(SMSServiceDeps{
		Messages:   store.SMS,
		Students:   store.Students,
		Access:     newTestAccess(scopes, store),
		Generator:  gen,
		Dispatcher: gw,
		Queue:      jobs.Config{Workers: 1, MaxRetries: 1, RetryDelay: 10 * time.Millisecond},
	})
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return smsFixture{svc: svc, store: store, gen: gen, gw: gw}
}

func statusOf(store *repository.Store, id string) models.SMSStatus {
	for _, m := range store.SMS.Snapshot() {
		if m.ID == id {
			return m.Status
		}
	}
	return ""
}

func TestSMSSendDelivers(t *testing.T) {
	f := newSMSFixture(t, &mockDispatcher{})

	msg, err := f.svc.Send(context.Background(), teacherP, models.SendSMSRequest{StudentID: "S002", Content: "Parent meeting on Friday."})
	require.NoError(t, err)
	assert.Equal(t, models.SMSQueued, msg.Status)
	assert.Equal(t, "Sarah Smith", msg.Recipient)
	assert.Equal(t, "Mrs. Krabappel", msg.SentBy)

	require.Eventually(t, func() bool { return statusOf(f.store, msg.ID) == models.SMSSent }, time.Second, 5*time.Millisecond)
}

func TestSMSSendMarksFailedAfterRetries(t *testing.T) {
	f := newSMSFixture(t, &mockDispatcher{err: errors.New("gateway down")})

	msg, err := f.svc.Send(context.Background(), adminP, models.SendSMSRequest{StudentID: "S001", Content: "Reminder"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return statusOf(f.store, msg.ID) == models.SMSFailed }, time.Second, 5*time.Millisecond)
}

func TestSMSSendValidation(t *testing.T) {
	f := newSMSFixture(t, &mockDispatcher{})
	ctx := context.Background()

	_, err := f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S001", Content: strings.Repeat("é", 161)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S001", Content: "   "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.Send(ctx, parentP, models.SendSMSRequest{StudentID: "S001", Content: "hi"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S404", Content: "hi"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSMSDraftTruncates(t *testing.T) {
	f := newSMSFixture(t, &mockDispatcher{})
	f.gen.text = "  " + strings.Repeat("a", 200) + "  "

	draft, err := f.svc.Draft(context.Background(), adminP, models.DraftSMSRequest{StudentID: "S001", Topic: "field trip"})
	require.NoError(t, err)
	assert.Len(t, draft.Content, models.SMSMaxLength)
	assert.Equal(t, "Robert Johnson", draft.Recipient)
	require.Equal(t, 1, f.gen.calls())
	assert.Contains(t, f.gen.prompts[0], "Alice")
	assert.Contains(t, f.gen.prompts[0], `"field trip"`)

	f.gen.err = errors.New("boom")
	_, err = f.svc.Draft(context.Background(), adminP, models.DraftSMSRequest{StudentID: "S001", Topic: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrUpstream))

	_, err = f.svc.Draft(context.Background(), parentP, models.DraftSMSRequest{StudentID: "S001", Topic: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestSMSOutboxVisibility(t *testing.T) {
	f := newSMSFixture(t, &mockDispatcher{})
	ctx := context.Background()

	_, err := f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S001", Content: "For Alice"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S002", Content: "For Michael"})
	require.NoError(t, err)

	all, err := f.svc.Outbox(adminP)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.Outbox(parentP)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "S001", mine[0].StudentID)

	_, err = f.svc.Outbox(studentP)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestSMSOutboxFollowsTeacherClassScope(t *testing.T) {
	f := newScopedSMSFixture(t, &mockDispatcher{}, map[string][]string{"T002": {"11th"}})
	ctx := context.Background()
	scienceTeacher := &models.Principal{ID: "T002", Name: "Ms. Roberts", Role: models.RoleTeacher}

	_, err := f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S002", Content: "For Michael"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, adminP, models.SendSMSRequest{StudentID: "S003", Content: "For Emma"})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, scienceTeacher, models.SendSMSRequest{StudentID: "S002", Content: "Lab report"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	outbox, err := f.svc.Outbox(scienceTeacher)
	require.NoError(t, err)
	require.Len(t, outbox, 1)
	assert.Equal(t, "S003", outbox[0].StudentID)
	for _, m := range outbox {
		assert.NotEqual(t, "S002", m.StudentID)
	}

	// Unscoped teachers keep the whole outbox.
	all, err := f.svc.Outbox(teacherP)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
