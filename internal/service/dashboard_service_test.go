package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/repository"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func newDashboardService() *DashboardService {
	store := repository.NewSeededStore()
	svc := NewDashboardService(DashboardSources{
		Students:    store.Students,
		Fees:        store.Fees,
		Exams:       store.Exams,
		Assignments: store.Assignments,
		Submissions: store.Submissions,
		Admissions:  store.Admissions,
	}, newTestAccess(nil, store), nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func widget(t *testing.T, d *models.Dashboard, key string) models.Widget {
	t.Helper()
	for _, w := range d.Widgets {
		if w.Key == key {
			return w
		}
	}
	t.Fatalf("widget %q not found", key)
	return models.Widget{}
}

func actionsOf(d *models.Dashboard) []models.Action {
	out := make([]models.Action, 0, len(d.QuickActions))
	for _, qa := range d.QuickActions {
		if qa.Action != "" {
			out = append(out, qa.Action)
		}
	}
	return out
}

func TestAdminDashboard(t *testing.T) {
	d, err := newDashboardService().Overview(adminP)
	require.NoError(t, err)

	assert.Equal(t, 3, widget(t, d, "total_students").Value)
	assert.Equal(t, 2, widget(t, d, "outstanding_fees").Value)
	assert.Equal(t, "$1,050.00", widget(t, d, "monthly_revenue").Value)
	assert.Contains(t, actionsOf(d), models.ActionFeeExport)
	assert.NotContains(t, actionsOf(d), models.ActionFeePay)
}

func TestParentDashboard(t *testing.T) {
	d, err := newDashboardService().Overview(parentP)
	require.NoError(t, err)

	assert.Equal(t, "95%", widget(t, d, "attendance_S001").Value)
	assert.Equal(t, "$500.00 on 2024-06-01", widget(t, d, "next_fee_due").Value)
	assert.Equal(t, models.RouteFees, widget(t, d, "next_fee_due").Route)
	assert.Equal(t, 2, widget(t, d, "upcoming_exams").Value)
	assert.Equal(t, []models.Action{models.ActionFeePay}, actionsOf(d))
}

func TestStudentDashboard(t *testing.T) {
	d, err := newDashboardService().Overview(studentP)
	require.NoError(t, err)

	assert.Equal(t, 2, widget(t, d, "pending_assignments").Value)
	assert.Equal(t, "95%", widget(t, d, "attendance_S001").Value)
	assert.Equal(t, []models.Action{models.ActionAssignmentSubmit}, actionsOf(d))
}

func TestStudentDashboardOmitsFees(t *testing.T) {
	d, err := newDashboardService().Overview(studentP)
	require.NoError(t, err)

	keys := make([]string, 0, len(d.Widgets))
	for _, w := range d.Widgets {
		keys = append(keys, w.Key)
		assert.NotEqual(t, models.RouteFees, w.Route)
	}
	assert.NotContains(t, keys, "next_fee_due")
	assert.Contains(t, keys, "upcoming_exams")
}

func TestTeacherDashboardQuickActions(t *testing.T) {
	d, err := newDashboardService().Overview(teacherP)
	require.NoError(t, err)

	assert.Equal(t, 3, widget(t, d, "class_students").Value)
	assert.ElementsMatch(t, []models.Action{
		models.ActionAttendanceTake,
		models.ActionStudentGrade,
		models.ActionAssignmentPost,
		models.ActionSMSSend,
	}, actionsOf(d))
}

func TestGuestHasNoDashboard(t *testing.T) {
	_, err := newDashboardService().Overview(&models.Guest)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthenticated))
}
