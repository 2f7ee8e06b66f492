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

func newAssignmentService(scopes map[string][]string) (*AssignmentService, *repository.Store) {
	store := repository.NewSeededStore()
	return NewAssignmentService(store.Assignments, store.Submissions, newTestAccess(scopes, store), nil, nil, nil), store
}

func assignmentIDs(items []models.Assignment) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestAssignmentListByRole(t *testing.T) {
	svc, _ := newAssignmentService(map[string][]string{"T001": {"11th"}})

	all, err := svc.List(adminP, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	scoped, err := svc.List(teacherP, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A003"}, assignmentIDs(scoped))

	own, err := svc.List(studentP, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A001", "A002"}, assignmentIDs(own))

	science, err := svc.List(parentP, "science")
	require.NoError(t, err)
	assert.Equal(t, []string{"A002"}, assignmentIDs(science))
}

func TestTeacherPostsAssignment(t *testing.T) {
	svc, store := newAssignmentService(nil)
	req := models.AssignmentRequest{Title: "Fractions", Subject: "Mathematics", Grade: "10th", Description: "Worksheet 2", DueDate: "2024-06-05"}

	a, err := svc.Post(context.Background(), teacherP, req)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentActive, a.Status)
	assert.Equal(t, "Mrs. Krabappel", a.PostedBy)
	assert.Len(t, store.Assignments.Snapshot(), 4)

	_, err = svc.Post(context.Background(), studentP, req)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestScopedTeacherCannotPostOutsideClass(t *testing.T) {
	svc, _ := newAssignmentService(map[string][]string{"T001": {"11th"}})
	req := models.AssignmentRequest{Title: "Fractions", Subject: "Mathematics", Grade: "10th", Description: "Worksheet 2", DueDate: "2024-06-05"}

	_, err := svc.Post(context.Background(), teacherP, req)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	err = svc.Delete(context.Background(), teacherP, "A001")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestAssignmentUpdateAndDelete(t *testing.T) {
	svc, store := newAssignmentService(nil)
	ctx := context.Background()

	updated, err := svc.Update(ctx, teacherP, "A001", models.AssignmentRequest{Title: "Quadratics", Subject: "Mathematics", Grade: "10th", Description: "Updated", DueDate: "2024-05-30", Status: models.AssignmentClosed})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentClosed, updated.Status)

	require.NoError(t, svc.Delete(ctx, adminP, "A002"))
	assert.Len(t, store.Assignments.Snapshot(), 2)
}

func TestStudentSubmission(t *testing.T) {
	svc, store := newAssignmentService(nil)
	ctx := context.Background()

	sub, err := svc.Submit(ctx, studentP, "A001", models.SubmissionRequest{Content: "x = 2"})
	require.NoError(t, err)
	assert.Equal(t, "S001", sub.StudentID)

	again, err := svc.Submit(ctx, studentP, "A001", models.SubmissionRequest{Content: "x = 3"})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Len(t, store.Submissions.Snapshot(), 1)

	_, err = svc.Submit(ctx, studentP, "A003", models.SubmissionRequest{Content: "sonnet"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Submit(ctx, teacherP, "A001", models.SubmissionRequest{Content: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, _, err = store.Assignments.Update("A002", func(a models.Assignment) (models.Assignment, error) {
		a.Status = models.AssignmentClosed
		return a, nil
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, studentP, "A002", models.SubmissionRequest{Content: "late"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	subs, err := svc.Submissions(teacherP, "A001")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "x = 3", subs[0].Content)

	parentView, err := svc.Submissions(parentP, "A001")
	require.NoError(t, err)
	assert.Len(t, parentView, 1)
}

func TestAssignmentDownload(t *testing.T) {
	svc, _ := newAssignmentService(nil)

	name, body, err := svc.Download(context.Background(), parentP, "A001")
	require.NoError(t, err)
	assert.Equal(t, "assignment-A001.txt", name)
	assert.Contains(t, string(body), "Quadratic Equations Practice")

	_, _, err = svc.Download(context.Background(), parentP, "A003")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
