package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func TestCollectionCommandsReturnNewSnapshots(t *testing.T) {
	c := NewCollection("teacher", SeedTeachers(), nil)
	before := c.Snapshot()

	after, err := c.Add(models.Teacher{ID: "T004", Name: "Mr. Wright", Subject: "History"})
	require.NoError(t, err)
	assert.Len(t, before, 3)
	assert.Len(t, after, 4)

	updated, snap, err := c.Update("T001", func(rec models.Teacher) (models.Teacher, error) {
		rec.Phone = "555-9999"
		return rec, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "555-9999", updated.Phone)
	assert.Equal(t, "555-9999", snap[0].Phone)
	assert.Equal(t, "555-1111", before[0].Phone)

	snap, err = c.Remove("T002")
	require.NoError(t, err)
	assert.Len(t, snap, 3)
	assert.Equal(t, uint64(3), c.Version())
}

func TestCollectionErrors(t *testing.T) {
	c := NewCollection("fee", SeedFees(), nil)

	_, err := c.Find("F999")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = c.Add(models.FeeRecord{ID: "F001"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = c.Add(models.FeeRecord{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, _, err = c.Update("F001", func(f models.FeeRecord) (models.FeeRecord, error) {
		f.ID = "F100"
		return f, nil
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	sentinel := errors.New("abort")
	_, _, err = c.Update("F001", func(f models.FeeRecord) (models.FeeRecord, error) { return f, sentinel })
	assert.ErrorIs(t, err, sentinel)

	_, err = c.Remove("F999")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, uint64(0), c.Version())
}

func TestCollectionCloneIsolatesNestedSlices(t *testing.T) {
	c := NewCollection("student", SeedStudents(), CloneStudent)
	s, err := c.Find("S001")
	require.NoError(t, err)
	s.Performance[0].Score = 0

	again, err := c.Find("S001")
	require.NoError(t, err)
	assert.Equal(t, 88, again.Performance[0].Score)
}

func TestCollectionConcurrentAccess(t *testing.T) {
	c := NewCollection[models.SMSMessage]("sms", nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Add(models.SMSMessage{ID: string(rune('a'+i%26)) + string(rune('A'+i/26))})
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Snapshot(), 50)
}
