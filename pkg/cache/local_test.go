package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func TestLocalSetGet(t *testing.T) {
	store := NewLocal(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "report:S001:abc", map[string]string{"text": "great"}, 0))

	var out map[string]string
	require.NoError(t, store.Get(ctx, "report:S001:abc", &out))
	assert.Equal(t, "great", out["text"])
}

func TestLocalMiss(t *testing.T) {
	store := NewLocal(8, time.Minute)
	var out string
	err := store.Get(context.Background(), "missing", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestLocalDeleteByPattern(t *testing.T) {
	store := NewLocal(8, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "report:S001:a", "x", 0))
	require.NoError(t, store.Set(ctx, "report:S002:b", "y", 0))
	require.NoError(t, store.Set(ctx, "sms:draft:1", "z", 0))

	require.NoError(t, store.DeleteByPattern(ctx, "report:S001:*"))
	assert.Equal(t, 2, store.Len())

	var out string
	assert.Error(t, store.Get(ctx, "report:S001:a", &out))
	assert.NoError(t, store.Get(ctx, "sms:draft:1", &out))
}

func TestLocalEvictsLeastRecentlyUsed(t *testing.T) {
	store := NewLocal(2, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a", 1, 0))
	require.NoError(t, store.Set(ctx, "b", 2, 0))
	require.NoError(t, store.Set(ctx, "c", 3, 0))

	var out int
	assert.Error(t, store.Get(ctx, "a", &out))
	assert.NoError(t, store.Get(ctx, "c", &out))
	assert.Equal(t, 3, out)
}
