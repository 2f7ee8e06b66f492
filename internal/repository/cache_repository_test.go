package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCacheRepository(client, "edusphere:", nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "report:S001:abc", map[string]string{"report": "steady"}, time.Minute))
	assert.True(t, mr.Exists("edusphere:report:S001:abc"))

	var out map[string]string
	require.NoError(t, repo.Get(ctx, "report:S001:abc", &out))
	assert.Equal(t, "steady", out["report"])

	mr.FastForward(2 * time.Minute)
	err := repo.Get(ctx, "report:S001:abc", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCacheRepository(client, "edusphere:", nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "report:S001:a", "x", time.Minute))
	require.NoError(t, repo.Set(ctx, "report:S001:b", "y", time.Minute))
	require.NoError(t, repo.Set(ctx, "report:S002:a", "z", time.Minute))

	require.NoError(t, repo.DeleteByPattern(ctx, "report:S001:*"))
	assert.False(t, mr.Exists("edusphere:report:S001:a"))
	assert.False(t, mr.Exists("edusphere:report:S001:b"))
	assert.True(t, mr.Exists("edusphere:report:S002:a"))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "", nil)
	var out string
	assert.True(t, errors.Is(repo.Get(context.Background(), "k", &out), appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(context.Background(), "k", "v", time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
}
