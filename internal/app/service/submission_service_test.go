package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSubmissionRepo struct {
	fakeSubmissionRepo
	count      int
	countCalls int
}

func (f *countingSubmissionRepo) CountForProblem(ctx context.Context, problemID string) (int, error) {
	f.countCalls++
	return f.count, nil
}

func TestGetSubmissionCountUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := &countingSubmissionRepo{count: 42}
	svc := NewSubmissionService(repo, rdb, zap.NewNop().Sugar())
	ctx := context.Background()

	count, err := svc.GetSubmissionCountForProblem(ctx, "prob-1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.Equal(t, 1, repo.countCalls)

	// Second read is served from the cache.
	count, err = svc.GetSubmissionCountForProblem(ctx, "prob-1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.Equal(t, 1, repo.countCalls)

	// Once the TTL lapses, the database is consulted again.
	mr.FastForward(2 * submissionCountTTL)
	repo.count = 43
	count, err = svc.GetSubmissionCountForProblem(ctx, "prob-1")
	require.NoError(t, err)
	assert.Equal(t, 43, count)
	assert.Equal(t, 2, repo.countCalls)
}

func TestGetSubmissionCountWithoutRedis(t *testing.T) {
	repo := &countingSubmissionRepo{count: 7}
	svc := NewSubmissionService(repo, nil, zap.NewNop().Sugar())

	count, err := svc.GetSubmissionCountForProblem(context.Background(), "prob-1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
