//go:build integration

package cleanup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisQueueAgainstContainer(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	q, client, err := OpenRedis(ctx, url, "sgas:cleanup:test")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	blobs := &flakyDeleter{failures: map[string]int{"b": 1}}
	w := NewWorker(q, blobs)
	require.NoError(t, w.Enqueue(ctx, "a", nil))
	require.NoError(t, w.Enqueue(ctx, "b", errors.New("first failure")))

	deleted, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	job, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", job.Key)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, "storage unavailable", job.LastError)
}
