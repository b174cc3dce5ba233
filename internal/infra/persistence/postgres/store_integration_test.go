//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"sgas/pkg/domain"
)

func TestStoreAgainstPostgresContainer(t *testing.T) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sgas"),
		tcpostgres.WithUsername("sgas"),
		tcpostgres.WithPassword("sgas"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewStore(ctx, dsn, fixtureCatalog(), nil, "v1")
	require.NoError(t, err)
	created := createDepartment(t, store, "HR")
	require.NoError(t, store.Close())

	reopened, err := NewStore(ctx, dsn, fixtureCatalog(), nil, "v1")
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	err = reopened.View(ctx, func(v domain.TransactionView) error {
		rec, ok := v.Find(department, created.ID)
		require.True(t, ok)
		assert.Equal(t, "HR", rec.Fields["name"])
		assert.True(t, rec.CreatedAt.Equal(created.CreatedAt))
		return nil
	})
	require.NoError(t, err)
}
