package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgas/internal/blob"
	"sgas/internal/core"
	"sgas/internal/entitymodel"
	"sgas/internal/platform/config"
)

func ids(t *testing.T, v any) []string {
	t.Helper()
	items, ok := v.([]any)
	require.True(t, ok, "expected list, got %T", v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.(map[string]any)["id"].(string))
	}
	return out
}

// TestIntegrationEntityRelationships checks many-to-many replacement, lookup
// creation and optional detachment survive a restart of the SQLite store.
func TestIntegrationEntityRelationships(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{Driver: config.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "sgas.db")}

	store, err := core.OpenPersistentStore(ctx, cfg, core.NewDefaultRulesEngine())
	require.NoError(t, err)
	svc := core.NewService(store, blob.NewMemory())

	first, _, err := svc.Create(ctx, entitymodel.Incident, map[string]any{"description": "Slip"}, nil)
	require.NoError(t, err)
	second, _, err := svc.Create(ctx, entitymodel.Incident, map[string]any{"description": "Fall"}, nil)
	require.NoError(t, err)
	dep, _, err := svc.Create(ctx, entitymodel.Department, map[string]any{"name": "Ops"}, nil)
	require.NoError(t, err)

	report, _, err := svc.Create(ctx, entitymodel.IncidentFlashReport, map[string]any{
		"incidents":              []any{first["id"], second["id"]},
		"incident_date":          "2024-04-01",
		"incident_time":          "08:30",
		"section":                "North",
		"location_of_incident":   "Gate",
		"date_incident_reported": "2024-04-02",
		"reported_by":            "Ana",
		"type":                   "NEAR_MISS",
		"description":            "Two incidents at the gate",
	}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first["id"].(string), second["id"].(string)}, ids(t, report["incidents"]))

	acting, _, err := svc.Create(ctx, entitymodel.OHSActing, map[string]any{
		"name":        "Walkdown",
		"date":        "2024-04-03",
		"position":    "Site Engineer",
		"departament": dep["id"],
	}, nil)
	require.NoError(t, err)
	position := acting["position"].(map[string]any)
	assert.Equal(t, "Site Engineer", position["name"])

	_, err = svc.Delete(ctx, entitymodel.Incident, first["id"].(string))
	require.NoError(t, err)
	_, err = svc.Delete(ctx, entitymodel.Department, dep["id"].(string))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := core.OpenPersistentStore(ctx, cfg, core.NewDefaultRulesEngine())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	svc = core.NewService(reopened, blob.NewMemory())

	got, err := svc.Get(ctx, entitymodel.IncidentFlashReport, report["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, []string{second["id"].(string)}, ids(t, got["incidents"]))

	got, err = svc.Get(ctx, entitymodel.OHSActing, acting["id"].(string))
	require.NoError(t, err)
	assert.Nil(t, got["departament"])
	assert.Equal(t, position["id"], got["position"].(map[string]any)["id"])

	positions, err := svc.List(ctx, entitymodel.Position, nil)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "Site Engineer", positions[0]["name"])
}
