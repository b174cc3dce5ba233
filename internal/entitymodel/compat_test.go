package entitymodel

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgas/pkg/domain"
)

func TestBreakingIgnoresIdenticalCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(Describe(Catalog())))
	baseline, err := ReadDescription(&buf)
	require.NoError(t, err)
	assert.Empty(t, Breaking(baseline, Describe(Catalog())))
}

func TestBreakingReportsRemovalsAndTightening(t *testing.T) {
	baseline := Description{Entities: []EntityDescription{
		{
			Type:  "widget",
			Route: "widgets",
			Fields: []domain.Field{
				{API: "name", Storage: "name", Kind: domain.KindString},
				{API: "size", Storage: "size", Kind: domain.KindEnum, Enum: []string{"S", "M", "L"}},
				{API: "gone", Storage: "gone", Kind: domain.KindText},
			},
			Relations: []domain.Relation{
				{API: "owner", Storage: "owner", Target: "person"},
				{API: "tags", Storage: "tags", Target: "tag", Many: true},
			},
		},
		{Type: "gizmo", Route: "gizmos"},
	}}
	current := Description{Entities: []EntityDescription{
		{
			Type:  "widget",
			Route: "widgets-v2",
			Fields: []domain.Field{
				{API: "name", Storage: "name", Kind: domain.KindString, Required: true},
				{API: "size", Storage: "size", Kind: domain.KindEnum, Enum: []string{"S", "L", "XL"}},
				{API: "extra", Storage: "extra", Kind: domain.KindText, Required: true},
			},
			Relations: []domain.Relation{
				{API: "owner", Storage: "owner", Target: "person", Required: true},
				{API: "tags", Storage: "tags", Target: "label", Many: true},
			},
		},
	}}

	assert.Equal(t, []string{
		"entity removed: gizmo",
		"entity widget field name became required",
		"entity widget field removed: gone",
		"entity widget field size enum value removed: M",
		"entity widget relation changed: tags",
		"entity widget relation owner became required",
		"entity widget route changed: widgets -> widgets-v2",
	}, Breaking(baseline, current))
}

func TestReadDescriptionRejectsGarbage(t *testing.T) {
	_, err := ReadDescription(bytes.NewBufferString("{nope"))
	require.Error(t, err)
}
