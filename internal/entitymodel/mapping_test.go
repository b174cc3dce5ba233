package entitymodel

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgas/pkg/domain"
)

type stubView map[domain.EntityType]map[string]domain.Record

func (v stubView) Find(t domain.EntityType, id string) (domain.Record, bool) {
	rec, ok := v[t][id]
	return rec, ok
}

func (v stubView) FindBy(domain.EntityType, string, any) (domain.Record, bool) {
	return domain.Record{}, false
}

func (v stubView) List(domain.EntityType, domain.Filter) []domain.Record { return nil }

func TestDecodeConvertsToStorage(t *testing.T) {
	codec := NewCodec(Catalog())
	in, err := codec.Decode(ClaimComplainControl, map[string]any{
		"number":                        "001",
		"claim_complain_submitted_by":   "Ana",
		"claim_complain_reception_date": "2024-02-03",
		"claim_complain_description":    "Noise at night",
		"status":                        "OPEN",
		"created_at":                    "ignored",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "001", in.Fields["number"])
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), in.Fields["claimComplainReceptionDate"])
	assert.Equal(t, "OPEN", in.Fields["status"])
	assert.NotContains(t, in.Fields, "responseDate")
}

func TestDecodeReportsMissingAndInvalid(t *testing.T) {
	codec := NewCodec(Catalog())
	_, err := codec.Decode(ImpactAssessment, map[string]any{
		"activity":   "  ",
		"life_cycle": "ANCIENT",
		"deadline":   "not-a-date",
	}, nil)
	require.Error(t, err)

	var verr domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"activity", "departament", "risk_and_impact", "environmental_factor"}, verr.Missing)
	assert.Contains(t, verr.Invalid, "life_cycle")
	assert.Contains(t, verr.Invalid, "deadline")
	assert.True(t, strings.HasPrefix(err.Error(), "missing required fields: activity"))
}

func TestDecodeRejectsUnrepresentableNumbers(t *testing.T) {
	codec := NewCodec(Catalog())
	for _, tc := range []struct {
		name   string
		entity domain.EntityType
		body   map[string]any
		field  string
	}{
		{"nan string", ChemicalInventory, map[string]any{"name": "Acid", "quantity": "NaN"}, "quantity"},
		{"inf string", ChemicalInventory, map[string]any{"name": "Acid", "quantity": "-Inf"}, "quantity"},
		{"overflowing string", ChemicalInventory, map[string]any{"name": "Acid", "quantity": "1e400"}, "quantity"},
		{"integer above int64", PPEDelivery, ppeDelivery(1e30), "quantity"},
		{"integer at 2^63", PPEDelivery, ppeDelivery(9223372036854775808.0), "quantity"},
		{"integer below int64", PPEDelivery, ppeDelivery(-1e19), "quantity"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.entity, tc.body, nil)
			var verr domain.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Invalid, tc.field)
		})
	}

	in, err := codec.Decode(PPEDelivery, ppeDelivery(-9223372036854775808.0), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), in.Fields["quantity"])
}

func ppeDelivery(quantity any) map[string]any {
	return map[string]any{
		"employee_name": "Rui",
		"ppe_item":      "Gloves",
		"quantity":      quantity,
		"delivery_date": "2024-05-01",
	}
}

func TestDecodeReferenceForms(t *testing.T) {
	codec := NewCodec(Catalog())
	in, err := codec.Decode(OHSActing, map[string]any{
		"name":        "Weekly walk",
		"date":        "2024-01-01",
		"position":    map[string]any{"id": "pos-1", "name": "Safety Officer"},
		"departament": "dep-1",
		"acceptance_confirmations": []any{
			"ac-1",
			map[string]any{"id": "ac-2"},
			"ac-1",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []Reference{{ID: "pos-1", Display: "Safety Officer", KeepID: true}}, in.References["position"])
	assert.Equal(t, []Reference{{ID: "dep-1", Display: "dep-1"}}, in.References["departament"])
	assert.Equal(t, []Reference{{ID: "ac-1", Display: "ac-1"}, {ID: "ac-2", KeepID: true}}, in.References["acceptanceConfirmations"])
}

func TestDecodeAcceptsIDAlias(t *testing.T) {
	codec := NewCodec(Catalog())
	in, err := codec.Decode(ObjectiveAndGoal, map[string]any{
		"objective":      "Reduce waste",
		"goal":           "10%",
		"departament_id": "dep-9",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "dep-9", in.References["departament"][0].ID)
}

func TestDecodeRejectsArrayForSingularRelation(t *testing.T) {
	codec := NewCodec(Catalog())
	_, err := codec.Decode(ObjectiveAndGoal, map[string]any{
		"objective":   "x",
		"goal":        "y",
		"departament": []any{"a", "b"},
	}, nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDecodeFiles(t *testing.T) {
	codec := NewCodec(Catalog())
	in, err := codec.Decode(Inspection, map[string]any{
		"inspection_date": "2024-03-01",
		"inspector":       "Rui",
		"area":            "Workshop",
		"document":        "",
	}, map[string]Upload{"photo": {Filename: "a.png", Body: strings.NewReader("png")}})
	require.NoError(t, err)

	assert.Contains(t, in.Uploads, "photo")
	assert.Equal(t, "", in.Fields["document"])
	assert.NotContains(t, in.Fields, "photo")
}

func TestEncodeInlinesRelations(t *testing.T) {
	codec := NewCodec(Catalog())
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	view := stubView{
		Department: {"dep-1": {ID: "dep-1", Fields: map[string]any{"name": "HR"}}},
		Incident:   {"inc-1": {ID: "inc-1", Fields: map[string]any{"description": "Slip"}}},
	}

	rec := domain.NewRecord()
	rec.ID = "ia-1"
	rec.Fields["activity"] = "Excavation"
	rec.Fields["deadline"] = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	rec.Links["departament"] = []string{"dep-1"}
	rec.CreatedAt, rec.UpdatedAt = created, created

	out := codec.Encode(view, ImpactAssessment, rec)
	assert.Equal(t, "ia-1", out["id"])
	assert.Equal(t, "2024-06-30", out["deadline"])
	assert.Equal(t, map[string]any{"id": "dep-1", "name": "HR"}, out["departament"])
	assert.Equal(t, "dep-1", out["departament_id"])
	assert.Nil(t, out["subproject"])
	assert.Nil(t, out["observations"])
	assert.Equal(t, "2024-01-02T03:04:05Z", out["created_at"])

	flash := domain.NewRecord()
	flash.Links["incidents"] = []string{"inc-1"}
	out = codec.Encode(view, IncidentFlashReport, flash)
	assert.Equal(t, []any{map[string]any{"id": "inc-1", "description": "Slip"}}, out["incidents"])
}

func TestParseFilter(t *testing.T) {
	codec := NewCodec(Catalog())
	for _, key := range []string{"departament", "departament_id", "departamentId"} {
		filter, err := codec.ParseFilter(ImpactAssessment, map[string][]string{key: {"dep-1"}})
		require.NoError(t, err, key)
		assert.Equal(t, domain.Filter{"departament": "dep-1"}, filter)
	}
	filter, err := codec.ParseFilter(ImpactAssessment, map[string][]string{"riskAndImpactId": {"r1"}})
	require.NoError(t, err)
	assert.Equal(t, domain.Filter{"riskAndImpact": "r1"}, filter)

	_, err = codec.ParseFilter(ImpactAssessment, map[string][]string{"colour": {"red"}})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}
