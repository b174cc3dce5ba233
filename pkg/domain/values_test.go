package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		name string
		kind FieldKind
		in   any
		want any
	}{
		{"string", KindString, "x", "x"},
		{"enum", KindEnum, "OPEN", "OPEN"},
		{"number from int", KindNumber, 3, 3.0},
		{"number from json", KindNumber, json.Number("2.5"), 2.5},
		{"number from string", KindNumber, "7.25", 7.25},
		{"integer from float", KindInteger, 12.0, int64(12)},
		{"boolean from string", KindBoolean, "true", true},
		{"date truncates", KindDate, "2024-05-01T15:04:05+02:00", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"date only", KindDate, "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"datetime to utc", KindDateTime, "2024-05-01T15:04:05+02:00", time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeValue(tc.kind, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeValueErrors(t *testing.T) {
	for _, tc := range []struct {
		kind FieldKind
		in   any
	}{
		{KindString, 1},
		{KindNumber, "abc"},
		{KindInteger, 1.25},
		{KindNumber, "NaN"},
		{KindNumber, "+Inf"},
		{KindNumber, "1e400"},
		{KindNumber, math.Inf(1)},
		{KindInteger, 1e30},
		{KindInteger, float64(math.MaxInt64)},
		{KindBoolean, "maybe"},
		{KindDate, "yesterday"},
		{KindDate, 42},
		{FieldKind("blob"), "x"},
	} {
		_, err := NormalizeValue(tc.kind, tc.in)
		assert.Error(t, err, "%s %v", tc.kind, tc.in)
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-05-01", FormatValue(KindDate, ts))
	assert.Equal(t, "2024-05-01T13:04:05Z", FormatValue(KindDateTime, ts))
	assert.Equal(t, int64(3), FormatValue(KindInteger, int64(3)))
}
