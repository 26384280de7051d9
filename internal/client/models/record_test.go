package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermark_FallsBackToCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
	}{
		{name: "nil meta", meta: nil},
		{name: "no detail", meta: map[string]any{"species": "amanita"}},
		{name: "detail without updatedAt", meta: map[string]any{"detail": map[string]any{"notes": "x"}}},
		{name: "non-numeric updatedAt", meta: map[string]any{"detail": map[string]any{"updatedAt": "yesterday"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{CreatedAt: 1234, Meta: tt.meta}
			assert.Equal(t, int64(1234), r.Watermark())
		})
	}
}

func TestWatermark_ReadsDetailUpdatedAt(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{name: "int64", v: int64(9000)},
		{name: "int", v: int(9000)},
		{name: "float64 from json", v: float64(9000)},
		{name: "json.Number", v: json.Number("9000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{
				CreatedAt: 1,
				Meta:      map[string]any{"detail": map[string]any{"updatedAt": tt.v}},
			}
			assert.Equal(t, int64(9000), r.Watermark())
		})
	}
}

func TestWatermark_SurvivesJSONRoundTrip(t *testing.T) {
	r := &Record{CreatedAt: 1, Meta: map[string]any{}}
	r.Touch(5555)

	b, err := json.Marshal(r.Meta)
	require.NoError(t, err)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(b, &meta))

	assert.Equal(t, int64(5555), (&Record{CreatedAt: 1, Meta: meta}).Watermark())
}

func TestTouch_BumpsWatermark(t *testing.T) {
	r := &Record{CreatedAt: 100}
	assert.Equal(t, int64(100), r.Watermark())

	r.Touch(200)
	assert.Equal(t, int64(200), r.Watermark())

	r.Touch(300)
	assert.Equal(t, int64(300), r.Watermark())
}
