package service

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func attribute(weight, lo, hi float64, higherIsBetter, active bool) *model.ScoringAttribute {
	return model.ReconstructScoringAttribute(uuid.New(), model.ScoringAttributeParams{
		Name:           "attr",
		Category:       valueobject.AttributeCategoryFinancial,
		Weight:         weight,
		MinValue:       lo,
		MaxValue:       hi,
		HigherIsBetter: higherIsBetter,
	}, active, now, now)
}

func score(attr *model.ScoringAttribute, normalized float64) model.DealScore {
	return model.DealScore{AttributeID: attr.ID(), NormalizedScore: normalized, ScoredAt: now}
}

func threshold(t *testing.T) *model.ScoringThreshold {
	t.Helper()
	th, err := model.NewScoringThreshold(70, 40, uuid.New(), now)
	require.NoError(t, err)
	return &th
}

func TestScoringEngine_Normalize(t *testing.T) {
	e := NewScoringEngine()
	higher := attribute(10, 0, 200, true, true)
	lower := attribute(10, 0, 200, false, true)

	tests := []struct {
		name string
		attr *model.ScoringAttribute
		raw  float64
		want float64
	}{
		{"minimum", higher, 0, 0},
		{"maximum", higher, 200, 100},
		{"midpoint", higher, 100, 50},
		{"below range clamps", higher, -50, 0},
		{"above range clamps", higher, 1e9, 100},
		{"inverted minimum", lower, 0, 100},
		{"inverted maximum", lower, 200, 0},
		{"inverted quarter", lower, 50, 75},
		{"rounded to two decimals", higher, 1, 0.5},
		{"degenerate range", attribute(10, 5, 5, true, true), 123, 50},
		{"degenerate range inverted", attribute(10, 5, 5, false, true), -3, 50},
		{"legacy range with max below min", attribute(10, 9, 1, true, true), 5, 50},
		{"NaN raw value", higher, math.NaN(), 50},
		{"range wider than float64", attribute(10, -1e308, 1e308, true, true), 0, 50},
		{"range wider than float64 at maximum", attribute(10, -1e308, 1e308, true, true), 1e308, 100},
		{"range wider than float64 inverted", attribute(10, -1e308, 1e308, false, true), -1e308, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Normalize(tt.attr, tt.raw))
		})
	}
}

func TestScoringEngine_Normalize_Bounds(t *testing.T) {
	e := NewScoringEngine()
	attrs := []*model.ScoringAttribute{
		attribute(1, -10, 10, true, true),
		attribute(1, -10, 10, false, true),
		attribute(1, 0.1, 0.3, true, true),
		attribute(1, -math.MaxFloat64, math.MaxFloat64, true, true),
		attribute(1, -math.MaxFloat64, math.MaxFloat64, false, true),
	}
	raws := []float64{
		math.Inf(-1), -math.MaxFloat64, -1e12, -10, -0.2, 0, 0.15, 3.3, 10, 1e12,
		math.MaxFloat64, math.Inf(1), math.NaN(),
	}
	for _, a := range attrs {
		for _, raw := range raws {
			got := e.Normalize(a, raw)
			assert.False(t, math.IsNaN(got), "raw %v on [%v, %v]", raw, a.MinValue(), a.MaxValue())
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestScoringEngine_Normalize_Polarity(t *testing.T) {
	e := NewScoringEngine()
	up := attribute(1, 0, 10, true, true)
	down := attribute(1, 0, 10, false, true)

	for raw := 0.0; raw < 10; raw++ {
		assert.Less(t, e.Normalize(up, raw), e.Normalize(up, raw+1))
		assert.Greater(t, e.Normalize(down, raw), e.Normalize(down, raw+1))
		assert.InDelta(t, 100.0, e.Normalize(up, raw)+e.Normalize(down, raw), 0.011)
	}
}

func TestScoringEngine_RecomputeTotal(t *testing.T) {
	e := NewScoringEngine()

	t.Run("unscored attributes are excluded", func(t *testing.T) {
		a := attribute(50, 0, 100, true, true)
		b := attribute(50, 0, 100, true, true)

		r, err := e.RecomputeTotal([]*model.ScoringAttribute{a, b}, []model.DealScore{score(a, 80)}, threshold(t))
		require.NoError(t, err)
		require.NotNil(t, r.Total)
		assert.Equal(t, 80.0, *r.Total)
		assert.Equal(t, valueobject.ClassificationGreen, r.Classification)
		assert.Equal(t, 1, r.Scored)
	})

	t.Run("weighted average", func(t *testing.T) {
		a := attribute(30, 0, 100, true, true)
		b := attribute(10, 0, 100, true, true)

		r, err := e.RecomputeTotal([]*model.ScoringAttribute{a, b}, []model.DealScore{score(a, 50), score(b, 10)}, threshold(t))
		require.NoError(t, err)
		assert.Equal(t, 40.0, *r.Total)
		assert.Equal(t, valueobject.ClassificationYellow, r.Classification)
	})

	t.Run("no scores leaves the deal unclassified", func(t *testing.T) {
		a := attribute(50, 0, 100, true, true)
		r, err := e.RecomputeTotal([]*model.ScoringAttribute{a}, nil, threshold(t))
		require.NoError(t, err)
		assert.Nil(t, r.Total)
		assert.True(t, r.Classification.IsZero())
	})

	t.Run("zero weight and inactive attributes are ignored", func(t *testing.T) {
		zero := attribute(0, 0, 100, true, true)
		inactive := attribute(60, 0, 100, true, false)
		r, err := e.RecomputeTotal(
			[]*model.ScoringAttribute{zero, inactive},
			[]model.DealScore{score(zero, 90), score(inactive, 90)},
			threshold(t),
		)
		require.NoError(t, err)
		assert.Nil(t, r.Total)
		assert.True(t, r.Classification.IsZero())
	})

	t.Run("missing threshold", func(t *testing.T) {
		a := attribute(50, 0, 100, true, true)
		_, err := e.RecomputeTotal([]*model.ScoringAttribute{a}, []model.DealScore{score(a, 80)}, nil)
		assert.ErrorIs(t, err, domainerr.ErrConfiguration)
	})
}

func TestScoringEngine_Classification(t *testing.T) {
	e := NewScoringEngine()
	a := attribute(100, 0, 100, true, true)

	tests := []struct {
		total float64
		want  valueobject.Classification
	}{
		{70, valueobject.ClassificationGreen},
		{69.9, valueobject.ClassificationYellow},
		{40, valueobject.ClassificationYellow},
		{39.9, valueobject.ClassificationRed},
	}
	for _, tt := range tests {
		r, err := e.RecomputeTotal([]*model.ScoringAttribute{a}, []model.DealScore{score(a, tt.total)}, threshold(t))
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.Classification, "total %v", tt.total)
	}
}
