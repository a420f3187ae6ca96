package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

func segment(id uuid.UUID, priority int, minValue int64, minScore, maxScore float64, active bool) *model.DealSegment {
	return model.ReconstructDealSegment(id, model.DealSegmentParams{
		Name:          "seg-" + id.String()[:8],
		MinDealValue:  decimal.NewFromInt(minValue),
		MinScore:      minScore,
		MaxScore:      maxScore,
		ApprovalLevel: 1,
		TouchModel:    valueobject.TouchModelLowTouch,
		Priority:      priority,
		Active:        active,
	}, now, now)
}

func f(v float64) *float64 { return &v }

func TestSegmentMatcher_FindSegment(t *testing.T) {
	m := NewSegmentMatcher()
	low := segment(uuid.New(), 1, 0, 0, 49.99, true)
	high := segment(uuid.New(), 1, 0, 50, 100, true)
	enterprise := segment(uuid.New(), 0, 1_000_000, 0, 100, true)
	all := []*model.DealSegment{low, high, enterprise}

	assert.Equal(t, high, m.FindSegment(all, decimal.NewFromInt(5000), f(80)))
	assert.Equal(t, low, m.FindSegment(all, decimal.NewFromInt(5000), f(20)))
	assert.Equal(t, enterprise, m.FindSegment(all, decimal.NewFromInt(2_000_000), f(20)), "lower priority value wins")
	assert.Nil(t, m.FindSegment(all, decimal.NewFromInt(5000), f(49.995)), "falls between bands")
}

func TestSegmentMatcher_NullScoreNeverRoutes(t *testing.T) {
	m := NewSegmentMatcher()
	catchAll := segment(uuid.New(), 0, 0, 0, 100, true)
	assert.Nil(t, m.FindSegment([]*model.DealSegment{catchAll}, decimal.NewFromInt(10), nil))
}

func TestSegmentMatcher_SkipsInactive(t *testing.T) {
	m := NewSegmentMatcher()
	inactive := segment(uuid.New(), 0, 0, 0, 100, false)
	active := segment(uuid.New(), 5, 0, 0, 100, true)
	assert.Equal(t, active, m.FindSegment([]*model.DealSegment{inactive, active}, decimal.NewFromInt(10), f(50)))
}

func TestSegmentMatcher_PriorityTieBreakIsStable(t *testing.T) {
	m := NewSegmentMatcher()
	first := segment(uuid.MustParse("00000000-0000-0000-0000-000000000001"), 3, 0, 0, 100, true)
	second := segment(uuid.MustParse("00000000-0000-0000-0000-000000000002"), 3, 0, 0, 100, true)

	orders := [][]*model.DealSegment{{first, second}, {second, first}}
	for _, order := range orders {
		got := m.FindSegment(order, decimal.NewFromInt(100), f(60))
		assert.Equal(t, first.ID(), got.ID())
	}
	assert.Equal(t, second, orders[1][0], "input order untouched")
}
