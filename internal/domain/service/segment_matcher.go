package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
)

// SegmentMatcher picks the segment that governs a deal's approval path.
type SegmentMatcher struct{}

// NewSegmentMatcher creates a new SegmentMatcher.
func NewSegmentMatcher() *SegmentMatcher {
	return &SegmentMatcher{}
}

// FindSegment returns the first active segment, by ascending priority and then
// id, whose value and score bands contain the deal. A nil score never matches.
// The input slice is not modified.
func (m *SegmentMatcher) FindSegment(segments []*model.DealSegment, value decimal.Decimal, score *float64) *model.DealSegment {
	if score == nil {
		return nil
	}

	candidates := make([]*model.DealSegment, 0, len(segments))
	for _, s := range segments {
		if s.IsActive() {
			candidates = append(candidates, s)
		}
	}
	slices.SortFunc(candidates, func(a, b *model.DealSegment) int {
		if c := cmp.Compare(a.Priority(), b.Priority()); c != 0 {
			return c
		}
		return strings.Compare(a.ID().String(), b.ID().String())
	})

	for _, s := range candidates {
		if s.Matches(value, *score) {
			return s
		}
	}
	return nil
}
