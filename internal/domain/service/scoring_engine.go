package service

import (
	"math"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// Rollup is the weighted total of a deal's scores. Total is nil, and
// Classification zero, when no active weighted attribute has been scored.
type Rollup struct {
	Total          *float64
	Classification valueobject.Classification
	// Scored is the number of scores that contributed to Total.
	Scored int
}

// ScoringEngine turns raw attribute inputs into normalized scores and rolls them
// up into a classified total. It holds no state.
type ScoringEngine struct{}

// NewScoringEngine creates a new ScoringEngine.
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Normalize maps a raw value onto 0-100 relative to the attribute's range.
// Values outside the range are clamped. When lower raw values are better the
// scale is inverted. A degenerate range scores 50; that includes legacy rows
// stored with max_value below min_value, which new writes reject. A NaN raw
// value also scores 50.
func (e *ScoringEngine) Normalize(attr *model.ScoringAttribute, raw float64) float64 {
	lo, hi := attr.MinValue(), attr.MaxValue()
	if hi <= lo || math.IsNaN(raw) {
		return 50
	}

	clamped := math.Min(math.Max(raw, lo), hi)
	span := hi - lo
	offset := clamped - lo
	if math.IsInf(span, 0) {
		// Halve both so a range wider than MaxFloat64 stays finite.
		span = hi/2 - lo/2
		offset = clamped/2 - lo/2
	}
	linear := offset / span * 100
	if !attr.HigherIsBetter() {
		linear = 100 - linear
	}
	return roundScore(math.Min(math.Max(linear, 0), 100))
}

// RecomputeTotal computes sum(score*weight)/sum(weight) over scores whose
// attribute is active and weighted. Scores for unknown, inactive or zero-weight
// attributes are ignored. A nil threshold is a configuration error.
func (e *ScoringEngine) RecomputeTotal(
	attrs []*model.ScoringAttribute,
	scores []model.DealScore,
	threshold *model.ScoringThreshold,
) (Rollup, error) {
	if threshold == nil {
		return Rollup{}, domainerr.Configurationf("scoring thresholds have not been configured")
	}

	weights := make(map[uuid.UUID]float64, len(attrs))
	for _, a := range attrs {
		if a.IsActive() && a.Weight() > 0 {
			weights[a.ID()] = a.Weight()
		}
	}

	var weighted, totalWeight float64
	var scored int
	for _, s := range scores {
		w, ok := weights[s.AttributeID]
		if !ok {
			continue
		}
		weighted += s.NormalizedScore * w
		totalWeight += w
		scored++
	}
	if totalWeight == 0 {
		return Rollup{}, nil
	}

	total := roundScore(weighted / totalWeight)
	return Rollup{
		Total:          &total,
		Classification: threshold.Classify(total),
		Scored:         scored,
	}, nil
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
