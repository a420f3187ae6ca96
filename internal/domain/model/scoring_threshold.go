package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// ScoringThreshold holds the classification cut-offs. There is one per
// deployment.
type ScoringThreshold struct {
	UpdatedAt time.Time
	GreenMin  float64
	YellowMin float64
	UpdatedBy uuid.UUID
}

// NewScoringThreshold validates 0 <= yellowMin < greenMin <= 100.
func NewScoringThreshold(greenMin, yellowMin float64, updatedBy uuid.UUID, now time.Time) (ScoringThreshold, error) {
	switch {
	case !finite(greenMin, yellowMin):
		return ScoringThreshold{}, domainerr.Validationf("thresholds must be finite numbers")
	case yellowMin < 0 || greenMin > 100:
		return ScoringThreshold{}, domainerr.Validationf("thresholds must lie within 0-100")
	case greenMin <= yellowMin:
		return ScoringThreshold{}, domainerr.Validationf("green_min (%v) must be greater than yellow_min (%v)", greenMin, yellowMin)
	}
	return ScoringThreshold{GreenMin: greenMin, YellowMin: yellowMin, UpdatedBy: updatedBy, UpdatedAt: now}, nil
}

// Classify maps a total score onto green, yellow or red.
func (t ScoringThreshold) Classify(score float64) valueobject.Classification {
	return valueobject.ClassificationFromScore(score, t.GreenMin, t.YellowMin)
}
