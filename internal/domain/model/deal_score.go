package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
)

// DealScore is the score of one attribute on one deal. There is at most one per
// (deal, attribute); recording again replaces it.
type DealScore struct {
	ScoredAt        time.Time
	RawValue        float64
	NormalizedScore float64
	DealID          uuid.UUID
	AttributeID     uuid.UUID
	ScoredBy        uuid.UUID
}

// NewDealScore validates a freshly normalized score.
func NewDealScore(dealID, attributeID, scoredBy uuid.UUID, raw, normalized float64, now time.Time) (DealScore, error) {
	switch {
	case dealID == uuid.Nil || attributeID == uuid.Nil:
		return DealScore{}, domainerr.Validationf("deal and attribute are required")
	case !finite(raw):
		return DealScore{}, domainerr.Validationf("raw value must be a finite number")
	case !finite(normalized) || normalized < 0 || normalized > 100:
		return DealScore{}, domainerr.Validationf("normalized score %v outside 0-100", normalized)
	}
	return DealScore{
		DealID:          dealID,
		AttributeID:     attributeID,
		RawValue:        raw,
		NormalizedScore: normalized,
		ScoredBy:        scoredBy,
		ScoredAt:        now,
	}, nil
}
