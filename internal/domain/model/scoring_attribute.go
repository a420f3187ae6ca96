package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// ScoringAttribute is one configurable input of the deal score. Attributes are
// deactivated rather than deleted so historical scores keep their reference.
type ScoringAttribute struct {
	createdAt      time.Time
	updatedAt      time.Time
	name           string
	description    string
	category       valueobject.AttributeCategory
	weight         float64
	minValue       float64
	maxValue       float64
	id             uuid.UUID
	higherIsBetter bool
	active         bool
}

// ScoringAttributeParams are the administrator-editable fields of an attribute.
type ScoringAttributeParams struct {
	Name           string
	Description    string
	Category       valueobject.AttributeCategory
	Weight         float64
	MinValue       float64
	MaxValue       float64
	HigherIsBetter bool
}

func (p ScoringAttributeParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return domainerr.Validationf("attribute name is required")
	case p.Category.IsZero():
		return domainerr.Validationf("attribute category is required")
	case !finite(p.Weight, p.MinValue, p.MaxValue):
		return domainerr.Validationf("attribute bounds and weight must be finite numbers")
	case p.Weight < 0 || p.Weight > 100:
		return domainerr.Validationf("attribute weight must be between 0 and 100, got %v", p.Weight)
	case p.MaxValue <= p.MinValue:
		return domainerr.Validationf("attribute max_value (%v) must be greater than min_value (%v)", p.MaxValue, p.MinValue)
	case !finite(p.MaxValue - p.MinValue):
		return domainerr.Validationf("attribute range %v to %v is too wide", p.MinValue, p.MaxValue)
	}
	return nil
}

// NewScoringAttribute creates an active attribute.
func NewScoringAttribute(p ScoringAttributeParams, now time.Time) (*ScoringAttribute, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	a := &ScoringAttribute{id: uuid.New(), active: true, createdAt: now}
	a.apply(p, now)
	return a, nil
}

// ReconstructScoringAttribute rebuilds an attribute from persistence. Legacy rows
// with max_value <= min_value are accepted here and normalize to 50; see
// HasDegenerateRange.
func ReconstructScoringAttribute(id uuid.UUID, p ScoringAttributeParams, active bool, createdAt, updatedAt time.Time) *ScoringAttribute {
	a := &ScoringAttribute{id: id, active: active, createdAt: createdAt}
	a.apply(p, updatedAt)
	return a
}

// Update replaces the editable fields. Existing scores are not rescored.
func (a *ScoringAttribute) Update(p ScoringAttributeParams, now time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	a.apply(p, now)
	return nil
}

// Deactivate removes the attribute from future rollups.
func (a *ScoringAttribute) Deactivate(now time.Time) {
	a.active = false
	a.updatedAt = now
}

func (a *ScoringAttribute) apply(p ScoringAttributeParams, now time.Time) {
	a.name = strings.TrimSpace(p.Name)
	a.description = strings.TrimSpace(p.Description)
	a.category = p.Category
	a.weight = p.Weight
	a.minValue = p.MinValue
	a.maxValue = p.MaxValue
	a.higherIsBetter = p.HigherIsBetter
	a.updatedAt = now
}

func (a *ScoringAttribute) ID() uuid.UUID                          { return a.id }
func (a *ScoringAttribute) Name() string                           { return a.name }
func (a *ScoringAttribute) Description() string                    { return a.description }
func (a *ScoringAttribute) Category() valueobject.AttributeCategory { return a.category }
func (a *ScoringAttribute) Weight() float64                        { return a.weight }
func (a *ScoringAttribute) MinValue() float64                      { return a.minValue }
func (a *ScoringAttribute) MaxValue() float64                      { return a.maxValue }
func (a *ScoringAttribute) HigherIsBetter() bool                   { return a.higherIsBetter }
func (a *ScoringAttribute) IsActive() bool                         { return a.active }
func (a *ScoringAttribute) CreatedAt() time.Time                   { return a.createdAt }
func (a *ScoringAttribute) UpdatedAt() time.Time                   { return a.updatedAt }

// HasDegenerateRange reports whether the stored range cannot be normalized
// linearly. Only legacy rows can have one.
func (a *ScoringAttribute) HasDegenerateRange() bool { return a.maxValue <= a.minValue }

// Params returns the editable fields, for persistence and partial updates.
func (a *ScoringAttribute) Params() ScoringAttributeParams {
	return ScoringAttributeParams{
		Name:           a.name,
		Description:    a.description,
		Category:       a.category,
		Weight:         a.weight,
		MinValue:       a.minValue,
		MaxValue:       a.maxValue,
		HigherIsBetter: a.higherIsBetter,
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
