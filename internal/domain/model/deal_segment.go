package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// DealSegment is a band of deal value and score that decides how a deal is
// approved.
type DealSegment struct {
	createdAt          time.Time
	updatedAt          time.Time
	maxDealValue       *decimal.Decimal
	minDealValue       decimal.Decimal
	name               string
	description        string
	touchModel         valueobject.TouchModel
	minScore           float64
	maxScore           float64
	approvalLevel      int
	approvalSLAHours   int
	priority           int
	id                 uuid.UUID
	autoApproveEnabled bool
	active             bool
}

// DealSegmentParams are the administrator-editable fields of a segment. A nil
// MaxDealValue means the band has no upper bound.
type DealSegmentParams struct {
	Name               string
	Description        string
	MinDealValue       decimal.Decimal
	MaxDealValue       *decimal.Decimal
	MinScore           float64
	MaxScore           float64
	ApprovalLevel      int
	ApprovalSLAHours   int
	TouchModel         valueobject.TouchModel
	AutoApproveEnabled bool
	Priority           int
	Active             bool
}

func (p DealSegmentParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return domainerr.Validationf("segment name is required")
	case p.MinDealValue.IsNegative():
		return domainerr.Validationf("min_deal_value must not be negative")
	case p.MaxDealValue != nil && p.MaxDealValue.LessThan(p.MinDealValue):
		return domainerr.Validationf("max_deal_value must not be below min_deal_value")
	case !finite(p.MinScore, p.MaxScore):
		return domainerr.Validationf("score bounds must be finite numbers")
	case p.MinScore < 0 || p.MaxScore > 100 || p.MinScore > p.MaxScore:
		return domainerr.Validationf("score band must satisfy 0 <= min_score <= max_score <= 100")
	case p.ApprovalLevel < 1:
		return domainerr.Validationf("approval_level must be at least 1")
	case p.ApprovalSLAHours < 0:
		return domainerr.Validationf("approval_sla_hours must not be negative")
	case p.TouchModel.IsZero():
		return domainerr.Validationf("touch model is required")
	}
	return nil
}

// NewDealSegment validates and creates a segment.
func NewDealSegment(p DealSegmentParams, now time.Time) (*DealSegment, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	s := &DealSegment{id: uuid.New(), createdAt: now}
	s.apply(p, now)
	return s, nil
}

// ReconstructDealSegment rebuilds a segment from persistence.
func ReconstructDealSegment(id uuid.UUID, p DealSegmentParams, createdAt, updatedAt time.Time) *DealSegment {
	s := &DealSegment{id: id, createdAt: createdAt}
	s.apply(p, updatedAt)
	return s
}

// Update replaces the editable fields.
func (s *DealSegment) Update(p DealSegmentParams, now time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	s.apply(p, now)
	return nil
}

// Matches reports whether a deal of the given value and score falls into the
// segment. Both bounds are inclusive.
func (s *DealSegment) Matches(value decimal.Decimal, score float64) bool {
	if value.LessThan(s.minDealValue) {
		return false
	}
	if s.maxDealValue != nil && value.GreaterThan(*s.maxDealValue) {
		return false
	}
	return score >= s.minScore && score <= s.maxScore
}

func (s *DealSegment) apply(p DealSegmentParams, now time.Time) {
	s.name = strings.TrimSpace(p.Name)
	s.description = strings.TrimSpace(p.Description)
	s.minDealValue = p.MinDealValue
	s.maxDealValue = nil
	if p.MaxDealValue != nil {
		v := *p.MaxDealValue
		s.maxDealValue = &v
	}
	s.minScore = p.MinScore
	s.maxScore = p.MaxScore
	s.approvalLevel = p.ApprovalLevel
	s.approvalSLAHours = p.ApprovalSLAHours
	s.touchModel = p.TouchModel
	s.autoApproveEnabled = p.AutoApproveEnabled
	s.priority = p.Priority
	s.active = p.Active
	s.updatedAt = now
}

func (s *DealSegment) ID() uuid.UUID                      { return s.id }
func (s *DealSegment) Name() string                       { return s.name }
func (s *DealSegment) Description() string                { return s.description }
func (s *DealSegment) MinDealValue() decimal.Decimal      { return s.minDealValue }
func (s *DealSegment) MaxDealValue() *decimal.Decimal     { return s.maxDealValue }
func (s *DealSegment) MinScore() float64                  { return s.minScore }
func (s *DealSegment) MaxScore() float64                  { return s.maxScore }
func (s *DealSegment) ApprovalLevel() int                 { return s.approvalLevel }
func (s *DealSegment) ApprovalSLAHours() int              { return s.approvalSLAHours }
func (s *DealSegment) TouchModel() valueobject.TouchModel { return s.touchModel }
func (s *DealSegment) AutoApproveEnabled() bool           { return s.autoApproveEnabled }
func (s *DealSegment) Priority() int                      { return s.priority }
func (s *DealSegment) IsActive() bool                     { return s.active }
func (s *DealSegment) CreatedAt() time.Time               { return s.createdAt }
func (s *DealSegment) UpdatedAt() time.Time               { return s.updatedAt }

// Params returns the editable fields.
func (s *DealSegment) Params() DealSegmentParams {
	return DealSegmentParams{
		Name:               s.name,
		Description:        s.description,
		MinDealValue:       s.minDealValue,
		MaxDealValue:       s.maxDealValue,
		MinScore:           s.minScore,
		MaxScore:           s.maxScore,
		ApprovalLevel:      s.approvalLevel,
		ApprovalSLAHours:   s.approvalSLAHours,
		TouchModel:         s.touchModel,
		AutoApproveEnabled: s.autoApproveEnabled,
		Priority:           s.priority,
		Active:             s.active,
	}
}
