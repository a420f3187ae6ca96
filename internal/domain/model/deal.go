package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/event"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

var hundred = decimal.NewFromInt(100)

// Deal is the aggregate under scoring and approval.
//
// classification and totalScore are written together by ApplyScore only, so one
// is nil/zero exactly when the other is.
type Deal struct {
	events.EventCollector

	createdAt       time.Time
	updatedAt       time.Time
	approvedAt      *time.Time
	closedAt        *time.Time
	totalScore      *float64
	value           decimal.Decimal
	discountPercent decimal.Decimal
	name            string
	customerName    string
	status          valueobject.DealStatus
	classification  valueobject.Classification
	contractMonths  int
	version         int
	autoApproved    bool
	id              uuid.UUID
	ownerID         uuid.UUID
}

// DealParams carries the caller-supplied fields of a new deal.
type DealParams struct {
	OwnerID         uuid.UUID
	Name            string
	CustomerName    string
	Value           decimal.Decimal
	DiscountPercent decimal.Decimal
	ContractMonths  int
}

// NewDeal opens a deal in draft status.
func NewDeal(p DealParams, now time.Time) (*Deal, error) {
	name := strings.TrimSpace(p.Name)
	switch {
	case p.OwnerID == uuid.Nil:
		return nil, domainerr.Validationf("owner is required")
	case name == "":
		return nil, domainerr.Validationf("deal name is required")
	case p.Value.IsNegative():
		return nil, domainerr.Validationf("deal value must not be negative")
	case p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred):
		return nil, domainerr.Validationf("discount percent must be between 0 and 100")
	case p.ContractMonths < 0:
		return nil, domainerr.Validationf("contract length must not be negative")
	}

	d := &Deal{
		id:              uuid.New(),
		ownerID:         p.OwnerID,
		name:            name,
		customerName:    strings.TrimSpace(p.CustomerName),
		value:           p.Value,
		discountPercent: p.DiscountPercent,
		contractMonths:  p.ContractMonths,
		status:          valueobject.DealStatusDraft,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
	d.Record(event.NewDealCreated(d.id, d.ownerID, d.name, d.customerName, d.value.String(), now))
	return d, nil
}

// DealSnapshot is the persisted form of a deal.
type DealSnapshot struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	CustomerName    string
	Value           decimal.Decimal
	DiscountPercent decimal.Decimal
	ContractMonths  int
	Status          valueobject.DealStatus
	Classification  valueobject.Classification
	TotalScore      *float64
	AutoApproved    bool
	ApprovedAt      *time.Time
	ClosedAt        *time.Time
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructDeal rebuilds a deal from persistence without raising events.
func ReconstructDeal(s DealSnapshot) *Deal {
	return &Deal{
		id:              s.ID,
		ownerID:         s.OwnerID,
		name:            s.Name,
		customerName:    s.CustomerName,
		value:           s.Value,
		discountPercent: s.DiscountPercent,
		contractMonths:  s.ContractMonths,
		status:          s.Status,
		classification:  s.Classification,
		totalScore:      s.TotalScore,
		autoApproved:    s.AutoApproved,
		approvedAt:      s.ApprovedAt,
		closedAt:        s.ClosedAt,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Snapshot returns the persisted form of the deal.
func (d *Deal) Snapshot() DealSnapshot {
	return DealSnapshot{
		ID:              d.id,
		OwnerID:         d.ownerID,
		Name:            d.name,
		CustomerName:    d.customerName,
		Value:           d.value,
		DiscountPercent: d.discountPercent,
		ContractMonths:  d.contractMonths,
		Status:          d.status,
		Classification:  d.classification,
		TotalScore:      d.totalScore,
		AutoApproved:    d.autoApproved,
		ApprovedAt:      d.approvedAt,
		ClosedAt:        d.closedAt,
		Version:         d.version,
		CreatedAt:       d.createdAt,
		UpdatedAt:       d.updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyScore writes a rollup onto the deal. Pass (nil, zero) to clear it,
// which is refused while the deal is awaiting approval.
func (d *Deal) ApplyScore(total *float64, classification valueobject.Classification, now time.Time) error {
	if (total == nil) != classification.IsZero() {
		return fmt.Errorf("total score and classification must be set together")
	}
	if !d.status.AcceptsScores() {
		return domainerr.Preconditionf("deal %s is %s and can no longer be scored", d.id, d.status)
	}
	if total == nil && d.status.Equal(valueobject.DealStatusPendingApproval) {
		return domainerr.Preconditionf("deal %s is awaiting approval and cannot lose its classification", d.id)
	}

	if total != nil {
		v := *total
		total = &v
	}
	d.totalScore = total
	d.classification = classification
	d.updatedAt = now
	d.Record(event.NewDealScored(d.id, total, classification.String(), now))
	return nil
}

// StartScoring moves a draft deal to pending_score. It is a no-op for deals
// already past draft.
func (d *Deal) StartScoring(now time.Time) (bool, error) {
	if !d.status.Equal(valueobject.DealStatusDraft) {
		return false, nil
	}
	return true, d.transition(valueobject.DealStatusPendingScore, "scoring started", now)
}

// SubmitForApproval moves a scored deal to pending_approval.
func (d *Deal) SubmitForApproval(now time.Time) error {
	if d.classification.IsZero() {
		return domainerr.Preconditionf("deal %s has no classification; score it before requesting approval", d.id)
	}
	return d.transition(valueobject.DealStatusPendingApproval, "approval requested", now)
}

// Resolve records a human approval decision.
func (d *Deal) Resolve(approved bool, now time.Time) error {
	if !approved {
		return d.transition(valueobject.DealStatusRejected, "approval rejected", now)
	}
	if d.classification.IsZero() {
		return domainerr.Preconditionf("deal %s has no classification and cannot be approved", d.id)
	}
	if err := d.transition(valueobject.DealStatusApproved, "approval granted", now); err != nil {
		return err
	}
	d.approvedAt = timePtr(now)
	return nil
}

// AutoApprove approves the deal on behalf of a segment with auto-approval enabled.
func (d *Deal) AutoApprove(segment *DealSegment, now time.Time) error {
	if err := d.transition(valueobject.DealStatusApproved, "auto-approved by segment "+segment.Name(), now); err != nil {
		return err
	}
	d.autoApproved = true
	d.approvedAt = timePtr(now)
	d.Record(event.NewDealAutoApproved(d.id, segment.ID(), segment.Name(), now))
	return nil
}

// Close marks a resolved deal won or lost. Closed deals are terminal.
func (d *Deal) Close(won bool, now time.Time) error {
	target, outcome := valueobject.DealStatusClosedLost, "lost"
	if won {
		target, outcome = valueobject.DealStatusClosedWon, "won"
	}
	if err := d.transition(target, "deal "+outcome, now); err != nil {
		return err
	}
	d.closedAt = timePtr(now)
	d.Record(event.NewDealClosed(d.id, outcome, now))
	return nil
}

func (d *Deal) transition(to valueobject.DealStatus, reason string, now time.Time) error {
	if !d.status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %w: deal %s cannot move from %s to %s",
			domainerr.ErrPreconditionFailed, valueobject.ErrInvalidStatusTransition, d.id, d.status, to)
	}
	from := d.status
	d.status = to
	d.updatedAt = now
	d.Record(event.NewDealStatusChanged(d.id, from.String(), to.String(), reason, now))
	return nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d *Deal) ID() uuid.UUID                              { return d.id }
func (d *Deal) OwnerID() uuid.UUID                         { return d.ownerID }
func (d *Deal) Name() string                               { return d.name }
func (d *Deal) CustomerName() string                       { return d.customerName }
func (d *Deal) Value() decimal.Decimal                     { return d.value }
func (d *Deal) DiscountPercent() decimal.Decimal           { return d.discountPercent }
func (d *Deal) ContractMonths() int                        { return d.contractMonths }
func (d *Deal) Status() valueobject.DealStatus             { return d.status }
func (d *Deal) Classification() valueobject.Classification { return d.classification }
func (d *Deal) AutoApproved() bool                         { return d.autoApproved }
func (d *Deal) ApprovedAt() *time.Time                     { return d.approvedAt }
func (d *Deal) ClosedAt() *time.Time                       { return d.closedAt }
func (d *Deal) Version() int                               { return d.version }
func (d *Deal) CreatedAt() time.Time                       { return d.createdAt }
func (d *Deal) UpdatedAt() time.Time                       { return d.updatedAt }

// TotalScore returns the weighted total, or nil while the deal is unscored.
func (d *Deal) TotalScore() *float64 {
	if d.totalScore == nil {
		return nil
	}
	v := *d.totalScore
	return &v
}

func timePtr(t time.Time) *time.Time { return &t }

// BumpVersion is called by repositories after a successful conditional update.
func (d *Deal) BumpVersion() { d.version++ }
