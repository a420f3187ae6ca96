package valueobject

import (
	"errors"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
)

// ErrInvalidStatusTransition is returned when a deal is asked to move to a status
// its current status does not lead to.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// DealStatus is the lifecycle stage of a deal.
type DealStatus struct {
	value string
}

const (
	dealStatusDraft           = "draft"
	dealStatusPendingScore    = "pending_score"
	dealStatusPendingApproval = "pending_approval"
	dealStatusApproved        = "approved"
	dealStatusRejected        = "rejected"
	dealStatusClosedWon       = "closed_won"
	dealStatusClosedLost      = "closed_lost"
)

var (
	DealStatusDraft           = DealStatus{value: dealStatusDraft}
	DealStatusPendingScore    = DealStatus{value: dealStatusPendingScore}
	DealStatusPendingApproval = DealStatus{value: dealStatusPendingApproval}
	DealStatusApproved        = DealStatus{value: dealStatusApproved}
	DealStatusRejected        = DealStatus{value: dealStatusRejected}
	DealStatusClosedWon       = DealStatus{value: dealStatusClosedWon}
	DealStatusClosedLost      = DealStatus{value: dealStatusClosedLost}
)

var validDealStatuses = map[string]DealStatus{
	dealStatusDraft:           DealStatusDraft,
	dealStatusPendingScore:    DealStatusPendingScore,
	dealStatusPendingApproval: DealStatusPendingApproval,
	dealStatusApproved:        DealStatusApproved,
	dealStatusRejected:        DealStatusRejected,
	dealStatusClosedWon:       DealStatusClosedWon,
	dealStatusClosedLost:      DealStatusClosedLost,
}

// dealTransitions lists, per status, the statuses it may move to.
// pending_score -> approved is the auto-approval path.
var dealTransitions = map[string]map[string]bool{
	dealStatusDraft:           {dealStatusPendingScore: true},
	dealStatusPendingScore:    {dealStatusPendingApproval: true, dealStatusApproved: true},
	dealStatusPendingApproval: {dealStatusApproved: true, dealStatusRejected: true},
	dealStatusApproved:        {dealStatusClosedWon: true, dealStatusClosedLost: true},
	dealStatusRejected:        {dealStatusClosedWon: true, dealStatusClosedLost: true},
	dealStatusClosedWon:       {},
	dealStatusClosedLost:      {},
}

// NewDealStatus parses a raw status string.
func NewDealStatus(s string) (DealStatus, error) {
	v, ok := validDealStatuses[s]
	if !ok {
		return DealStatus{}, domainerr.Validationf("invalid deal status: %q", s)
	}
	return v, nil
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	return dealTransitions[s.value][next.value]
}

// IsTerminal is true for closed_won and closed_lost.
func (s DealStatus) IsTerminal() bool {
	return s.value == dealStatusClosedWon || s.value == dealStatusClosedLost
}

// AcceptsScores is true while the deal is still being evaluated.
func (s DealStatus) AcceptsScores() bool {
	switch s.value {
	case dealStatusDraft, dealStatusPendingScore, dealStatusPendingApproval:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s DealStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DealStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DealStatus) Equal(other DealStatus) bool { return s.value == other.value }
