package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	AggregateDeal     = "Deal"
	AggregateApproval = "DealApproval"
)

// ---------------------------------------------------------------------------
// Deal events
// ---------------------------------------------------------------------------

// DealCreated is raised when a sales owner opens a new draft deal.
type DealCreated struct {
	events.BaseEvent
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`
	CustomerName string    `json:"customer_name"`
	Value        string    `json:"value"`
}

func NewDealCreated(dealID, ownerID uuid.UUID, name, customerName, value string, at time.Time) DealCreated {
	return DealCreated{
		BaseEvent:    events.NewBaseEvent("dealdesk.deal.created", dealID, AggregateDeal, at),
		OwnerID:      ownerID,
		Name:         name,
		CustomerName: customerName,
		Value:        value,
	}
}

// DealScored is raised whenever recompute_total writes a new rollup onto a deal.
// TotalScore and Classification are empty when no attribute carries a score.
type DealScored struct {
	events.BaseEvent
	TotalScore     *float64 `json:"total_score"`
	Classification string   `json:"classification"`
}

func NewDealScored(dealID uuid.UUID, total *float64, classification string, at time.Time) DealScored {
	return DealScored{
		BaseEvent:      events.NewBaseEvent("dealdesk.deal.scored", dealID, AggregateDeal, at),
		TotalScore:     total,
		Classification: classification,
	}
}

// DealStatusChanged is raised on every deal status transition.
type DealStatusChanged struct {
	events.BaseEvent
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

func NewDealStatusChanged(dealID uuid.UUID, from, to, reason string, at time.Time) DealStatusChanged {
	return DealStatusChanged{
		BaseEvent: events.NewBaseEvent("dealdesk.deal.status_changed", dealID, AggregateDeal, at),
		From:      from,
		To:        to,
		Reason:    reason,
	}
}

// DealAutoApproved is raised when a segment with auto-approval approves a deal.
type DealAutoApproved struct {
	events.BaseEvent
	SegmentID   uuid.UUID `json:"segment_id"`
	SegmentName string    `json:"segment_name"`
}

func NewDealAutoApproved(dealID, segmentID uuid.UUID, segmentName string, at time.Time) DealAutoApproved {
	return DealAutoApproved{
		BaseEvent:   events.NewBaseEvent("dealdesk.deal.auto_approved", dealID, AggregateDeal, at),
		SegmentID:   segmentID,
		SegmentName: segmentName,
	}
}

// DealClosed is raised when a resolved deal is marked won or lost.
type DealClosed struct {
	events.BaseEvent
	Outcome string `json:"outcome"`
}

func NewDealClosed(dealID uuid.UUID, outcome string, at time.Time) DealClosed {
	return DealClosed{
		BaseEvent: events.NewBaseEvent("dealdesk.deal.closed", dealID, AggregateDeal, at),
		Outcome:   outcome,
	}
}

// ---------------------------------------------------------------------------
// Approval events
// ---------------------------------------------------------------------------

// ApprovalRequested is raised when a pending approval row is opened, either by a
// request or by escalation. Notification fan-out keys on AssigneeID.
type ApprovalRequested struct {
	events.BaseEvent
	DealID        uuid.UUID  `json:"deal_id"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	AssigneeID    *uuid.UUID `json:"assignee_id"`
	ApprovalLevel int        `json:"approval_level"`
}

func NewApprovalRequested(approvalID, dealID, requesterID uuid.UUID, assigneeID *uuid.UUID, level int, at time.Time) ApprovalRequested {
	return ApprovalRequested{
		BaseEvent:     events.NewBaseEvent("dealdesk.approval.requested", approvalID, AggregateApproval, at),
		DealID:        dealID,
		RequesterID:   requesterID,
		AssigneeID:    assigneeID,
		ApprovalLevel: level,
	}
}

// ApprovalResolved is raised when a pending approval is approved or rejected.
type ApprovalResolved struct {
	events.BaseEvent
	DealID      uuid.UUID  `json:"deal_id"`
	Status      string     `json:"status"`
	ResponderID *uuid.UUID `json:"responder_id"`
}

func NewApprovalResolved(approvalID, dealID uuid.UUID, status string, responderID *uuid.UUID, at time.Time) ApprovalResolved {
	return ApprovalResolved{
		BaseEvent:   events.NewBaseEvent("dealdesk.approval.resolved", approvalID, AggregateApproval, at),
		DealID:      dealID,
		Status:      status,
		ResponderID: responderID,
	}
}

// ApprovalEscalated is raised on the closed row when an approval moves up a level.
type ApprovalEscalated struct {
	events.BaseEvent
	DealID      uuid.UUID `json:"deal_id"`
	EscalatorID uuid.UUID `json:"escalator_id"`
	FromLevel   int       `json:"from_level"`
	ToLevel     int       `json:"to_level"`
}

func NewApprovalEscalated(approvalID, dealID, escalatorID uuid.UUID, fromLevel, toLevel int, at time.Time) ApprovalEscalated {
	return ApprovalEscalated{
		BaseEvent:   events.NewBaseEvent("dealdesk.approval.escalated", approvalID, AggregateApproval, at),
		DealID:      dealID,
		EscalatorID: escalatorID,
		FromLevel:   fromLevel,
		ToLevel:     toLevel,
	}
}
