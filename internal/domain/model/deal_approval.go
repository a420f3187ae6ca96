package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/event"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

// DealApproval is one step of a deal's approval chain. A deal accumulates one
// row per request or escalation; only the newest may be pending.
type DealApproval struct {
	events.EventCollector

	requestedAt   time.Time
	respondedAt   *time.Time
	assigneeID    *uuid.UUID
	responderID   *uuid.UUID
	requestNotes  string
	responseNotes string
	status        valueobject.ApprovalStatus
	level         int
	id            uuid.UUID
	dealID        uuid.UUID
	requesterID   uuid.UUID
}

// NewDealApproval opens a pending approval at the given level. assignee may be nil
// when nobody holds the required capability.
func NewDealApproval(dealID, requesterID uuid.UUID, assignee *uuid.UUID, level int, notes string, now time.Time) (*DealApproval, error) {
	if dealID == uuid.Nil {
		return nil, domainerr.Validationf("deal is required")
	}
	if requesterID == uuid.Nil {
		return nil, domainerr.Validationf("requester is required")
	}
	if level < 1 {
		return nil, domainerr.Validationf("approval level must be at least 1")
	}
	a := &DealApproval{
		id:           uuid.New(),
		dealID:       dealID,
		requesterID:  requesterID,
		assigneeID:   assignee,
		status:       valueobject.ApprovalStatusPending,
		level:        level,
		requestNotes: strings.TrimSpace(notes),
		requestedAt:  now,
	}
	a.Record(event.NewApprovalRequested(a.id, dealID, requesterID, assignee, level, now))
	return a, nil
}

// DealApprovalSnapshot is the persisted form of an approval.
type DealApprovalSnapshot struct {
	ID            uuid.UUID
	DealID        uuid.UUID
	RequesterID   uuid.UUID
	AssigneeID    *uuid.UUID
	ResponderID   *uuid.UUID
	Status        valueobject.ApprovalStatus
	Level         int
	RequestNotes  string
	ResponseNotes string
	RequestedAt   time.Time
	RespondedAt   *time.Time
}

// ReconstructDealApproval rebuilds an approval from persistence.
func ReconstructDealApproval(s DealApprovalSnapshot) *DealApproval {
	return &DealApproval{
		id:            s.ID,
		dealID:        s.DealID,
		requesterID:   s.RequesterID,
		assigneeID:    s.AssigneeID,
		responderID:   s.ResponderID,
		status:        s.Status,
		level:         s.Level,
		requestNotes:  s.RequestNotes,
		responseNotes: s.ResponseNotes,
		requestedAt:   s.RequestedAt,
		respondedAt:   s.RespondedAt,
	}
}

// Snapshot returns the persisted form of the approval.
func (a *DealApproval) Snapshot() DealApprovalSnapshot {
	return DealApprovalSnapshot{
		ID:            a.id,
		DealID:        a.dealID,
		RequesterID:   a.requesterID,
		AssigneeID:    a.assigneeID,
		ResponderID:   a.responderID,
		Status:        a.status,
		Level:         a.level,
		RequestNotes:  a.requestNotes,
		ResponseNotes: a.responseNotes,
		RequestedAt:   a.requestedAt,
		RespondedAt:   a.respondedAt,
	}
}

// Respond approves or rejects a pending approval.
func (a *DealApproval) Respond(responderID uuid.UUID, approved bool, notes string, now time.Time) error {
	status := valueobject.ApprovalStatusRejected
	if approved {
		status = valueobject.ApprovalStatusApproved
	}
	if err := a.close(status, responderID, notes, now); err != nil {
		return err
	}
	a.Record(event.NewApprovalResolved(a.id, a.dealID, status.String(), a.responderID, now))
	return nil
}

// Escalate closes the approval as escalated and returns the pending approval
// that replaces it one level up.
func (a *DealApproval) Escalate(escalatorID uuid.UUID, assignee *uuid.UUID, notes string, now time.Time) (*DealApproval, error) {
	if err := a.close(valueobject.ApprovalStatusEscalated, escalatorID, notes, now); err != nil {
		return nil, err
	}
	next, err := NewDealApproval(a.dealID, escalatorID, assignee, a.level+1, notes, now)
	if err != nil {
		return nil, err
	}
	a.Record(event.NewApprovalEscalated(a.id, a.dealID, escalatorID, a.level, next.level, now))
	return next, nil
}

// AutoResolve closes a pending approval as approved on behalf of the system,
// used when a segment auto-approves a deal that already had a request open.
func (a *DealApproval) AutoResolve(notes string, now time.Time) error {
	if err := a.close(valueobject.ApprovalStatusApproved, uuid.Nil, notes, now); err != nil {
		return err
	}
	a.Record(event.NewApprovalResolved(a.id, a.dealID, valueobject.ApprovalStatusApproved.String(), nil, now))
	return nil
}

func (a *DealApproval) close(status valueobject.ApprovalStatus, actor uuid.UUID, notes string, now time.Time) error {
	if !a.status.IsPending() {
		return domainerr.Conflictf("approval %s is already %s", a.id, a.status)
	}
	a.status = status
	if actor != uuid.Nil {
		a.responderID = &actor
	}
	a.responseNotes = strings.TrimSpace(notes)
	a.respondedAt = timePtr(now)
	return nil
}

func (a *DealApproval) ID() uuid.UUID                      { return a.id }
func (a *DealApproval) DealID() uuid.UUID                  { return a.dealID }
func (a *DealApproval) RequesterID() uuid.UUID             { return a.requesterID }
func (a *DealApproval) AssigneeID() *uuid.UUID             { return a.assigneeID }
func (a *DealApproval) ResponderID() *uuid.UUID            { return a.responderID }
func (a *DealApproval) Status() valueobject.ApprovalStatus { return a.status }
func (a *DealApproval) Level() int                         { return a.level }
func (a *DealApproval) RequestNotes() string               { return a.requestNotes }
func (a *DealApproval) ResponseNotes() string              { return a.responseNotes }
func (a *DealApproval) RequestedAt() time.Time             { return a.requestedAt }
func (a *DealApproval) RespondedAt() *time.Time            { return a.respondedAt }
