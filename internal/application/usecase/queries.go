package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
)

// DealHistoryUseCase answers read-only questions about a deal's approvals and
// audit trail.
type DealHistoryUseCase struct {
	store port.Store
}

// NewDealHistoryUseCase wires dependencies.
func NewDealHistoryUseCase(store port.Store) *DealHistoryUseCase {
	return &DealHistoryUseCase{store: store}
}

// ListApprovals returns every approval on the deal, oldest first.
func (uc *DealHistoryUseCase) ListApprovals(ctx context.Context, req dto.GetDealRequest) (dto.ListApprovalsResponse, error) {
	repos := uc.store.Repositories()
	if _, err := repos.Deals.FindByID(ctx, req.DealID); err != nil {
		return dto.ListApprovalsResponse{}, fmt.Errorf("find deal: %w", err)
	}
	approvals, err := repos.Approvals.ListByDeal(ctx, req.DealID)
	if err != nil {
		return dto.ListApprovalsResponse{}, fmt.Errorf("list approvals: %w", err)
	}
	return dto.ListApprovalsResponse{Approvals: toApprovalResponses(approvals)}, nil
}

// ListPending returns the approvals awaiting the assignee, which defaults to
// the actor.
func (uc *DealHistoryUseCase) ListPending(ctx context.Context, req dto.ListPendingApprovalsRequest) (dto.ListApprovalsResponse, error) {
	assignee := req.AssigneeID
	if assignee == uuid.Nil {
		assignee = req.Actor.UserID
	}
	approvals, err := uc.store.Repositories().Approvals.ListPendingByAssignee(ctx, assignee)
	if err != nil {
		return dto.ListApprovalsResponse{}, fmt.Errorf("list pending approvals: %w", err)
	}
	return dto.ListApprovalsResponse{Approvals: toApprovalResponses(approvals)}, nil
}

// ListNotes returns the deal's audit notes, oldest first.
func (uc *DealHistoryUseCase) ListNotes(ctx context.Context, req dto.GetDealRequest) (dto.ListNotesResponse, error) {
	repos := uc.store.Repositories()
	if _, err := repos.Deals.FindByID(ctx, req.DealID); err != nil {
		return dto.ListNotesResponse{}, fmt.Errorf("find deal: %w", err)
	}
	notes, err := repos.Notes.ListByDeal(ctx, req.DealID)
	if err != nil {
		return dto.ListNotesResponse{}, fmt.Errorf("list notes: %w", err)
	}
	resp := dto.ListNotesResponse{Notes: make([]dto.NoteResponse, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}
	return resp, nil
}
