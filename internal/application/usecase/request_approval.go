package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/service"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// RequestApprovalUseCase opens a level-1 approval for a classified deal.
type RequestApprovalUseCase struct {
	store    port.Store
	resolver *service.AssigneeResolver
	logger   *slog.Logger
}

// NewRequestApprovalUseCase wires dependencies.
func NewRequestApprovalUseCase(store port.Store, resolver *service.AssigneeResolver, logger *slog.Logger) *RequestApprovalUseCase {
	return &RequestApprovalUseCase{store: store, resolver: resolver, logger: logger}
}

// Execute creates the pending approval and moves the deal to pending_approval.
func (uc *RequestApprovalUseCase) Execute(ctx context.Context, req dto.RequestApprovalRequest) (dto.ApprovalResponse, error) {
	ctx, span := tracer.Start(ctx, "RequestApproval")
	defer span.End()

	now := time.Now().UTC()
	assignee := uc.resolver.Resolve(ctx, port.CapabilityApprove)

	var approval *model.DealApproval
	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		deal, err := repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}
		if deal.Classification().IsZero() {
			return domainerr.Preconditionf("deal %s has not been scored; record scores before requesting approval", deal.ID())
		}
		pending, err := repos.Approvals.FindPendingByDeal(ctx, deal.ID())
		if err != nil {
			return fmt.Errorf("find pending approval: %w", err)
		}
		if pending != nil {
			return domainerr.Preconditionf("deal %s already has pending approval %s", deal.ID(), pending.ID())
		}

		from := deal.Status()
		if err := deal.SubmitForApproval(now); err != nil {
			return fmt.Errorf("submit for approval: %w", err)
		}
		approval, err = model.NewDealApproval(deal.ID(), req.Actor.UserID, assignee, 1, req.Notes, now)
		if err != nil {
			return fmt.Errorf("create approval: %w", err)
		}
		note, err := model.NewDealNote(deal.ID(), authorOf(req.Actor), valueobject.NoteTypeApproval,
			"Approval requested at level 1",
			map[string]any{
				"approval_id": approval.ID().String(),
				"level":       1,
				"from":        from.String(),
				"to":          deal.Status().String(),
			}, now)
		if err != nil {
			return err
		}

		if err := repos.Approvals.Create(ctx, approval); err != nil {
			return fmt.Errorf("save approval: %w", err)
		}
		if err := repos.Deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}
		if err := repos.Notes.Append(ctx, note); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		return stageEvents(ctx, repos.Outbox, deal, approval)
	})
	if err != nil {
		return dto.ApprovalResponse{}, err
	}

	uc.logger.InfoContext(ctx, "approval requested",
		"deal_id", approval.DealID(),
		"approval_id", approval.ID(),
		"assigned", approval.AssigneeID() != nil,
	)
	return toApprovalResponse(approval), nil
}
