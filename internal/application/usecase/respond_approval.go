package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// RespondApprovalUseCase approves or rejects a pending approval. When two
// responders race, the conditional write lets exactly one win; the other gets
// domainerr.ErrConflict.
type RespondApprovalUseCase struct {
	store   port.Store
	checker port.CapabilityChecker
	metrics port.Metrics
	logger  *slog.Logger
}

// NewRespondApprovalUseCase wires dependencies.
func NewRespondApprovalUseCase(store port.Store, checker port.CapabilityChecker, metrics port.Metrics, logger *slog.Logger) *RespondApprovalUseCase {
	return &RespondApprovalUseCase{store: store, checker: checker, metrics: metrics, logger: logger}
}

// Execute resolves the approval and moves the deal to approved or rejected.
func (uc *RespondApprovalUseCase) Execute(ctx context.Context, req dto.RespondApprovalRequest) (dto.ApprovalResponse, error) {
	ctx, span := tracer.Start(ctx, "RespondApproval")
	defer span.End()

	if err := requireCapability(uc.checker, req.Actor, port.CapabilityApprove); err != nil {
		return dto.ApprovalResponse{}, err
	}

	now := time.Now().UTC()
	var approval *model.DealApproval

	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		approval, err = repos.Approvals.FindByID(ctx, req.ApprovalID)
		if err != nil {
			return fmt.Errorf("find approval: %w", err)
		}
		if err := approval.Respond(req.Actor.UserID, req.Approved, req.Notes, now); err != nil {
			return fmt.Errorf("respond: %w", err)
		}

		deal, err := repos.Deals.FindByID(ctx, approval.DealID())
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}
		from := deal.Status()
		if err := deal.Resolve(req.Approved, now); err != nil {
			return fmt.Errorf("resolve deal: %w", err)
		}

		note, err := model.NewDealNote(deal.ID(), authorOf(req.Actor), valueobject.NoteTypeApproval,
			fmt.Sprintf("Approval %s at level %d", approval.Status(), approval.Level()),
			map[string]any{
				"approval_id": approval.ID().String(),
				"level":       approval.Level(),
				"notes":       approval.ResponseNotes(),
				"from":        from.String(),
				"to":          deal.Status().String(),
			}, now)
		if err != nil {
			return err
		}

		if err := repos.Approvals.Resolve(ctx, approval); err != nil {
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

	uc.metrics.ApprovalResolved(ctx, approval.Status().String())
	uc.logger.InfoContext(ctx, "approval resolved",
		"deal_id", approval.DealID(),
		"approval_id", approval.ID(),
		"status", approval.Status().String(),
	)
	return toApprovalResponse(approval), nil
}
