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

// EscalateApprovalUseCase closes a pending approval as escalated and opens the
// next level with an executive assignee. The deal's status does not change.
type EscalateApprovalUseCase struct {
	store    port.Store
	checker  port.CapabilityChecker
	resolver *service.AssigneeResolver
	metrics  port.Metrics
	logger   *slog.Logger
	maxLevel int
}

// NewEscalateApprovalUseCase wires dependencies. maxLevel caps the approval
// level an escalation may reach; 0 leaves it unbounded.
func NewEscalateApprovalUseCase(
	store port.Store,
	checker port.CapabilityChecker,
	resolver *service.AssigneeResolver,
	metrics port.Metrics,
	logger *slog.Logger,
	maxLevel int,
) *EscalateApprovalUseCase {
	return &EscalateApprovalUseCase{
		store:    store,
		checker:  checker,
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
		maxLevel: maxLevel,
	}
}

// Execute escalates and returns the new pending approval.
func (uc *EscalateApprovalUseCase) Execute(ctx context.Context, req dto.EscalateApprovalRequest) (dto.ApprovalResponse, error) {
	ctx, span := tracer.Start(ctx, "EscalateApproval")
	defer span.End()

	if err := requireCapability(uc.checker, req.Actor, port.CapabilityApprove); err != nil {
		return dto.ApprovalResponse{}, err
	}

	now := time.Now().UTC()
	assignee := uc.resolver.Resolve(ctx, port.CapabilityExecutive)

	var current, next *model.DealApproval
	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		current, err = repos.Approvals.FindByID(ctx, req.ApprovalID)
		if err != nil {
			return fmt.Errorf("find approval: %w", err)
		}
		if !current.Status().IsPending() {
			return domainerr.Conflictf("approval %s is already %s", current.ID(), current.Status())
		}
		if uc.maxLevel > 0 && current.Level() >= uc.maxLevel {
			return domainerr.Preconditionf("approval %s is already at the highest level (%d)", current.ID(), uc.maxLevel)
		}

		next, err = current.Escalate(req.Actor.UserID, assignee, req.Notes, now)
		if err != nil {
			return fmt.Errorf("escalate: %w", err)
		}

		note, err := model.NewDealNote(current.DealID(), authorOf(req.Actor), valueobject.NoteTypeApproval,
			fmt.Sprintf("Approval escalated from level %d to level %d", current.Level(), next.Level()),
			map[string]any{
				"approval_id":      current.ID().String(),
				"next_approval_id": next.ID().String(),
				"from_level":       current.Level(),
				"to_level":         next.Level(),
				"notes":            current.ResponseNotes(),
			}, now)
		if err != nil {
			return err
		}

		// The closed row must be written before the new pending one.
		if err := repos.Approvals.Resolve(ctx, current); err != nil {
			return fmt.Errorf("save escalated approval: %w", err)
		}
		if err := repos.Approvals.Create(ctx, next); err != nil {
			return fmt.Errorf("save next approval: %w", err)
		}
		if err := repos.Notes.Append(ctx, note); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		return stageEvents(ctx, repos.Outbox, current, next)
	})
	if err != nil {
		return dto.ApprovalResponse{}, err
	}

	uc.metrics.Escalated(ctx)
	uc.logger.InfoContext(ctx, "approval escalated",
		"deal_id", next.DealID(),
		"approval_id", current.ID(),
		"next_approval_id", next.ID(),
		"level", next.Level(),
	)
	return toApprovalResponse(next), nil
}
