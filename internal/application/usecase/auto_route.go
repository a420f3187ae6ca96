package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/service"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

const reasonNoSegment = "no matching segment"

// AutoRouteUseCase matches a deal to a segment and auto-approves it when the
// segment allows. Approval, its audit note and the closing of any open
// approval commit together.
type AutoRouteUseCase struct {
	store   port.Store
	matcher *service.SegmentMatcher
	metrics port.Metrics
	logger  *slog.Logger
}

// NewAutoRouteUseCase wires dependencies.
func NewAutoRouteUseCase(store port.Store, matcher *service.SegmentMatcher, metrics port.Metrics, logger *slog.Logger) *AutoRouteUseCase {
	return &AutoRouteUseCase{store: store, matcher: matcher, metrics: metrics, logger: logger}
}

// Execute routes the deal.
func (uc *AutoRouteUseCase) Execute(ctx context.Context, req dto.DealRequest) (dto.AutoRouteResponse, error) {
	ctx, span := tracer.Start(ctx, "AutoRoute")
	defer span.End()

	now := time.Now().UTC()
	var (
		resp    dto.AutoRouteResponse
		result  string
		deal    *model.Deal
		segment *model.DealSegment
	)

	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		deal, err = repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}

		status := deal.Status()
		if !status.Equal(valueobject.DealStatusPendingScore) && !status.Equal(valueobject.DealStatusPendingApproval) {
			result = "skipped"
			resp.Reason = fmt.Sprintf("deal is %s; only deals pending score or approval are routed", status)
			return nil
		}

		segments, err := repos.Segments.List(ctx, true)
		if err != nil {
			return fmt.Errorf("list segments: %w", err)
		}
		segment = uc.matcher.FindSegment(segments, deal.Value(), deal.TotalScore())
		if segment == nil {
			result = "no_segment"
			resp.Reason = reasonNoSegment
			return nil
		}
		if !segment.AutoApproveEnabled() {
			result = "manual"
			resp.Reason = fmt.Sprintf("manual approval required at level %d", segment.ApprovalLevel())
			return nil
		}

		if err := deal.AutoApprove(segment, now); err != nil {
			return fmt.Errorf("auto-approve: %w", err)
		}

		sources := []eventSource{deal}
		if status.Equal(valueobject.DealStatusPendingApproval) {
			pending, err := repos.Approvals.FindPendingByDeal(ctx, deal.ID())
			if err != nil {
				return fmt.Errorf("find pending approval: %w", err)
			}
			if pending != nil {
				if err := pending.AutoResolve("auto-approved by segment "+segment.Name(), now); err != nil {
					return fmt.Errorf("close pending approval: %w", err)
				}
				if err := repos.Approvals.Resolve(ctx, pending); err != nil {
					return fmt.Errorf("save approval: %w", err)
				}
				sources = append(sources, pending)
			}
		}

		note, err := statusNote(deal, dto.Actor{}, status,
			fmt.Sprintf("Auto-approved by segment %s", segment.Name()),
			map[string]any{
				"segment_id":   segment.ID().String(),
				"segment_name": segment.Name(),
				"total_score":  deal.TotalScore(),
			}, now)
		if err != nil {
			return err
		}

		if err := repos.Deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}
		if err := repos.Notes.Append(ctx, note); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		result = "approved"
		resp.AutoApproved = true
		resp.Reason = "auto-approved by segment " + segment.Name()
		return stageEvents(ctx, repos.Outbox, sources...)
	})
	if err != nil {
		return dto.AutoRouteResponse{}, err
	}

	uc.metrics.AutoRouted(ctx, result)
	uc.logger.InfoContext(ctx, "deal routed", "deal_id", deal.ID(), "result", result, "reason", resp.Reason)

	resp.Segment = toSegmentResponsePtr(segment)
	resp.Deal = toDealResponse(deal, nil)
	return resp, nil
}
