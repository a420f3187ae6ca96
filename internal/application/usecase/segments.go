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

// DealSegmentUseCase administers deal segments and previews routing.
type DealSegmentUseCase struct {
	store   port.Store
	checker port.CapabilityChecker
	matcher *service.SegmentMatcher
	logger  *slog.Logger
}

// NewDealSegmentUseCase wires dependencies.
func NewDealSegmentUseCase(
	store port.Store,
	checker port.CapabilityChecker,
	matcher *service.SegmentMatcher,
	logger *slog.Logger,
) *DealSegmentUseCase {
	return &DealSegmentUseCase{store: store, checker: checker, matcher: matcher, logger: logger}
}

func segmentParams(req dto.DealSegmentRequest) (model.DealSegmentParams, error) {
	touch, err := valueobject.NewTouchModel(req.TouchModel)
	if err != nil {
		return model.DealSegmentParams{}, err
	}
	return model.DealSegmentParams{
		Name:               req.Name,
		Description:        req.Description,
		MinDealValue:       req.MinDealValue,
		MaxDealValue:       req.MaxDealValue,
		MinScore:           req.MinScore,
		MaxScore:           req.MaxScore,
		ApprovalLevel:      req.ApprovalLevel,
		ApprovalSLAHours:   req.ApprovalSLAHours,
		TouchModel:         touch,
		AutoApproveEnabled: req.AutoApproveEnabled,
		Priority:           req.Priority,
		Active:             req.Active,
	}, nil
}

// Create adds a segment.
func (uc *DealSegmentUseCase) Create(ctx context.Context, req dto.DealSegmentRequest) (dto.DealSegmentResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.DealSegmentResponse{}, err
	}
	params, err := segmentParams(req)
	if err != nil {
		return dto.DealSegmentResponse{}, err
	}
	seg, err := model.NewDealSegment(params, time.Now().UTC())
	if err != nil {
		return dto.DealSegmentResponse{}, fmt.Errorf("create segment: %w", err)
	}
	if err := uc.store.Repositories().Segments.Create(ctx, seg); err != nil {
		return dto.DealSegmentResponse{}, fmt.Errorf("save segment: %w", err)
	}

	uc.logger.InfoContext(ctx, "deal segment created", "segment_id", seg.ID(), "priority", seg.Priority())
	return toSegmentResponse(seg), nil
}

// Update replaces a segment's editable fields.
func (uc *DealSegmentUseCase) Update(ctx context.Context, req dto.DealSegmentRequest) (dto.DealSegmentResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.DealSegmentResponse{}, err
	}
	params, err := segmentParams(req)
	if err != nil {
		return dto.DealSegmentResponse{}, err
	}

	var seg *model.DealSegment
	err = uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		seg, err = repos.Segments.FindByID(ctx, req.SegmentID)
		if err != nil {
			return fmt.Errorf("find segment: %w", err)
		}
		if err := seg.Update(params, time.Now().UTC()); err != nil {
			return fmt.Errorf("update segment: %w", err)
		}
		return repos.Segments.Update(ctx, seg)
	})
	if err != nil {
		return dto.DealSegmentResponse{}, err
	}
	return toSegmentResponse(seg), nil
}

// List returns segments by ascending priority.
func (uc *DealSegmentUseCase) List(ctx context.Context, req dto.ListDealSegmentsRequest) (dto.ListDealSegmentsResponse, error) {
	segs, err := uc.store.Repositories().Segments.List(ctx, req.ActiveOnly)
	if err != nil {
		return dto.ListDealSegmentsResponse{}, fmt.Errorf("list segments: %w", err)
	}
	resp := dto.ListDealSegmentsResponse{Segments: make([]dto.DealSegmentResponse, 0, len(segs))}
	for _, s := range segs {
		resp.Segments = append(resp.Segments, toSegmentResponse(s))
	}
	return resp, nil
}

// Preview reports the segment a deal would route to without changing anything.
func (uc *DealSegmentUseCase) Preview(ctx context.Context, req dto.GetDealRequest) (dto.PreviewSegmentResponse, error) {
	repos := uc.store.Repositories()
	deal, err := repos.Deals.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.PreviewSegmentResponse{}, fmt.Errorf("find deal: %w", err)
	}
	segs, err := repos.Segments.List(ctx, true)
	if err != nil {
		return dto.PreviewSegmentResponse{}, fmt.Errorf("list segments: %w", err)
	}
	seg := uc.matcher.FindSegment(segs, deal.Value(), deal.TotalScore())
	return dto.PreviewSegmentResponse{DealID: deal.ID(), Segment: toSegmentResponsePtr(seg)}, nil
}
