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

// ScoringAttributeUseCase administers scoring attributes. Changing or
// deactivating an attribute does not rescore existing deals; callers run
// RecomputeDealScore for that.
type ScoringAttributeUseCase struct {
	store   port.Store
	checker port.CapabilityChecker
	logger  *slog.Logger
}

// NewScoringAttributeUseCase wires dependencies.
func NewScoringAttributeUseCase(store port.Store, checker port.CapabilityChecker, logger *slog.Logger) *ScoringAttributeUseCase {
	return &ScoringAttributeUseCase{store: store, checker: checker, logger: logger}
}

func attributeParams(req dto.ScoringAttributeRequest) (model.ScoringAttributeParams, error) {
	category, err := valueobject.NewAttributeCategory(req.Category)
	if err != nil {
		return model.ScoringAttributeParams{}, err
	}
	return model.ScoringAttributeParams{
		Name:           req.Name,
		Description:    req.Description,
		Category:       category,
		Weight:         req.Weight,
		MinValue:       req.MinValue,
		MaxValue:       req.MaxValue,
		HigherIsBetter: req.HigherIsBetter,
	}, nil
}

// Create adds an active attribute.
func (uc *ScoringAttributeUseCase) Create(ctx context.Context, req dto.ScoringAttributeRequest) (dto.ScoringAttributeResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.ScoringAttributeResponse{}, err
	}
	params, err := attributeParams(req)
	if err != nil {
		return dto.ScoringAttributeResponse{}, err
	}
	attr, err := model.NewScoringAttribute(params, time.Now().UTC())
	if err != nil {
		return dto.ScoringAttributeResponse{}, fmt.Errorf("create attribute: %w", err)
	}
	if err := uc.store.Repositories().Attributes.Create(ctx, attr); err != nil {
		return dto.ScoringAttributeResponse{}, fmt.Errorf("save attribute: %w", err)
	}

	uc.logger.InfoContext(ctx, "scoring attribute created", "attribute_id", attr.ID(), "weight", attr.Weight())
	return toAttributeResponse(attr), nil
}

// Update replaces an attribute's editable fields.
func (uc *ScoringAttributeUseCase) Update(ctx context.Context, req dto.ScoringAttributeRequest) (dto.ScoringAttributeResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.ScoringAttributeResponse{}, err
	}
	params, err := attributeParams(req)
	if err != nil {
		return dto.ScoringAttributeResponse{}, err
	}

	var attr *model.ScoringAttribute
	err = uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		attr, err = repos.Attributes.FindByID(ctx, req.AttributeID)
		if err != nil {
			return fmt.Errorf("find attribute: %w", err)
		}
		if err := attr.Update(params, time.Now().UTC()); err != nil {
			return fmt.Errorf("update attribute: %w", err)
		}
		return repos.Attributes.Update(ctx, attr)
	})
	if err != nil {
		return dto.ScoringAttributeResponse{}, err
	}
	return toAttributeResponse(attr), nil
}

// Deactivate removes the attribute from future rollups.
func (uc *ScoringAttributeUseCase) Deactivate(ctx context.Context, req dto.DeactivateScoringAttributeRequest) (dto.ScoringAttributeResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.ScoringAttributeResponse{}, err
	}

	var attr *model.ScoringAttribute
	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		attr, err = repos.Attributes.FindByID(ctx, req.AttributeID)
		if err != nil {
			return fmt.Errorf("find attribute: %w", err)
		}
		attr.Deactivate(time.Now().UTC())
		return repos.Attributes.Update(ctx, attr)
	})
	if err != nil {
		return dto.ScoringAttributeResponse{}, err
	}

	uc.logger.InfoContext(ctx, "scoring attribute deactivated", "attribute_id", attr.ID())
	return toAttributeResponse(attr), nil
}

// List returns attributes ordered by name.
func (uc *ScoringAttributeUseCase) List(ctx context.Context, req dto.ListScoringAttributesRequest) (dto.ListScoringAttributesResponse, error) {
	attrs, err := uc.store.Repositories().Attributes.List(ctx, req.ActiveOnly)
	if err != nil {
		return dto.ListScoringAttributesResponse{}, fmt.Errorf("list attributes: %w", err)
	}
	resp := dto.ListScoringAttributesResponse{Attributes: make([]dto.ScoringAttributeResponse, 0, len(attrs))}
	for _, a := range attrs {
		resp.Attributes = append(resp.Attributes, toAttributeResponse(a))
	}
	return resp, nil
}
