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
)

// ScoringThresholdUseCase reads and replaces the classification cut-offs.
// Existing classifications are left as they are until the deal is rescored.
type ScoringThresholdUseCase struct {
	store   port.Store
	checker port.CapabilityChecker
	logger  *slog.Logger
}

// NewScoringThresholdUseCase wires dependencies.
func NewScoringThresholdUseCase(store port.Store, checker port.CapabilityChecker, logger *slog.Logger) *ScoringThresholdUseCase {
	return &ScoringThresholdUseCase{store: store, checker: checker, logger: logger}
}

// Get returns the configured thresholds.
func (uc *ScoringThresholdUseCase) Get(ctx context.Context) (dto.ScoringThresholdResponse, error) {
	th, err := uc.store.Repositories().Thresholds.Get(ctx)
	if err != nil {
		return dto.ScoringThresholdResponse{}, fmt.Errorf("get threshold: %w", err)
	}
	if th == nil {
		return dto.ScoringThresholdResponse{}, domainerr.NotFoundf("scoring thresholds have not been configured")
	}
	return toThresholdResponse(*th), nil
}

// Set validates and stores new thresholds.
func (uc *ScoringThresholdUseCase) Set(ctx context.Context, req dto.SetScoringThresholdRequest) (dto.ScoringThresholdResponse, error) {
	if err := requireCapability(uc.checker, req.Actor, port.CapabilityAdminister); err != nil {
		return dto.ScoringThresholdResponse{}, err
	}
	th, err := model.NewScoringThreshold(req.GreenMin, req.YellowMin, req.Actor.UserID, time.Now().UTC())
	if err != nil {
		return dto.ScoringThresholdResponse{}, fmt.Errorf("set threshold: %w", err)
	}
	if err := uc.store.Repositories().Thresholds.Save(ctx, th); err != nil {
		return dto.ScoringThresholdResponse{}, fmt.Errorf("save threshold: %w", err)
	}

	uc.logger.InfoContext(ctx, "scoring threshold updated", "green_min", th.GreenMin, "yellow_min", th.YellowMin)
	return toThresholdResponse(th), nil
}
