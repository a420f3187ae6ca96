package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// CreateDealUseCase opens a draft deal.
type CreateDealUseCase struct {
	store  port.Store
	logger *slog.Logger
}

// NewCreateDealUseCase wires dependencies.
func NewCreateDealUseCase(store port.Store, logger *slog.Logger) *CreateDealUseCase {
	return &CreateDealUseCase{store: store, logger: logger}
}

// Execute creates the deal and stages its DealCreated event.
func (uc *CreateDealUseCase) Execute(ctx context.Context, req dto.CreateDealRequest) (dto.DealResponse, error) {
	ctx, span := tracer.Start(ctx, "CreateDeal")
	defer span.End()

	owner := req.OwnerID
	if owner == uuid.Nil {
		owner = req.Actor.UserID
	}
	deal, err := model.NewDeal(model.DealParams{
		OwnerID:         owner,
		Name:            req.Name,
		CustomerName:    req.CustomerName,
		Value:           req.Value,
		DiscountPercent: req.DiscountPercent,
		ContractMonths:  req.ContractMonths,
	}, time.Now().UTC())
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("create deal: %w", err)
	}

	err = uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		if err := repos.Deals.Create(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}
		return stageEvents(ctx, repos.Outbox, deal)
	})
	if err != nil {
		return dto.DealResponse{}, err
	}

	uc.logger.InfoContext(ctx, "deal created", "deal_id", deal.ID(), "owner_id", owner)
	return toDealResponse(deal, nil), nil
}

// GetDealUseCase loads a deal with its attribute scores.
type GetDealUseCase struct {
	store port.Store
}

// NewGetDealUseCase wires dependencies.
func NewGetDealUseCase(store port.Store) *GetDealUseCase {
	return &GetDealUseCase{store: store}
}

// Execute retrieves the deal.
func (uc *GetDealUseCase) Execute(ctx context.Context, req dto.GetDealRequest) (dto.DealResponse, error) {
	repos := uc.store.Repositories()

	deal, err := repos.Deals.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("find deal: %w", err)
	}
	scores, err := repos.Scores.ListByDeal(ctx, req.DealID)
	if err != nil {
		return dto.DealResponse{}, fmt.Errorf("list scores: %w", err)
	}
	return toDealResponse(deal, scores), nil
}

// ListDealsUseCase lists deals by owner and status.
type ListDealsUseCase struct {
	store port.Store
}

// NewListDealsUseCase wires dependencies.
func NewListDealsUseCase(store port.Store) *ListDealsUseCase {
	return &ListDealsUseCase{store: store}
}

// Execute lists deals, newest first.
func (uc *ListDealsUseCase) Execute(ctx context.Context, req dto.ListDealsRequest) (dto.ListDealsResponse, error) {
	filter := port.DealFilter{OwnerID: req.OwnerID, Limit: req.Limit}
	if req.Status != "" {
		status, err := valueobject.NewDealStatus(req.Status)
		if err != nil {
			return dto.ListDealsResponse{}, err
		}
		filter.Status = &status
	}

	deals, err := uc.store.Repositories().Deals.List(ctx, filter)
	if err != nil {
		return dto.ListDealsResponse{}, fmt.Errorf("list deals: %w", err)
	}
	resp := dto.ListDealsResponse{Deals: make([]dto.DealResponse, 0, len(deals))}
	for _, d := range deals {
		resp.Deals = append(resp.Deals, toDealResponse(d, nil))
	}
	return resp, nil
}

// CloseDealUseCase marks a resolved deal won or lost.
type CloseDealUseCase struct {
	store  port.Store
	logger *slog.Logger
}

// NewCloseDealUseCase wires dependencies.
func NewCloseDealUseCase(store port.Store, logger *slog.Logger) *CloseDealUseCase {
	return &CloseDealUseCase{store: store, logger: logger}
}

// Execute closes the deal. Only approved or rejected deals can close.
func (uc *CloseDealUseCase) Execute(ctx context.Context, req dto.CloseDealRequest) (dto.DealResponse, error) {
	ctx, span := tracer.Start(ctx, "CloseDeal")
	defer span.End()

	now := time.Now().UTC()
	var deal *model.Deal

	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		deal, err = repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}

		from := deal.Status()
		if err := deal.Close(req.Won, now); err != nil {
			return fmt.Errorf("close deal: %w", err)
		}
		note, err := statusNote(deal, req.Actor, from, "Deal closed as "+deal.Status().String(), nil, now)
		if err != nil {
			return err
		}

		if err := repos.Deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}
		if err := repos.Notes.Append(ctx, note); err != nil {
			return fmt.Errorf("append note: %w", err)
		}
		return stageEvents(ctx, repos.Outbox, deal)
	})
	if err != nil {
		return dto.DealResponse{}, err
	}

	uc.logger.InfoContext(ctx, "deal closed", "deal_id", deal.ID(), "status", deal.Status().String())
	return toDealResponse(deal, nil), nil
}
