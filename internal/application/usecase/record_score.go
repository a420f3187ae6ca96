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

// RecordScoreUseCase upserts one attribute score and rescores the deal in the
// same transaction. If the rollup cannot be computed nothing is written.
type RecordScoreUseCase struct {
	store   port.Store
	engine  *service.ScoringEngine
	metrics port.Metrics
	logger  *slog.Logger
}

// NewRecordScoreUseCase wires dependencies.
func NewRecordScoreUseCase(store port.Store, engine *service.ScoringEngine, metrics port.Metrics, logger *slog.Logger) *RecordScoreUseCase {
	return &RecordScoreUseCase{store: store, engine: engine, metrics: metrics, logger: logger}
}

// Execute records the score.
func (uc *RecordScoreUseCase) Execute(ctx context.Context, req dto.RecordScoreRequest) (dto.RecordScoreResponse, error) {
	ctx, span := tracer.Start(ctx, "RecordScore")
	defer span.End()

	now := time.Now().UTC()
	var (
		deal   *model.Deal
		score  model.DealScore
		scores []model.DealScore
	)

	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		deal, err = repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}
		if !deal.Status().AcceptsScores() {
			return domainerr.Preconditionf("deal %s is %s and can no longer be scored", deal.ID(), deal.Status())
		}

		attr, err := repos.Attributes.FindByID(ctx, req.AttributeID)
		if err != nil {
			return fmt.Errorf("find attribute: %w", err)
		}
		if !attr.IsActive() {
			return domainerr.Preconditionf("attribute %s is inactive", attr.Name())
		}

		if attr.HasDegenerateRange() {
			uc.logger.WarnContext(ctx, "attribute has a degenerate range, scoring 50",
				"attribute_id", attr.ID(),
				"min_value", attr.MinValue(),
				"max_value", attr.MaxValue(),
			)
		}
		normalized := uc.engine.Normalize(attr, req.RawValue)
		score, err = model.NewDealScore(deal.ID(), attr.ID(), req.Actor.UserID, req.RawValue, normalized, now)
		if err != nil {
			return fmt.Errorf("build score: %w", err)
		}
		if err := repos.Scores.Upsert(ctx, score); err != nil {
			return fmt.Errorf("upsert score: %w", err)
		}

		var notes []model.DealNote
		from := deal.Status()
		moved, err := deal.StartScoring(now)
		if err != nil {
			return fmt.Errorf("start scoring: %w", err)
		}
		if moved {
			note, err := statusNote(deal, req.Actor, from, "Scoring started", nil, now)
			if err != nil {
				return err
			}
			notes = append(notes, note)
		}

		rollup, list, err := rescore(ctx, repos, uc.engine, deal, now)
		if err != nil {
			return err
		}
		scores = list

		note, err := model.NewDealNote(deal.ID(), authorOf(req.Actor), valueobject.NoteTypeScoreUpdate,
			fmt.Sprintf("Scored %s: raw %v, normalized %v; %s", attr.Name(), req.RawValue, normalized, describeRollup(rollup)),
			map[string]any{
				"attribute_id":     attr.ID().String(),
				"raw_value":        req.RawValue,
				"normalized_score": normalized,
				"total_score":      rollup.Total,
				"classification":   rollup.Classification.String(),
			}, now)
		if err != nil {
			return err
		}
		notes = append(notes, note)

		if err := repos.Deals.Update(ctx, deal); err != nil {
			return fmt.Errorf("save deal: %w", err)
		}
		if err := repos.Notes.Append(ctx, notes...); err != nil {
			return fmt.Errorf("append notes: %w", err)
		}
		return stageEvents(ctx, repos.Outbox, deal)
	})
	if err != nil {
		return dto.RecordScoreResponse{}, err
	}

	uc.metrics.ScoreRecorded(ctx)
	uc.logger.InfoContext(ctx, "deal scored",
		"deal_id", deal.ID(),
		"attribute_id", score.AttributeID,
		"normalized_score", score.NormalizedScore,
		"classification", deal.Classification().String(),
	)
	return dto.RecordScoreResponse{
		Score: toScoreResponse(score),
		Deal:  toDealResponse(deal, scores),
	}, nil
}

// RecomputeDealScoreUseCase rolls a deal's existing scores up again, typically
// after an administrator changed weights or thresholds.
type RecomputeDealScoreUseCase struct {
	store  port.Store
	engine *service.ScoringEngine
	logger *slog.Logger
}

// NewRecomputeDealScoreUseCase wires dependencies.
func NewRecomputeDealScoreUseCase(store port.Store, engine *service.ScoringEngine, logger *slog.Logger) *RecomputeDealScoreUseCase {
	return &RecomputeDealScoreUseCase{store: store, engine: engine, logger: logger}
}

// Execute recomputes and writes the total and classification.
func (uc *RecomputeDealScoreUseCase) Execute(ctx context.Context, req dto.DealRequest) (dto.DealResponse, error) {
	ctx, span := tracer.Start(ctx, "RecomputeDealScore")
	defer span.End()

	now := time.Now().UTC()
	var (
		deal   *model.Deal
		scores []model.DealScore
	)

	err := uc.store.WithinTx(ctx, func(repos port.Repositories) error {
		var err error
		deal, err = repos.Deals.FindByID(ctx, req.DealID)
		if err != nil {
			return fmt.Errorf("find deal: %w", err)
		}

		rollup, list, err := rescore(ctx, repos, uc.engine, deal, now)
		if err != nil {
			return err
		}
		scores = list

		note, err := model.NewDealNote(deal.ID(), authorOf(req.Actor), valueobject.NoteTypeScoreUpdate,
			"Score recomputed; "+describeRollup(rollup),
			map[string]any{"total_score": rollup.Total, "classification": rollup.Classification.String()}, now)
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

	uc.logger.InfoContext(ctx, "deal score recomputed", "deal_id", deal.ID(), "classification", deal.Classification().String())
	return toDealResponse(deal, scores), nil
}

// rescore reloads the deal's scores and active attributes, rolls them up
// against the stored threshold and writes the result onto the deal. It is the
// only path that changes a deal's classification.
func rescore(
	ctx context.Context,
	repos port.Repositories,
	engine *service.ScoringEngine,
	deal *model.Deal,
	now time.Time,
) (service.Rollup, []model.DealScore, error) {
	threshold, err := repos.Thresholds.Get(ctx)
	if err != nil {
		return service.Rollup{}, nil, fmt.Errorf("get threshold: %w", err)
	}
	attrs, err := repos.Attributes.List(ctx, true)
	if err != nil {
		return service.Rollup{}, nil, fmt.Errorf("list attributes: %w", err)
	}
	scores, err := repos.Scores.ListByDeal(ctx, deal.ID())
	if err != nil {
		return service.Rollup{}, nil, fmt.Errorf("list scores: %w", err)
	}

	rollup, err := engine.RecomputeTotal(attrs, scores, threshold)
	if err != nil {
		return service.Rollup{}, nil, fmt.Errorf("recompute total: %w", err)
	}
	if err := deal.ApplyScore(rollup.Total, rollup.Classification, now); err != nil {
		return service.Rollup{}, nil, fmt.Errorf("apply score: %w", err)
	}
	return rollup, scores, nil
}

func describeRollup(r service.Rollup) string {
	if r.Total == nil {
		return "deal is unclassified"
	}
	return fmt.Sprintf("total %v (%s)", *r.Total, r.Classification)
}
