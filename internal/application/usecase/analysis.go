package usecase

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

const maxComparableDeals = 5

type dealSummary struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	CustomerName    string              `json:"customer_name"`
	Value           decimal.Decimal     `json:"value"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	ContractMonths  int                 `json:"contract_months"`
	Status          string              `json:"status"`
	TotalScore      *float64            `json:"total_score"`
	Classification  *string             `json:"classification"`
	Scores          []attributeSummary  `json:"scores"`
	Comparables     []comparableSummary `json:"comparable_deals"`
}

type attributeSummary struct {
	Attribute       string  `json:"attribute"`
	Category        string  `json:"category"`
	Weight          float64 `json:"weight"`
	RawValue        float64 `json:"raw_value"`
	NormalizedScore float64 `json:"normalized_score"`
}

type comparableSummary struct {
	Name           string          `json:"name"`
	CustomerName   string          `json:"customer_name"`
	Value          decimal.Decimal `json:"value"`
	TotalScore     *float64        `json:"total_score"`
	Classification *string         `json:"classification"`
}

// DealAnalysisUseCase builds the JSON snapshot of a deal and hands it to the
// AI analysis provider.
type DealAnalysisUseCase struct {
	store    port.Store
	provider port.AnalysisProvider
	logger   *slog.Logger
}

// NewDealAnalysisUseCase wires dependencies.
func NewDealAnalysisUseCase(store port.Store, provider port.AnalysisProvider, logger *slog.Logger) *DealAnalysisUseCase {
	return &DealAnalysisUseCase{store: store, provider: provider, logger: logger}
}

// BuildSummary returns the deal snapshot: its scores by attribute and up to
// five closed-won deals nearest in value.
func (uc *DealAnalysisUseCase) BuildSummary(ctx context.Context, req dto.GetDealRequest) (dto.DealSummaryResponse, error) {
	repos := uc.store.Repositories()

	deal, err := repos.Deals.FindByID(ctx, req.DealID)
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("find deal: %w", err)
	}
	scores, err := repos.Scores.ListByDeal(ctx, deal.ID())
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("list scores: %w", err)
	}
	attrs, err := repos.Attributes.List(ctx, false)
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("list attributes: %w", err)
	}
	wonStatus := valueobject.DealStatusClosedWon
	won, err := repos.Deals.List(ctx, port.DealFilter{Status: &wonStatus})
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("list closed deals: %w", err)
	}

	summary := dealSummary{
		ID:              deal.ID(),
		Name:            deal.Name(),
		CustomerName:    deal.CustomerName(),
		Value:           deal.Value(),
		DiscountPercent: deal.DiscountPercent(),
		ContractMonths:  deal.ContractMonths(),
		Status:          deal.Status().String(),
		TotalScore:      deal.TotalScore(),
		Classification:  classificationPtr(deal.Classification()),
		Scores:          summarizeScores(attrs, scores),
		Comparables:     nearestByValue(deal, won, maxComparableDeals),
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return dto.DealSummaryResponse{}, fmt.Errorf("marshal summary: %w", err)
	}
	return dto.DealSummaryResponse{DealID: deal.ID(), Summary: string(raw)}, nil
}

// Analyze sends the summary to the provider and returns its text unchanged.
func (uc *DealAnalysisUseCase) Analyze(ctx context.Context, req dto.GetDealRequest) (dto.AnalyzeDealResponse, error) {
	ctx, span := tracer.Start(ctx, "AnalyzeDeal")
	defer span.End()

	summary, err := uc.BuildSummary(ctx, req)
	if err != nil {
		return dto.AnalyzeDealResponse{}, err
	}
	analysis, err := uc.provider.Analyze(ctx, summary.Summary)
	if err != nil {
		return dto.AnalyzeDealResponse{}, fmt.Errorf("analyze deal: %w", err)
	}

	uc.logger.InfoContext(ctx, "deal analyzed", "deal_id", summary.DealID, "analysis_length", len(analysis))
	return dto.AnalyzeDealResponse{DealID: summary.DealID, Summary: summary.Summary, Analysis: analysis}, nil
}

func summarizeScores(attrs []*model.ScoringAttribute, scores []model.DealScore) []attributeSummary {
	byID := make(map[uuid.UUID]*model.ScoringAttribute, len(attrs))
	for _, a := range attrs {
		byID[a.ID()] = a
	}
	out := make([]attributeSummary, 0, len(scores))
	for _, s := range scores {
		a, ok := byID[s.AttributeID]
		if !ok {
			continue
		}
		out = append(out, attributeSummary{
			Attribute:       a.Name(),
			Category:        a.Category().String(),
			Weight:          a.Weight(),
			RawValue:        s.RawValue,
			NormalizedScore: s.NormalizedScore,
		})
	}
	slices.SortFunc(out, func(x, y attributeSummary) int { return cmp.Compare(x.Attribute, y.Attribute) })
	return out
}

func nearestByValue(deal *model.Deal, candidates []*model.Deal, limit int) []comparableSummary {
	others := make([]*model.Deal, 0, len(candidates))
	for _, c := range candidates {
		if c.ID() != deal.ID() {
			others = append(others, c)
		}
	}
	distance := func(d *model.Deal) decimal.Decimal { return d.Value().Sub(deal.Value()).Abs() }
	slices.SortStableFunc(others, func(a, b *model.Deal) int { return distance(a).Cmp(distance(b)) })
	if len(others) > limit {
		others = others[:limit]
	}

	out := make([]comparableSummary, 0, len(others))
	for _, d := range others {
		out = append(out, comparableSummary{
			Name:           d.Name(),
			CustomerName:   d.CustomerName(),
			Value:          d.Value(),
			TotalScore:     d.TotalScore(),
			Classification: classificationPtr(d.Classification()),
		})
	}
	return out
}

func classificationPtr(c valueobject.Classification) *string {
	if c.IsZero() {
		return nil
	}
	s := c.String()
	return &s
}
