package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	pkgpostgres "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

// ---------------------------------------------------------------------------
// Scoring attributes
// ---------------------------------------------------------------------------

const attributeColumns = `id, name, description, category, weight, min_value, max_value,
	higher_is_better, active, created_at, updated_at`

// AttributeRepository implements port.AttributeRepository using PostgreSQL.
type AttributeRepository struct {
	db pkgpostgres.Querier
}

// Create inserts a new scoring attribute.
func (r *AttributeRepository) Create(ctx context.Context, a *model.ScoringAttribute) error {
	query := `
		INSERT INTO scoring_attributes (` + attributeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		a.ID(), a.Name(), a.Description(), a.Category().String(), a.Weight(), a.MinValue(), a.MaxValue(),
		a.HigherIsBetter(), a.IsActive(), a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scoring attribute: %w", err)
	}
	return nil
}

// Update overwrites a scoring attribute.
func (r *AttributeRepository) Update(ctx context.Context, a *model.ScoringAttribute) error {
	query := `
		UPDATE scoring_attributes SET
			name = $2, description = $3, category = $4, weight = $5, min_value = $6,
			max_value = $7, higher_is_better = $8, active = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		a.ID(), a.Name(), a.Description(), a.Category().String(), a.Weight(), a.MinValue(),
		a.MaxValue(), a.HigherIsBetter(), a.IsActive(), a.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update scoring attribute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.NotFoundf("scoring attribute %s not found", a.ID())
	}
	return nil
}

// FindByID loads a scoring attribute.
func (r *AttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ScoringAttribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM scoring_attributes WHERE id = $1`

	a, err := scanAttribute(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFoundf("scoring attribute %s not found", id)
		}
		return nil, fmt.Errorf("failed to find scoring attribute: %w", err)
	}
	return a, nil
}

// List returns attributes ordered by name.
func (r *AttributeRepository) List(ctx context.Context, activeOnly bool) ([]*model.ScoringAttribute, error) {
	query := `
		SELECT ` + attributeColumns + `
		FROM scoring_attributes
		WHERE active OR NOT $1
		ORDER BY name, id::text`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list scoring attributes: %w", err)
	}
	defer rows.Close()

	var out []*model.ScoringAttribute
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scoring attribute: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttribute(row pgx.Row) (*model.ScoringAttribute, error) {
	var (
		id                   uuid.UUID
		p                    model.ScoringAttributeParams
		category             string
		active               bool
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &p.Name, &p.Description, &category, &p.Weight, &p.MinValue, &p.MaxValue,
		&p.HigherIsBetter, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if p.Category, err = valueobject.NewAttributeCategory(category); err != nil {
		return nil, fmt.Errorf("scoring attribute %s: %w", id, err)
	}
	return model.ReconstructScoringAttribute(id, p, active, createdAt.UTC(), updatedAt.UTC()), nil
}

// ---------------------------------------------------------------------------
// Deal scores
// ---------------------------------------------------------------------------

// ScoreRepository implements port.ScoreRepository using PostgreSQL.
type ScoreRepository struct {
	db pkgpostgres.Querier
}

// Upsert writes the score for (deal, attribute), replacing any earlier one.
func (r *ScoreRepository) Upsert(ctx context.Context, s model.DealScore) error {
	query := `
		INSERT INTO deal_scores (deal_id, attribute_id, raw_value, normalized_score, scored_by, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (deal_id, attribute_id) DO UPDATE SET
			raw_value = EXCLUDED.raw_value,
			normalized_score = EXCLUDED.normalized_score,
			scored_by = EXCLUDED.scored_by,
			scored_at = EXCLUDED.scored_at`

	_, err := r.db.Exec(ctx, query, s.DealID, s.AttributeID, s.RawValue, s.NormalizedScore, s.ScoredBy, s.ScoredAt)
	if err != nil {
		return fmt.Errorf("failed to upsert deal score: %w", err)
	}
	return nil
}

// ListByDeal returns every recorded score for a deal.
func (r *ScoreRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]model.DealScore, error) {
	query := `
		SELECT deal_id, attribute_id, raw_value, normalized_score, scored_by, scored_at
		FROM deal_scores
		WHERE deal_id = $1
		ORDER BY attribute_id`

	rows, err := r.db.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal scores: %w", err)
	}
	defer rows.Close()

	var out []model.DealScore
	for rows.Next() {
		var s model.DealScore
		if err := rows.Scan(&s.DealID, &s.AttributeID, &s.RawValue, &s.NormalizedScore, &s.ScoredBy, &s.ScoredAt); err != nil {
			return nil, fmt.Errorf("failed to scan deal score: %w", err)
		}
		s.ScoredAt = s.ScoredAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Deal segments
// ---------------------------------------------------------------------------

const segmentColumns = `id, name, description, min_deal_value, max_deal_value, min_score, max_score,
	approval_level, approval_sla_hours, touch_model, auto_approve_enabled, priority, active,
	created_at, updated_at`

// SegmentRepository implements port.SegmentRepository using PostgreSQL.
type SegmentRepository struct {
	db pkgpostgres.Querier
}

// Create inserts a new segment.
func (r *SegmentRepository) Create(ctx context.Context, seg *model.DealSegment) error {
	query := `
		INSERT INTO deal_segments (` + segmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		seg.ID(), seg.Name(), seg.Description(), seg.MinDealValue(), seg.MaxDealValue(),
		seg.MinScore(), seg.MaxScore(), seg.ApprovalLevel(), seg.ApprovalSLAHours(),
		seg.TouchModel().String(), seg.AutoApproveEnabled(), seg.Priority(), seg.IsActive(),
		seg.CreatedAt(), seg.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert deal segment: %w", err)
	}
	return nil
}

// Update overwrites a segment.
func (r *SegmentRepository) Update(ctx context.Context, seg *model.DealSegment) error {
	query := `
		UPDATE deal_segments SET
			name = $2, description = $3, min_deal_value = $4, max_deal_value = $5,
			min_score = $6, max_score = $7, approval_level = $8, approval_sla_hours = $9,
			touch_model = $10, auto_approve_enabled = $11, priority = $12, active = $13,
			updated_at = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		seg.ID(), seg.Name(), seg.Description(), seg.MinDealValue(), seg.MaxDealValue(),
		seg.MinScore(), seg.MaxScore(), seg.ApprovalLevel(), seg.ApprovalSLAHours(),
		seg.TouchModel().String(), seg.AutoApproveEnabled(), seg.Priority(), seg.IsActive(),
		seg.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update deal segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.NotFoundf("deal segment %s not found", seg.ID())
	}
	return nil
}

// FindByID loads a segment.
func (r *SegmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DealSegment, error) {
	query := `SELECT ` + segmentColumns + ` FROM deal_segments WHERE id = $1`

	seg, err := scanSegment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFoundf("deal segment %s not found", id)
		}
		return nil, fmt.Errorf("failed to find deal segment: %w", err)
	}
	return seg, nil
}

// List returns segments in matching order: priority ascending, then id.
func (r *SegmentRepository) List(ctx context.Context, activeOnly bool) ([]*model.DealSegment, error) {
	query := `
		SELECT ` + segmentColumns + `
		FROM deal_segments
		WHERE active OR NOT $1
		ORDER BY priority, id::text`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal segments: %w", err)
	}
	defer rows.Close()

	var out []*model.DealSegment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal segment: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

func scanSegment(row pgx.Row) (*model.DealSegment, error) {
	var (
		id                   uuid.UUID
		p                    model.DealSegmentParams
		maxValue             decimal.NullDecimal
		touchModel           string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &p.Name, &p.Description, &p.MinDealValue, &maxValue, &p.MinScore, &p.MaxScore,
		&p.ApprovalLevel, &p.ApprovalSLAHours, &touchModel, &p.AutoApproveEnabled, &p.Priority, &p.Active,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if p.TouchModel, err = valueobject.NewTouchModel(touchModel); err != nil {
		return nil, fmt.Errorf("deal segment %s: %w", id, err)
	}
	if maxValue.Valid {
		p.MaxDealValue = &maxValue.Decimal
	}
	return model.ReconstructDealSegment(id, p, createdAt.UTC(), updatedAt.UTC()), nil
}

// ---------------------------------------------------------------------------
// Scoring threshold
// ---------------------------------------------------------------------------

// ThresholdRepository implements port.ThresholdRepository using PostgreSQL.
type ThresholdRepository struct {
	db pkgpostgres.Querier
}

// Get returns the configured threshold, or nil if none has been saved.
func (r *ThresholdRepository) Get(ctx context.Context) (*model.ScoringThreshold, error) {
	query := `SELECT green_min, yellow_min, updated_by, updated_at FROM scoring_thresholds WHERE singleton`

	var t model.ScoringThreshold
	err := r.db.QueryRow(ctx, query).Scan(&t.GreenMin, &t.YellowMin, &t.UpdatedBy, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load scoring threshold: %w", err)
	}
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// Save replaces the singleton threshold.
func (r *ThresholdRepository) Save(ctx context.Context, t model.ScoringThreshold) error {
	query := `
		INSERT INTO scoring_thresholds (singleton, green_min, yellow_min, updated_by, updated_at)
		VALUES (TRUE, $1, $2, $3, $4)
		ON CONFLICT (singleton) DO UPDATE SET
			green_min = EXCLUDED.green_min,
			yellow_min = EXCLUDED.yellow_min,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, query, t.GreenMin, t.YellowMin, t.UpdatedBy, t.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save scoring threshold: %w", err)
	}
	return nil
}
