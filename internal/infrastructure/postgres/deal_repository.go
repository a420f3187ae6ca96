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
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	pkgpostgres "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

const dealColumns = `id, owner_id, name, customer_name, value, discount_percent, contract_months,
	status, classification, total_score, auto_approved, approved_at, closed_at,
	version, created_at, updated_at`

// DealRepository implements port.DealRepository using PostgreSQL.
type DealRepository struct {
	db pkgpostgres.Querier
}

// Create inserts a new deal.
func (r *DealRepository) Create(ctx context.Context, deal *model.Deal) error {
	s := deal.Snapshot()
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.OwnerID, s.Name, s.CustomerName, s.Value, s.DiscountPercent, s.ContractMonths,
		s.Status.String(), nullableClassification(s.Classification), s.TotalScore, s.AutoApproved,
		s.ApprovedAt, s.ClosedAt, s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err, "deals_pkey") {
			return domainerr.Conflictf("deal %s already exists", s.ID)
		}
		return fmt.Errorf("failed to insert deal: %w", err)
	}
	return nil
}

// Update writes the deal if the stored version still matches and bumps the
// in-memory version on success.
func (r *DealRepository) Update(ctx context.Context, deal *model.Deal) error {
	s := deal.Snapshot()
	query := `
		UPDATE deals SET
			name = $3, customer_name = $4, value = $5, discount_percent = $6, contract_months = $7,
			status = $8, classification = $9, total_score = $10, auto_approved = $11,
			approved_at = $12, closed_at = $13, updated_at = $14, version = version + 1
		WHERE id = $1 AND version = $2`

	tag, err := r.db.Exec(ctx, query,
		s.ID, s.Version, s.Name, s.CustomerName, s.Value, s.DiscountPercent, s.ContractMonths,
		s.Status.String(), nullableClassification(s.Classification), s.TotalScore, s.AutoApproved,
		s.ApprovedAt, s.ClosedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, s.ID); err != nil {
			return err
		}
		return domainerr.Conflictf("deal %s was modified concurrently", s.ID)
	}
	deal.BumpVersion()
	return nil
}

// FindByID loads a deal.
func (r *DealRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	deal, err := scanDeal(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFoundf("deal %s not found", id)
		}
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}
	return deal, nil
}

// List returns deals newest first.
func (r *DealRepository) List(ctx context.Context, filter port.DealFilter) ([]*model.Deal, error) {
	var status *string
	if filter.Status != nil {
		s := filter.Status.String()
		status = &s
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}

	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE ($1::uuid IS NULL OR owner_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, filter.OwnerID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []*model.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}
	return deals, nil
}

func scanDeal(row pgx.Row) (*model.Deal, error) {
	var (
		s              model.DealSnapshot
		value          decimal.Decimal
		discount       decimal.Decimal
		status         string
		classification *string
		approvedAt     *time.Time
		closedAt       *time.Time
	)

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.CustomerName, &value, &discount, &s.ContractMonths,
		&status, &classification, &s.TotalScore, &s.AutoApproved, &approvedAt, &closedAt,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Status, err = valueobject.NewDealStatus(status); err != nil {
		return nil, fmt.Errorf("deal %s: %w", s.ID, err)
	}
	if classification != nil {
		if s.Classification, err = valueobject.NewClassification(*classification); err != nil {
			return nil, fmt.Errorf("deal %s: %w", s.ID, err)
		}
	}
	s.Value = value
	s.DiscountPercent = discount
	s.ApprovedAt = utcPtr(approvedAt)
	s.ClosedAt = utcPtr(closedAt)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return model.ReconstructDeal(s), nil
}

func nullableClassification(c valueobject.Classification) *string {
	if c.IsZero() {
		return nil
	}
	v := c.String()
	return &v
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
