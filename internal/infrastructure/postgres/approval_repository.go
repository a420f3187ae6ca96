package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	pkgpostgres "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

// onePendingIndex is the partial unique index allowing one pending approval per deal.
const onePendingIndex = "deal_approvals_one_pending_idx"

const approvalColumns = `id, deal_id, requester_id, assignee_id, responder_id, status,
	approval_level, request_notes, response_notes, requested_at, responded_at`

// ApprovalRepository implements port.ApprovalRepository using PostgreSQL.
type ApprovalRepository struct {
	db pkgpostgres.Querier
}

// Create inserts an approval. A second pending approval for the same deal
// violates onePendingIndex and is reported as a conflict.
func (r *ApprovalRepository) Create(ctx context.Context, a *model.DealApproval) error {
	s := a.Snapshot()
	query := `
		INSERT INTO deal_approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.DealID, s.RequesterID, s.AssigneeID, s.ResponderID, s.Status.String(),
		s.Level, s.RequestNotes, s.ResponseNotes, s.RequestedAt, s.RespondedAt,
	)
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err, onePendingIndex) {
			return domainerr.Conflictf("deal %s already has a pending approval", s.DealID)
		}
		return fmt.Errorf("failed to insert deal approval: %w", err)
	}
	return nil
}

// Resolve writes the closed approval only while the stored row is pending.
func (r *ApprovalRepository) Resolve(ctx context.Context, a *model.DealApproval) error {
	s := a.Snapshot()
	query := `
		UPDATE deal_approvals SET
			status = $2, responder_id = $3, response_notes = $4, responded_at = $5
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.db.Exec(ctx, query, s.ID, s.Status.String(), s.ResponderID, s.ResponseNotes, s.RespondedAt)
	if err != nil {
		return fmt.Errorf("failed to resolve deal approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, s.ID); err != nil {
			return err
		}
		return domainerr.Conflictf("approval %s was already resolved", s.ID)
	}
	return nil
}

// FindByID loads an approval.
func (r *ApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DealApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM deal_approvals WHERE id = $1`

	a, err := scanApproval(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.NotFoundf("approval %s not found", id)
		}
		return nil, fmt.Errorf("failed to find deal approval: %w", err)
	}
	return a, nil
}

// FindPendingByDeal returns the deal's pending approval, or nil if there is none.
func (r *ApprovalRepository) FindPendingByDeal(ctx context.Context, dealID uuid.UUID) (*model.DealApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM deal_approvals WHERE deal_id = $1 AND status = 'pending'`

	a, err := scanApproval(r.db.QueryRow(ctx, query, dealID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pending approval: %w", err)
	}
	return a, nil
}

// ListByDeal returns a deal's approvals in creation order.
func (r *ApprovalRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*model.DealApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM deal_approvals WHERE deal_id = $1 ORDER BY seq`
	return r.list(ctx, query, dealID)
}

// ListPendingByAssignee returns the approvals waiting on one user, oldest first.
func (r *ApprovalRepository) ListPendingByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*model.DealApproval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM deal_approvals
		WHERE assignee_id = $1 AND status = 'pending'
		ORDER BY seq`
	return r.list(ctx, query, assigneeID)
}

func (r *ApprovalRepository) list(ctx context.Context, query string, args ...any) ([]*model.DealApproval, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal approvals: %w", err)
	}
	defer rows.Close()

	var out []*model.DealApproval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal approval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApproval(row pgx.Row) (*model.DealApproval, error) {
	var (
		s      model.DealApprovalSnapshot
		status string
	)
	err := row.Scan(&s.ID, &s.DealID, &s.RequesterID, &s.AssigneeID, &s.ResponderID, &status,
		&s.Level, &s.RequestNotes, &s.ResponseNotes, &s.RequestedAt, &s.RespondedAt)
	if err != nil {
		return nil, err
	}
	if s.Status, err = valueobject.NewApprovalStatus(status); err != nil {
		return nil, fmt.Errorf("approval %s: %w", s.ID, err)
	}
	s.RequestedAt = s.RequestedAt.UTC()
	s.RespondedAt = utcPtr(s.RespondedAt)
	return model.ReconstructDealApproval(s), nil
}
