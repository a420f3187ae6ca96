package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// DealFilter narrows ListDeals. Zero values mean "any".
type DealFilter struct {
	OwnerID *uuid.UUID
	Status  *valueobject.DealStatus
	Limit   int
}

// DealRepository persists deals. Update succeeds only if the stored version
// still equals the loaded one and reports domainerr.ErrConflict otherwise.
type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal) error
	Update(ctx context.Context, deal *model.Deal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deal, error)
	List(ctx context.Context, filter DealFilter) ([]*model.Deal, error)
}

// AttributeRepository persists scoring attributes.
type AttributeRepository interface {
	Create(ctx context.Context, attr *model.ScoringAttribute) error
	Update(ctx context.Context, attr *model.ScoringAttribute) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ScoringAttribute, error)
	List(ctx context.Context, activeOnly bool) ([]*model.ScoringAttribute, error)
}

// ScoreRepository persists per-attribute deal scores keyed by (deal, attribute).
type ScoreRepository interface {
	Upsert(ctx context.Context, score model.DealScore) error
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]model.DealScore, error)
}

// SegmentRepository persists deal segments.
type SegmentRepository interface {
	Create(ctx context.Context, seg *model.DealSegment) error
	Update(ctx context.Context, seg *model.DealSegment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DealSegment, error)
	List(ctx context.Context, activeOnly bool) ([]*model.DealSegment, error)
}

// ApprovalRepository persists approvals. Resolve writes the closed approval only
// if the stored row is still pending and reports domainerr.ErrConflict
// otherwise. Create reports domainerr.ErrConflict when the deal already has a
// pending approval.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *model.DealApproval) error
	Resolve(ctx context.Context, approval *model.DealApproval) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DealApproval, error)
	// FindPendingByDeal returns nil, nil when the deal has no pending approval.
	FindPendingByDeal(ctx context.Context, dealID uuid.UUID) (*model.DealApproval, error)
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*model.DealApproval, error)
	ListPendingByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*model.DealApproval, error)
}

// ThresholdRepository persists the singleton scoring threshold. Get returns
// nil, nil when none has been configured.
type ThresholdRepository interface {
	Get(ctx context.Context) (*model.ScoringThreshold, error)
	Save(ctx context.Context, threshold model.ScoringThreshold) error
}

// NoteRepository is the append-only deal audit log.
type NoteRepository interface {
	Append(ctx context.Context, notes ...model.DealNote) error
	ListByDeal(ctx context.Context, dealID uuid.UUID) ([]model.DealNote, error)
}

// Repositories groups the repositories that share one transaction.
type Repositories struct {
	Deals      DealRepository
	Attributes AttributeRepository
	Scores     ScoreRepository
	Segments   SegmentRepository
	Approvals  ApprovalRepository
	Thresholds ThresholdRepository
	Notes      NoteRepository
	Outbox     events.OutboxRepository
}

// Store is the unit of work over all repositories.
type Store interface {
	// Repositories returns repositories that autocommit each call.
	Repositories() Repositories
	// WithinTx runs fn against one consistent snapshot. Every write fn makes is
	// committed if fn returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}
