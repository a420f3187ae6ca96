package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newDeal(t *testing.T) *model.Deal {
	t.Helper()
	d, err := model.NewDeal(model.DealParams{
		OwnerID: uuid.New(),
		Name:    "Globex expansion",
		Value:   decimal.NewFromInt(25000),
	}, now)
	require.NoError(t, err)
	return d
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := newDeal(t)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(r port.Repositories) error {
		require.NoError(t, r.Deals.Create(ctx, d))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Repositories().Deals.FindByID(ctx, d.ID())
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestStore_WithinTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	d := newDeal(t)

	err := s.WithinTx(ctx, func(r port.Repositories) error {
		return r.Deals.Create(ctx, d)
	})
	require.NoError(t, err)

	got, err := s.Repositories().Deals.FindByID(ctx, d.ID())
	require.NoError(t, err)
	assert.Equal(t, d.Snapshot(), got.Snapshot())
}

func TestDealRepo_UpdateIsConditionalOnVersion(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	d := newDeal(t)
	require.NoError(t, repos.Deals.Create(ctx, d))

	first, err := repos.Deals.FindByID(ctx, d.ID())
	require.NoError(t, err)
	second, err := repos.Deals.FindByID(ctx, d.ID())
	require.NoError(t, err)

	_, err = first.StartScoring(now)
	require.NoError(t, err)
	require.NoError(t, repos.Deals.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	_, err = second.StartScoring(now)
	require.NoError(t, err)
	err = repos.Deals.Update(ctx, second)
	assert.ErrorIs(t, err, domainerr.ErrConflict)
}

func TestApprovalRepo_OnePendingPerDeal(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	dealID := uuid.New()

	first, err := model.NewDealApproval(dealID, uuid.New(), nil, 1, "", now)
	require.NoError(t, err)
	require.NoError(t, repos.Approvals.Create(ctx, first))

	second, err := model.NewDealApproval(dealID, uuid.New(), nil, 1, "", now)
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Approvals.Create(ctx, second), domainerr.ErrConflict)

	pending, err := repos.Approvals.FindPendingByDeal(ctx, dealID)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), pending.ID())

	none, err := repos.Approvals.FindPendingByDeal(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestApprovalRepo_ResolveIsConditional(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	a, err := model.NewDealApproval(uuid.New(), uuid.New(), nil, 1, "", now)
	require.NoError(t, err)
	require.NoError(t, repos.Approvals.Create(ctx, a))

	x, err := repos.Approvals.FindByID(ctx, a.ID())
	require.NoError(t, err)
	y, err := repos.Approvals.FindByID(ctx, a.ID())
	require.NoError(t, err)

	require.NoError(t, x.Respond(uuid.New(), true, "", now))
	require.NoError(t, y.Respond(uuid.New(), false, "", now))

	require.NoError(t, repos.Approvals.Resolve(ctx, x))
	assert.ErrorIs(t, repos.Approvals.Resolve(ctx, y), domainerr.ErrConflict)

	stored, err := repos.Approvals.FindByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApprovalStatusApproved, stored.Status())
}

func TestScoreRepo_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	dealID, attrID := uuid.New(), uuid.New()

	require.NoError(t, repos.Scores.Upsert(ctx, model.DealScore{DealID: dealID, AttributeID: attrID, NormalizedScore: 10}))
	require.NoError(t, repos.Scores.Upsert(ctx, model.DealScore{DealID: dealID, AttributeID: attrID, NormalizedScore: 90}))

	scores, err := repos.Scores.ListByDeal(ctx, dealID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 90.0, scores[0].NormalizedScore)
}

func TestOutboxRepo_FetchAndMark(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	d := newDeal(t)

	entries, err := events.NewOutboxEntries(d.ClearEvents())
	require.NoError(t, err)
	require.NoError(t, repos.Outbox.Store(ctx, entries))

	pending, err := repos.Outbox.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dealdesk.deal.created", pending[0].EventType)

	require.NoError(t, repos.Outbox.MarkPublished(ctx, []uuid.UUID{pending[0].ID}))
	pending, err = repos.Outbox.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_WithinTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewStore().WithinTx(ctx, func(port.Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
