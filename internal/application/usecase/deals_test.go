package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
)

func TestCreateDeal_Execute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.createDeal.Execute(ctx, dto.CreateDealRequest{
		Actor: f.rep, Name: "Hooli", Value: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, f.rep.UserID, resp.OwnerID)
	assert.Equal(t, "draft", resp.Status)
	assert.Nil(t, resp.Classification)
	assert.Nil(t, resp.TotalScore)

	_, err = f.createDeal.Execute(ctx, dto.CreateDealRequest{Actor: f.rep, Name: "", Value: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domainerr.ErrValidation)
}

func TestListDeals_Filters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scored := f.scoredDeal(t)
	f.addDeal(t, 100)

	other := f.rep
	other.UserID = uuid.New()
	_, err := f.createDeal.Execute(ctx, dto.CreateDealRequest{Actor: other, Name: "Other", Value: decimal.NewFromInt(1)})
	require.NoError(t, err)

	mine, err := f.listDeals.Execute(ctx, dto.ListDealsRequest{OwnerID: &f.rep.UserID})
	require.NoError(t, err)
	assert.Len(t, mine.Deals, 2)

	pending, err := f.listDeals.Execute(ctx, dto.ListDealsRequest{Status: "pending_score"})
	require.NoError(t, err)
	require.Len(t, pending.Deals, 1)
	assert.Equal(t, scored, pending.Deals[0].ID)

	_, err = f.listDeals.Execute(ctx, dto.ListDealsRequest{Status: "sideways"})
	assert.ErrorIs(t, err, domainerr.ErrValidation)
}

func TestCloseDeal_Execute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deal := f.scoredDeal(t)

	_, err := f.closeDeal.Execute(ctx, dto.CloseDealRequest{DealID: deal, Won: true})
	assert.ErrorIs(t, err, domainerr.ErrPreconditionFailed, "unresolved deals cannot close")

	a, err := f.request.Execute(ctx, dto.RequestApprovalRequest{Actor: f.rep, DealID: deal})
	require.NoError(t, err)
	_, err = f.respond.Execute(ctx, dto.RespondApprovalRequest{Actor: f.approver, ApprovalID: a.ID, Approved: false})
	require.NoError(t, err)

	closed, err := f.closeDeal.Execute(ctx, dto.CloseDealRequest{Actor: f.rep, DealID: deal, Won: false})
	require.NoError(t, err)
	assert.Equal(t, "closed_lost", closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = f.closeDeal.Execute(ctx, dto.CloseDealRequest{DealID: deal, Won: true})
	assert.ErrorIs(t, err, domainerr.ErrPreconditionFailed, "closed deals are terminal")

	_, err = f.record.Execute(ctx, dto.RecordScoreRequest{Actor: f.rep, DealID: deal, AttributeID: uuid.New(), RawValue: 1})
	assert.ErrorIs(t, err, domainerr.ErrPreconditionFailed)
}
