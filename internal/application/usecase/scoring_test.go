package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
)

func TestRecordScore_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("rollup excludes unscored attributes", func(t *testing.T) {
		f := newFixture(t)
		f.setThreshold(t, 70, 40)
		a := f.addAttribute(t, "A", 50, 0, 100, true)
		f.addAttribute(t, "B", 50, 0, 100, true)
		deal := f.addDeal(t, 1000)

		resp := f.score(t, deal, a, 80)
		assert.Equal(t, 80.0, resp.Score.NormalizedScore)
		require.NotNil(t, resp.Deal.TotalScore)
		assert.Equal(t, 80.0, *resp.Deal.TotalScore)
		require.NotNil(t, resp.Deal.Classification)
		assert.Equal(t, "green", *resp.Deal.Classification)
		assert.Equal(t, "pending_score", resp.Deal.Status)
	})

	t.Run("rescoring an attribute replaces the previous score", func(t *testing.T) {
		f := newFixture(t)
		f.setThreshold(t, 70, 40)
		a := f.addAttribute(t, "A", 50, 0, 100, true)
		deal := f.addDeal(t, 1000)

		f.score(t, deal, a, 90)
		resp := f.score(t, deal, a, 30)

		assert.Len(t, resp.Deal.Scores, 1)
		assert.Equal(t, 30.0, *resp.Deal.TotalScore)
		assert.Equal(t, "red", *resp.Deal.Classification)
	})

	t.Run("missing threshold writes nothing", func(t *testing.T) {
		f := newFixture(t)
		a := f.addAttribute(t, "A", 50, 0, 100, true)
		deal := f.addDeal(t, 1000)

		_, err := f.record.Execute(ctx, dto.RecordScoreRequest{Actor: f.rep, DealID: deal, AttributeID: a, RawValue: 70})
		assert.ErrorIs(t, err, domainerr.ErrConfiguration)

		got, err := f.getDeal.Execute(ctx, dto.GetDealRequest{DealID: deal})
		require.NoError(t, err)
		assert.Equal(t, "draft", got.Status)
		assert.Empty(t, got.Scores)
		assert.Nil(t, got.TotalScore)

		notes, err := f.history.ListNotes(ctx, dto.GetDealRequest{DealID: deal})
		require.NoError(t, err)
		assert.Empty(t, notes.Notes)
	})

	t.Run("inactive attribute is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.setThreshold(t, 70, 40)
		a := f.addAttribute(t, "A", 50, 0, 100, true)
		_, err := f.attributes.Deactivate(ctx, dto.DeactivateScoringAttributeRequest{Actor: f.admin, AttributeID: a})
		require.NoError(t, err)
		deal := f.addDeal(t, 1000)

		_, err = f.record.Execute(ctx, dto.RecordScoreRequest{Actor: f.rep, DealID: deal, AttributeID: a, RawValue: 70})
		assert.ErrorIs(t, err, domainerr.ErrPreconditionFailed)
	})

	t.Run("unknown deal", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.record.Execute(ctx, dto.RecordScoreRequest{Actor: f.rep, DealID: uuid.New(), AttributeID: uuid.New()})
		assert.ErrorIs(t, err, domainerr.ErrNotFound)
	})

	t.Run("notes record scoring start and score update", func(t *testing.T) {
		f := newFixture(t)
		deal := f.scoredDeal(t)

		notes, err := f.history.ListNotes(ctx, dto.GetDealRequest{DealID: deal})
		require.NoError(t, err)
		require.Len(t, notes.Notes, 2)
		assert.Equal(t, "status_change", notes.Notes[0].NoteType)
		assert.Equal(t, "score_update", notes.Notes[1].NoteType)
		assert.Equal(t, f.rep.UserID, *notes.Notes[1].AuthorID)
	})
}

func TestRecomputeDealScore_AfterWeightChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setThreshold(t, 70, 40)
	a := f.addAttribute(t, "A", 50, 0, 100, true)
	b := f.addAttribute(t, "B", 50, 0, 100, true)
	deal := f.addDeal(t, 1000)
	f.score(t, deal, a, 100)
	resp := f.score(t, deal, b, 0)
	assert.Equal(t, 50.0, *resp.Deal.TotalScore)

	_, err := f.attributes.Deactivate(ctx, dto.DeactivateScoringAttributeRequest{Actor: f.admin, AttributeID: b})
	require.NoError(t, err)

	unchanged, err := f.getDeal.Execute(ctx, dto.GetDealRequest{DealID: deal})
	require.NoError(t, err)
	assert.Equal(t, 50.0, *unchanged.TotalScore, "deactivation does not rescore")

	got, err := f.recompute.Execute(ctx, dto.DealRequest{Actor: f.admin, DealID: deal})
	require.NoError(t, err)
	assert.Equal(t, 100.0, *got.TotalScore)
	assert.Equal(t, "green", *got.Classification)
}

func TestScoringAdministration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("requires administer capability", func(t *testing.T) {
		_, err := f.attributes.Create(ctx, dto.ScoringAttributeRequest{
			Actor: f.rep, Name: "X", Category: "risk", Weight: 10, MaxValue: 1,
		})
		assert.ErrorIs(t, err, domainerr.ErrForbidden)

		_, err = f.thresholds.Set(ctx, dto.SetScoringThresholdRequest{Actor: f.approver, GreenMin: 70, YellowMin: 40})
		assert.ErrorIs(t, err, domainerr.ErrForbidden)
	})

	t.Run("validates attributes", func(t *testing.T) {
		_, err := f.attributes.Create(ctx, dto.ScoringAttributeRequest{
			Actor: f.admin, Name: "X", Category: "risk", Weight: 120, MaxValue: 1,
		})
		assert.ErrorIs(t, err, domainerr.ErrValidation)

		_, err = f.attributes.Create(ctx, dto.ScoringAttributeRequest{
			Actor: f.admin, Name: "X", Category: "vibes", Weight: 10, MaxValue: 1,
		})
		assert.ErrorIs(t, err, domainerr.ErrValidation)
	})

	t.Run("threshold round trip", func(t *testing.T) {
		_, err := f.thresholds.Get(ctx)
		assert.ErrorIs(t, err, domainerr.ErrNotFound)

		_, err = f.thresholds.Set(ctx, dto.SetScoringThresholdRequest{Actor: f.admin, GreenMin: 40, YellowMin: 70})
		assert.ErrorIs(t, err, domainerr.ErrValidation)

		f.setThreshold(t, 75, 45)
		got, err := f.thresholds.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 75.0, got.GreenMin)
		assert.Equal(t, f.admin.UserID, got.UpdatedBy)
	})

	t.Run("update and list attributes", func(t *testing.T) {
		id := f.addAttribute(t, "Zeta", 10, 0, 10, true)
		updated, err := f.attributes.Update(ctx, dto.ScoringAttributeRequest{
			Actor: f.admin, AttributeID: id, Name: "Alpha", Category: "customer", Weight: 20, MinValue: 0, MaxValue: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "customer", updated.Category)

		list, err := f.attributes.List(ctx, dto.ListScoringAttributesRequest{ActiveOnly: true})
		require.NoError(t, err)
		require.NotEmpty(t, list.Attributes)
		assert.Equal(t, "Alpha", list.Attributes[0].Name)
	})
}

func TestRecomputeDealScore_PendingApprovalCannotBeUnclassified(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setThreshold(t, 70, 40)
	a := f.addAttribute(t, "A", 50, 0, 100, true)
	deal := f.addDeal(t, 1000)
	f.score(t, deal, a, 80)
	approval, err := f.request.Execute(ctx, dto.RequestApprovalRequest{Actor: f.rep, DealID: deal})
	require.NoError(t, err)

	_, err = f.attributes.Deactivate(ctx, dto.DeactivateScoringAttributeRequest{Actor: f.admin, AttributeID: a})
	require.NoError(t, err)

	_, err = f.recompute.Execute(ctx, dto.DealRequest{Actor: f.admin, DealID: deal})
	assert.ErrorIs(t, err, domainerr.ErrPreconditionFailed)

	got, err := f.getDeal.Execute(ctx, dto.GetDealRequest{DealID: deal})
	require.NoError(t, err)
	assert.Equal(t, "pending_approval", got.Status)
	require.NotNil(t, got.Classification)
	assert.Equal(t, "green", *got.Classification)
	require.NotNil(t, got.TotalScore)
	assert.Equal(t, 80.0, *got.TotalScore)

	resp, err := f.respond.Execute(ctx, dto.RespondApprovalRequest{Actor: f.approver, ApprovalID: approval.ID, Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
}
