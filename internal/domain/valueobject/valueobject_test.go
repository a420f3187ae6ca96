package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDealStatus(t *testing.T) {
	for _, raw := range []string{"draft", "pending_score", "pending_approval", "approved", "rejected", "closed_won", "closed_lost"} {
		t.Run(raw, func(t *testing.T) {
			s, err := NewDealStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, s.String())
		})
	}

	_, err := NewDealStatus("won")
	assert.Error(t, err)
}

func TestDealStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to DealStatus
		allowed  bool
	}{
		{DealStatusDraft, DealStatusPendingScore, true},
		{DealStatusDraft, DealStatusPendingApproval, false},
		{DealStatusPendingScore, DealStatusPendingApproval, true},
		{DealStatusPendingScore, DealStatusApproved, true},
		{DealStatusPendingScore, DealStatusRejected, false},
		{DealStatusPendingApproval, DealStatusApproved, true},
		{DealStatusPendingApproval, DealStatusRejected, true},
		{DealStatusApproved, DealStatusClosedWon, true},
		{DealStatusRejected, DealStatusClosedLost, true},
		{DealStatusApproved, DealStatusPendingApproval, false},
		{DealStatusClosedWon, DealStatusClosedLost, false},
		{DealStatusClosedLost, DealStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDealStatus_Predicates(t *testing.T) {
	assert.True(t, DealStatusClosedWon.IsTerminal())
	assert.True(t, DealStatusClosedLost.IsTerminal())
	assert.False(t, DealStatusApproved.IsTerminal())

	assert.True(t, DealStatusDraft.AcceptsScores())
	assert.True(t, DealStatusPendingApproval.AcceptsScores())
	assert.False(t, DealStatusApproved.AcceptsScores())
	assert.False(t, DealStatusClosedWon.AcceptsScores())
	assert.True(t, DealStatus{}.IsZero())
}

func TestClassificationFromScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected Classification
	}{
		{100, ClassificationGreen},
		{70, ClassificationGreen},
		{69.9, ClassificationYellow},
		{40, ClassificationYellow},
		{39.9, ClassificationRed},
		{0, ClassificationRed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassificationFromScore(tt.score, 70, 40), "score %v", tt.score)
	}
}

func TestNewClassification(t *testing.T) {
	c, err := NewClassification("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	c, err = NewClassification("yellow")
	require.NoError(t, err)
	assert.True(t, c.Equal(ClassificationYellow))

	_, err = NewClassification("amber")
	assert.Error(t, err)
}

func TestParsers(t *testing.T) {
	cat, err := NewAttributeCategory("risk")
	require.NoError(t, err)
	assert.Equal(t, AttributeCategoryRisk, cat)
	_, err = NewAttributeCategory("legal")
	assert.Error(t, err)

	tm, err := NewTouchModel("mid_touch")
	require.NoError(t, err)
	assert.Equal(t, TouchModelMidTouch, tm)
	_, err = NewTouchModel("full_touch")
	assert.Error(t, err)

	st, err := NewApprovalStatus("escalated")
	require.NoError(t, err)
	assert.False(t, st.IsPending())
	assert.True(t, ApprovalStatusPending.IsPending())
	_, err = NewApprovalStatus("cancelled")
	assert.Error(t, err)

	nt, err := NewNoteType("score_update")
	require.NoError(t, err)
	assert.Equal(t, NoteTypeScoreUpdate, nt)
	_, err = NewNoteType("comment")
	assert.Error(t, err)
}
