package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

func TestDealApproval_Respond(t *testing.T) {
	a, err := NewDealApproval(uuid.New(), uuid.New(), nil, 1, "please review", testNow)
	require.NoError(t, err)
	assert.True(t, a.Status().IsPending())

	responder := uuid.New()
	require.NoError(t, a.Respond(responder, false, "discount too deep", testNow))
	assert.Equal(t, valueobject.ApprovalStatusRejected, a.Status())
	assert.Equal(t, responder, *a.ResponderID())
	assert.Equal(t, "discount too deep", a.ResponseNotes())
	require.NotNil(t, a.RespondedAt())

	err = a.Respond(responder, true, "", testNow)
	assert.ErrorIs(t, err, domainerr.ErrConflict)
}

func TestDealApproval_Escalate(t *testing.T) {
	exec := uuid.New()
	a, err := NewDealApproval(uuid.New(), uuid.New(), nil, 1, "", testNow)
	require.NoError(t, err)

	next, err := a.Escalate(uuid.New(), &exec, "needs VP", testNow)
	require.NoError(t, err)

	assert.Equal(t, valueobject.ApprovalStatusEscalated, a.Status())
	assert.Equal(t, 2, next.Level())
	assert.True(t, next.Status().IsPending())
	assert.Equal(t, exec, *next.AssigneeID())
	assert.Equal(t, a.DealID(), next.DealID())

	_, err = a.Escalate(uuid.New(), nil, "", testNow)
	assert.ErrorIs(t, err, domainerr.ErrConflict)
}

func TestDealApproval_AutoResolve(t *testing.T) {
	a, err := NewDealApproval(uuid.New(), uuid.New(), nil, 1, "", testNow)
	require.NoError(t, err)

	require.NoError(t, a.AutoResolve("auto-approved", testNow))
	assert.Equal(t, valueobject.ApprovalStatusApproved, a.Status())
	assert.Nil(t, a.ResponderID())
}

func TestNewDealApproval_Validation(t *testing.T) {
	_, err := NewDealApproval(uuid.Nil, uuid.New(), nil, 1, "", testNow)
	assert.ErrorIs(t, err, domainerr.ErrValidation)

	_, err = NewDealApproval(uuid.New(), uuid.New(), nil, 0, "", testNow)
	assert.ErrorIs(t, err, domainerr.ErrValidation)
}
