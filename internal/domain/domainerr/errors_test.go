package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapTheirKind(t *testing.T) {
	tests := []struct {
		err  error
		kind error
		msg  string
	}{
		{Validationf("weight %d out of range", 120), ErrValidation, "validation failed: weight 120 out of range"},
		{Preconditionf("deal %s is unscored", "d1"), ErrPreconditionFailed, "precondition failed: deal d1 is unscored"},
		{Conflictf("approval already resolved"), ErrConflict, "conflict: approval already resolved"},
		{Configurationf("scoring thresholds are not configured"), ErrConfiguration, "configuration error: scoring thresholds are not configured"},
		{NotFoundf("deal %s", "d2"), ErrNotFound, "not found: deal d2"},
		{Forbiddenf("user may not approve"), ErrForbidden, "forbidden: user may not approve"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.EqualError(t, tt.err, tt.msg)
			assert.Equal(t, tt.kind, Kind(tt.err))
		})
	}
}

func TestKind_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("respond to approval: %w", Conflictf("stale"))
	assert.Equal(t, ErrConflict, Kind(err))
}

func TestKind_UnknownError(t *testing.T) {
	assert.Nil(t, Kind(errors.New("dial tcp: connection refused")))
	assert.Nil(t, Kind(nil))
}
