package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertErrorIs checks that err wraps target, typically a domainerr sentinel.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if assert.Error(t, err) {
		assert.ErrorIs(t, err, target)
	}
}
