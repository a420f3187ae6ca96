package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
)

type stubDirectory struct {
	users []port.User
	err   error
}

func (s stubDirectory) ListUsers(context.Context) ([]port.User, error) { return s.users, s.err }

type roleChecker map[string][]string

func (c roleChecker) Allowed(roles []string, capability string) (bool, error) {
	for _, r := range roles {
		if slices.Contains(c[r], capability) {
			return true, nil
		}
	}
	return false, nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestAssigneeResolver_Resolve(t *testing.T) {
	rep := port.User{ID: uuid.New(), Roles: []string{"sales_rep"}}
	approver := port.User{ID: uuid.New(), Roles: []string{"approver"}}
	exec := port.User{ID: uuid.New(), Roles: []string{"executive"}}
	checker := roleChecker{
		"approver":  {port.CapabilityApprove},
		"executive": {port.CapabilityApprove, port.CapabilityExecutive},
	}
	r := NewAssigneeResolver(stubDirectory{users: []port.User{rep, approver, exec}}, checker, discard)

	got := r.Resolve(context.Background(), port.CapabilityApprove)
	require.NotNil(t, got)
	assert.Equal(t, approver.ID, *got)

	got = r.Resolve(context.Background(), port.CapabilityExecutive)
	require.NotNil(t, got)
	assert.Equal(t, exec.ID, *got)

	assert.Nil(t, r.Resolve(context.Background(), port.CapabilityAdminister))
}

func TestAssigneeResolver_LookupFailureLeavesUnassigned(t *testing.T) {
	r := NewAssigneeResolver(stubDirectory{err: errors.New("directory down")}, roleChecker{}, discard)
	assert.Nil(t, r.Resolve(context.Background(), port.CapabilityApprove))
}
