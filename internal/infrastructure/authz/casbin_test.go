package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
)

func TestChecker_DefaultPolicy(t *testing.T) {
	c, err := NewChecker(Config{})
	require.NoError(t, err)

	tests := []struct {
		roles      []string
		capability string
		want       bool
	}{
		{[]string{auth.RoleApprover}, port.CapabilityApprove, true},
		{[]string{auth.RoleApprover}, port.CapabilityExecutive, false},
		{[]string{auth.RoleExecutive}, port.CapabilityApprove, true},
		{[]string{auth.RoleExecutive}, port.CapabilityExecutive, true},
		{[]string{auth.RoleExecutive}, port.CapabilityAdminister, false},
		{[]string{auth.RoleAdmin}, port.CapabilityAdminister, true},
		{[]string{auth.RoleAdmin}, port.CapabilityApprove, true},
		{[]string{auth.RoleSalesRep}, port.CapabilityApprove, false},
		{[]string{auth.RoleSalesRep, auth.RoleApprover}, port.CapabilityApprove, true},
		{nil, port.CapabilityApprove, false},
	}
	for _, tt := range tests {
		got, err := c.Allowed(tt.roles, tt.capability)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v -> %s", tt.roles, tt.capability)
	}
}

func TestChecker_MalformedCapability(t *testing.T) {
	c, err := NewChecker(Config{})
	require.NoError(t, err)

	_, err = c.Allowed([]string{auth.RoleAdmin}, "approve")
	assert.Error(t, err)
}

func TestChecker_FromFiles(t *testing.T) {
	dir := t.TempDir()
	modelFile := filepath.Join(dir, "model.conf")
	policyFile := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(modelFile, []byte(rbacModel), 0o600))
	require.NoError(t, os.WriteFile(policyFile, []byte("p, sales_rep, deal, approve\n"), 0o600))

	c, err := NewChecker(Config{ModelFile: modelFile, PolicyFile: policyFile})
	require.NoError(t, err)

	ok, err := c.Allowed([]string{auth.RoleSalesRep}, port.CapabilityApprove)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Allowed([]string{auth.RoleApprover}, port.CapabilityApprove)
	require.NoError(t, err)
	assert.False(t, ok)
}
