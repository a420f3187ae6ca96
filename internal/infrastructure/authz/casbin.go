// Package authz maps user roles onto deal desk capabilities with a casbin RBAC
// enforcer.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// defaultPolicies grants approve to approvers, executive review to executives
// (who also inherit approve) and administration to admins (who inherit
// everything).
var (
	defaultPolicies = [][]string{
		{auth.RoleApprover, "deal", "approve"},
		{auth.RoleExecutive, "deal", "executive"},
		{auth.RoleAdmin, "config", "administer"},
	}
	defaultGroupings = [][]string{
		{auth.RoleExecutive, auth.RoleApprover},
		{auth.RoleAdmin, auth.RoleExecutive},
	}
)

// Config points at optional model and policy files. When ModelFile is empty the
// built-in model and default policy are used.
type Config struct {
	ModelFile  string
	PolicyFile string
}

// Checker implements port.CapabilityChecker.
type Checker struct {
	enforcer *casbin.SyncedEnforcer
}

// NewChecker builds the enforcer from files or from the built-in defaults.
func NewChecker(cfg Config) (*Checker, error) {
	if cfg.ModelFile != "" {
		e, err := casbin.NewSyncedEnforcer(cfg.ModelFile, cfg.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("load casbin enforcer: %w", err)
		}
		return &Checker{enforcer: e}, nil
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	for _, g := range defaultGroupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add grouping %v: %w", g, err)
		}
	}
	return &Checker{enforcer: e}, nil
}

// Allowed reports whether any role grants capability, written "object:action".
func (c *Checker) Allowed(roles []string, capability string) (bool, error) {
	obj, act, ok := strings.Cut(capability, ":")
	if !ok {
		return false, fmt.Errorf("malformed capability %q", capability)
	}
	for _, role := range roles {
		allowed, err := c.enforcer.Enforce(role, obj, act)
		if err != nil {
			return false, fmt.Errorf("enforce %s for %s: %w", capability, role, err)
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}
