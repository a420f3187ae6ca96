package port

import (
	"context"

	"github.com/google/uuid"
)

// Capabilities checked against the acting user's roles.
const (
	CapabilityApprove    = "deal:approve"
	CapabilityExecutive  = "deal:executive"
	CapabilityAdminister = "config:administer"
)

// User is a directory entry.
type User struct {
	ID    uuid.UUID
	Email string
	Roles []string
}

// IdentityDirectory lists the users that may be assigned approvals, in a stable
// order.
type IdentityDirectory interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// CapabilityChecker decides whether any of the roles grants a capability.
type CapabilityChecker interface {
	Allowed(roles []string, capability string) (bool, error)
}

// AnalysisProvider sends a deal summary to an AI model and returns its reply
// verbatim.
type AnalysisProvider interface {
	Analyze(ctx context.Context, dealSummaryJSON string) (string, error)
}

// Metrics records business counters.
type Metrics interface {
	ScoreRecorded(ctx context.Context)
	ApprovalResolved(ctx context.Context, outcome string)
	AutoRouted(ctx context.Context, result string)
	Escalated(ctx context.Context)
}
