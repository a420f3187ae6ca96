package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
)

// AssigneeResolver finds a user to own an approval.
type AssigneeResolver struct {
	directory port.IdentityDirectory
	checker   port.CapabilityChecker
	logger    *slog.Logger
}

// NewAssigneeResolver creates a new AssigneeResolver.
func NewAssigneeResolver(directory port.IdentityDirectory, checker port.CapabilityChecker, logger *slog.Logger) *AssigneeResolver {
	return &AssigneeResolver{directory: directory, checker: checker, logger: logger}
}

// Resolve returns the first directory user whose roles grant capability, or
// nil. Lookup failures leave the approval unassigned rather than failing the
// request.
func (r *AssigneeResolver) Resolve(ctx context.Context, capability string) *uuid.UUID {
	users, err := r.directory.ListUsers(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "identity lookup failed, leaving approval unassigned",
			"capability", capability, "error", err)
		return nil
	}

	for _, u := range users {
		ok, err := r.checker.Allowed(u.Roles, capability)
		if err != nil {
			r.logger.WarnContext(ctx, "capability check failed, leaving approval unassigned",
				"capability", capability, "user_id", u.ID, "error", err)
			return nil
		}
		if ok {
			id := u.ID
			return &id
		}
	}

	r.logger.WarnContext(ctx, "no user holds capability, leaving approval unassigned", "capability", capability)
	return nil
}
