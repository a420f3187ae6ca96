// Package adapter holds the outbound adapters that are not storage: the AI
// analysis provider and the static identity directory.
package adapter

import (
	"context"
	"slices"
	"strings"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
)

// StaticDirectory is a fixed user list, used with the in-memory store.
type StaticDirectory struct {
	users []port.User
}

// NewStaticDirectory copies users and orders them by email for stable
// assignment.
func NewStaticDirectory(users ...port.User) *StaticDirectory {
	sorted := slices.Clone(users)
	slices.SortStableFunc(sorted, func(a, b port.User) int { return strings.Compare(a.Email, b.Email) })
	return &StaticDirectory{users: sorted}
}

func (d *StaticDirectory) ListUsers(context.Context) ([]port.User, error) {
	return slices.Clone(d.users), nil
}
