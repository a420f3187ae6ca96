package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

var tracer = otel.Tracer("github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/usecase")

// eventSource is an aggregate that buffers domain events.
type eventSource interface {
	ClearEvents() []events.DomainEvent
}

// stageEvents drains the aggregates' events into the outbox of the current
// transaction.
func stageEvents(ctx context.Context, outbox events.OutboxRepository, sources ...eventSource) error {
	var pending []events.DomainEvent
	for _, s := range sources {
		pending = append(pending, s.ClearEvents()...)
	}
	if len(pending) == 0 {
		return nil
	}
	entries, err := events.NewOutboxEntries(pending)
	if err != nil {
		return fmt.Errorf("build outbox entries: %w", err)
	}
	if err := outbox.Store(ctx, entries); err != nil {
		return fmt.Errorf("store outbox entries: %w", err)
	}
	return nil
}

// requireCapability fails with domainerr.ErrForbidden unless one of the actor's
// roles grants capability.
func requireCapability(checker port.CapabilityChecker, actor dto.Actor, capability string) error {
	ok, err := checker.Allowed(actor.Roles, capability)
	if err != nil {
		return fmt.Errorf("check capability %s: %w", capability, err)
	}
	if !ok {
		return domainerr.Forbiddenf("capability %s required", capability)
	}
	return nil
}

// authorOf maps the actor onto a note author; the system authors with nil.
func authorOf(actor dto.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func statusNote(deal *model.Deal, actor dto.Actor, from valueobject.DealStatus, content string, extra map[string]any, now time.Time) (model.DealNote, error) {
	meta := map[string]any{"from": from.String(), "to": deal.Status().String()}
	for k, v := range extra {
		meta[k] = v
	}
	return model.NewDealNote(deal.ID(), authorOf(actor), valueobject.NoteTypeStatusChange, content, meta, now)
}
