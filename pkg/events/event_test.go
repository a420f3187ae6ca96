package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dealTouched struct {
	BaseEvent
	Reason string `json:"reason"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	event := NewBaseEvent("dealdesk.deal.created", aggregateID, "Deal", at)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "dealdesk.deal.created", event.EventType())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Deal", event.AggregateType())
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
	assert.True(t, event.OccurredAt().Equal(at))
}

func TestNewBaseEvent_ZeroTimeDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("x", uuid.New(), "Deal", time.Time{})
	after := time.Now().UTC()

	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
	var _ DomainEvent = dealTouched{}
}

func TestNewOutboxEntry(t *testing.T) {
	aggregateID := uuid.New()
	event := dealTouched{
		BaseEvent: NewBaseEvent("dealdesk.deal.touched", aggregateID, "Deal", time.Now()),
		Reason:    "rescored",
	}

	entry, err := NewOutboxEntry(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), entry.ID)
	assert.Equal(t, aggregateID, entry.AggregateID)
	assert.Equal(t, "Deal", entry.AggregateType)
	assert.Equal(t, "dealdesk.deal.touched", entry.EventType)
	assert.Equal(t, event.OccurredAt(), entry.CreatedAt)
	assert.Nil(t, entry.PublishedAt)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(entry.Payload, &parsed))
	assert.Equal(t, "rescored", parsed["reason"])
	assert.Equal(t, "dealdesk.deal.touched", parsed["event_type"])
	assert.Equal(t, aggregateID.String(), parsed["aggregate_id"])
}

func TestNewOutboxEntries(t *testing.T) {
	id := uuid.New()
	entries, err := NewOutboxEntries([]DomainEvent{
		NewBaseEvent("a", id, "Deal", time.Now()),
		NewBaseEvent("b", id, "Deal", time.Now()),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].EventType)
	assert.Equal(t, "b", entries[1].EventType)
}

func TestEventCollector(t *testing.T) {
	t.Run("records in order", func(t *testing.T) {
		collector := &EventCollector{}
		id := uuid.New()
		collector.Record(NewBaseEvent("Event1", id, "Aggregate", time.Now()))
		collector.Record(NewBaseEvent("Event2", id, "Aggregate", time.Now()))

		evts := collector.Events()
		require.Len(t, evts, 2)
		assert.Equal(t, "Event1", evts[0].EventType())
		assert.Equal(t, "Event2", evts[1].EventType())
	})

	t.Run("Events does not clear", func(t *testing.T) {
		collector := &EventCollector{}
		collector.Record(NewBaseEvent("Event1", uuid.New(), "Aggregate", time.Now()))
		_ = collector.Events()
		assert.Len(t, collector.Events(), 1)
	})

	t.Run("ClearEvents drains", func(t *testing.T) {
		collector := &EventCollector{}
		collector.Record(NewBaseEvent("Event1", uuid.New(), "Aggregate", time.Now()))
		collector.Record(NewBaseEvent("Event2", uuid.New(), "Aggregate", time.Now()))

		cleared := collector.ClearEvents()
		assert.Len(t, cleared, 2)
		assert.Empty(t, collector.Events())
	})

	t.Run("ClearEvents on empty returns nil", func(t *testing.T) {
		collector := &EventCollector{}
		assert.Nil(t, collector.ClearEvents())
	})
}
