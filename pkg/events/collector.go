package events

// EventCollector buffers the domain events an aggregate raises while it changes
// state. Aggregates embed it; repositories drain it into the outbox on save.
type EventCollector struct {
	pending []DomainEvent
}

// Record appends a domain event.
func (c *EventCollector) Record(event DomainEvent) {
	c.pending = append(c.pending, event)
}

// Events returns the buffered events without clearing them.
func (c *EventCollector) Events() []DomainEvent {
	return c.pending
}

// ClearEvents returns the buffered events and empties the buffer.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
