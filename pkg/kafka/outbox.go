package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

// Outbox message headers.
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
)

// Publisher is the subset of Producer used to deliver outbox entries.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...Message) error
}

// EventPublisher delivers outbox entries to one topic, keyed by aggregate id.
type EventPublisher struct {
	publisher Publisher
	topic     string
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(publisher Publisher, topic string) *EventPublisher {
	return &EventPublisher{publisher: publisher, topic: topic}
}

// PublishEntries implements events.EntryPublisher.
func (p *EventPublisher) PublishEntries(ctx context.Context, entries ...events.OutboxEntry) error {
	msgs := make([]Message, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, Message{
			Key:   []byte(e.AggregateID.String()),
			Value: e.Payload,
			Headers: map[string]string{
				HeaderEventType:     e.EventType,
				HeaderEventID:       e.ID.String(),
				HeaderAggregateType: e.AggregateType,
			},
		})
	}
	return p.publisher.Publish(ctx, p.topic, msgs...)
}

// OutboxTxRunner runs fn against an outbox repository inside one transaction,
// so fetched rows stay locked until they are marked published.
type OutboxTxRunner func(ctx context.Context, fn func(events.OutboxRepository) error) error

// RelayConfig tunes the outbox relay.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// OutboxRelay polls the outbox and publishes unpublished entries.
// Delivery is at least once: a crash between publish and commit republishes
// the batch.
type OutboxRelay struct {
	runTx     OutboxTxRunner
	publisher events.EntryPublisher
	cfg       RelayConfig
	logger    *slog.Logger
}

// NewOutboxRelay creates a new OutboxRelay.
func NewOutboxRelay(runTx OutboxTxRunner, publisher events.EntryPublisher, cfg RelayConfig, logger *slog.Logger) *OutboxRelay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &OutboxRelay{runTx: runTx, publisher: publisher, cfg: cfg, logger: logger}
}

// Start polls until ctx is canceled. Failed batches are logged and retried on
// the next tick.
func (r *OutboxRelay) Start(ctx context.Context) error {
	r.logger.Info("outbox relay starting", "interval", r.cfg.PollInterval, "batch_size", r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
			for {
				n, err := r.RelayOnce(ctx)
				if err != nil {
					r.logger.Error("outbox relay batch failed", "error", err)
					break
				}
				if n < r.cfg.BatchSize {
					break
				}
			}
		}
	}
}

// RelayOnce publishes one batch and reports how many entries it delivered.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	var published int
	err := r.runTx(ctx, func(outbox events.OutboxRepository) error {
		entries, err := outbox.FetchUnpublished(ctx, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch unpublished: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := r.publisher.PublishEntries(ctx, entries...); err != nil {
			return fmt.Errorf("publish entries: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if err := outbox.MarkPublished(ctx, ids); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}
		published = len(entries)
		return nil
	})
	return published, err
}
