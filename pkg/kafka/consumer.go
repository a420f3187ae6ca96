package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed message. A nil or Permanent error commits the
// offset. Any other error is retried in place until the handler succeeds or
// the consumer is stopped, so one partition never skips past a message it
// could not apply.
type Handler func(ctx context.Context, msg Message) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivery cannot fix. The consumer logs
// and commits such messages.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// DecodeJSON adapts a typed handler. Payloads that do not decode into T are
// permanent failures.
func DecodeJSON[T any](fn func(ctx context.Context, payload T, msg Message) error) Handler {
	return func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return Permanent(fmt.Errorf("decode payload: %w", err))
		}
		return fn(ctx, payload, msg)
	}
}

// RetryPolicy bounds the backoff between attempts on a failing message.
type RetryPolicy struct {
	Initial time.Duration
	Max     time.Duration
}

var defaultRetry = RetryPolicy{Initial: 500 * time.Millisecond, Max: 30 * time.Second}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads one topic as a member of a consumer group and commits each
// message once its handler has settled it.
type Consumer struct {
	reader  messageReader
	topic   string
	group   string
	handler Handler
	retry   RetryPolicy
	logger  *slog.Logger
}

// NewConsumer creates a Consumer for topic using cfg's brokers, group and security.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}
	if cfg.TLS || cfg.SASLEnabled {
		mechanism, err := saslMechanism(cfg)
		if err != nil {
			return nil, err
		}
		readerCfg.Dialer = &kafkago.Dialer{TLS: tlsConfig(cfg), SASLMechanism: mechanism}
	}
	return newConsumer(kafkago.NewReader(readerCfg), topic, cfg.ConsumerGroup, handler, logger), nil
}

func newConsumer(r messageReader, topic, group string, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   topic,
		group:   group,
		handler: handler,
		retry:   defaultRetry,
		logger:  logger.With("topic", topic, "group", group),
	}
}

// Start consumes until ctx is canceled, which is reported as a clean stop.
// A fetch failure ends the loop with an error.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting")

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.settle(ctx, m); err != nil {
			c.logger.Info("consumer stopping with message unsettled", "partition", m.Partition, "offset", m.Offset)
			return nil
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("commit failed", "partition", m.Partition, "offset", m.Offset, "error", err)
		}
	}
}

// settle runs the handler until it succeeds or fails permanently. It returns
// an error only when ctx ends first.
func (c *Consumer) settle(ctx context.Context, m kafkago.Message) error {
	msg := toMessage(m)
	delay := c.retry.Initial
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, msg)
		switch {
		case err == nil:
			return nil
		case IsPermanent(err):
			c.logger.Warn("dropping message",
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
			return nil
		}

		c.logger.Error("handler failed",
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, c.retry.Max)
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func toMessage(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
