//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/testutil"
)

func TestOutboxRelay_DeliversToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const topic = "dealdesk.events"
	kc := testutil.NewKafkaContainer(ctx, t, topic)

	producer, err := NewProducer(Config{Brokers: kc.Brokers})
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	e := entry("dealdesk.deal.closed")
	outbox := &fakeOutbox{entries: []events.OutboxEntry{e}}
	relay := NewOutboxRelay(runner(outbox), NewEventPublisher(producer, topic), RelayConfig{}, discardLogger())

	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	received := make(chan Message, 1)
	consumer, err := NewConsumer(Config{Brokers: kc.Brokers, ConsumerGroup: "dealdesk-it"}, topic,
		func(_ context.Context, msg Message) error {
			received <- msg
			return nil
		}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = consumer.Close() })

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = consumer.Start(consumeCtx) }()

	select {
	case msg := <-received:
		assert.Equal(t, e.Payload, msg.Value)
		assert.Equal(t, "dealdesk.deal.closed", msg.Headers[HeaderEventType])
		assert.Equal(t, e.ID.String(), msg.Headers[HeaderEventID])
	case <-ctx.Done():
		t.Fatal("timed out waiting for relayed message")
	}
}
