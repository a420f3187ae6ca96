package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.TLS)
	assert.Nil(t, p.transport.SASL)
}

func TestNewProducer_Security(t *testing.T) {
	t.Run("tls and plain sasl", func(t *testing.T) {
		p, err := NewProducer(Config{
			Brokers:      []string{"kafka:9093"},
			TLS:          true,
			SASLEnabled:  true,
			SASLUsername: "dealdesk",
			SASLPassword: "secret",
		})
		require.NoError(t, err)
		require.NotNil(t, p.transport.TLS)
		assert.Equal(t, plain.Mechanism{Username: "dealdesk", Password: "secret"}, p.transport.SASL)
	})

	t.Run("scram", func(t *testing.T) {
		p, err := NewProducer(Config{
			Brokers:       []string{"kafka:9093"},
			SASLEnabled:   true,
			SASLMechanism: "SCRAM-SHA-512",
			SASLUsername:  "dealdesk",
			SASLPassword:  "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
	})

	t.Run("unknown mechanism is rejected", func(t *testing.T) {
		_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GSSAPI")
	})
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("dealdesk.events")
	w2 := p.getOrCreateWriter("dealdesk.events")
	w3 := p.getOrCreateWriter("crm.deal.closed")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Len(t, p.writers, 2)
	assert.IsType(t, &kafkago.Hash{}, w1.Balancer)
}

func TestProducerClose(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestToMessage(t *testing.T) {
	msg := toMessage(kafkago.Message{
		Key:   []byte("deal-1"),
		Value: []byte(`{"outcome":"won"}`),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("crm.deal.closed")},
		},
	})

	assert.Equal(t, "deal-1", string(msg.Key))
	assert.Equal(t, `{"outcome":"won"}`, string(msg.Value))
	assert.Equal(t, map[string]string{"event_type": "crm.deal.closed"}, msg.Headers)
}
