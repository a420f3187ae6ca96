package kafka

// Config holds broker connection and authentication settings shared by the
// producer and the consumers.
type Config struct {
	Brokers       []string
	ConsumerGroup string

	TLS bool

	SASLEnabled   bool
	SASLMechanism string // PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512
	SASLUsername  string
	SASLPassword  string
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool { return len(c.Brokers) > 0 }
