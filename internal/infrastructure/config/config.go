package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/kafka"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the deal desk service.
type Config struct {
	// gRPC server port
	GRPCPort int
	// HTTP health/metrics port
	HTTPPort int
	// Service name for observability
	ServiceName string
	// StoreDriver selects postgres or memory
	StoreDriver string
	// GRPCReflection registers the reflection service
	GRPCReflection bool

	Database postgres.Config
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Approval ApprovalConfig
	OpenAI   OpenAIConfig
	Authz    AuthzConfig
	JWT      auth.JWTConfig
	TLS      TLSConfig
	Tracing  TracingConfig
	Log      LogConfig
}

// KafkaConfig holds Kafka connection settings and topic names.
type KafkaConfig struct {
	kafka.Config
	// Empty Brokers disables the relay and the consumer.
	EventsTopic     string
	DealClosedTopic string
}

// OutboxConfig tunes the outbox relay.
type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// ApprovalConfig holds approval workflow limits.
type ApprovalConfig struct {
	// MaxEscalationLevel caps escalation; 0 means unbounded.
	MaxEscalationLevel int
}

// OpenAIConfig configures the deal analysis provider. An empty APIKey
// disables analysis.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AuthzConfig points at optional casbin model and policy files. Empty values
// use the built-in role model.
type AuthzConfig struct {
	ModelFile  string
	PolicyFile string
}

// TLSConfig enables gRPC TLS when both files are set.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether TLS is configured.
func (c TLSConfig) Enabled() bool { return c.CertFile != "" && c.KeyFile != "" }

// TracingConfig holds the OTLP collector endpoint. Empty disables tracing.
type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9090),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		ServiceName:    getEnv("SERVICE_NAME", "dealdesk"),
		StoreDriver:    getEnv("STORE_DRIVER", StoreDriverPostgres),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		Database: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "dealdesk"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "dealdesk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 1)),
		},
		Kafka: KafkaConfig{
			Config: kafka.Config{
				Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
				ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "dealdesk"),
				TLS:           getEnvBool("KAFKA_TLS", false),
				SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
				SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
				SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
				SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
			},
			EventsTopic:     getEnv("KAFKA_EVENTS_TOPIC", "dealdesk.events"),
			DealClosedTopic: getEnv("KAFKA_DEAL_CLOSED_TOPIC", "crm.deal.closed"),
		},
		Outbox: OutboxConfig{
			PollInterval: time.Duration(getEnvInt("OUTBOX_POLL_INTERVAL_MS", 1000)) * time.Millisecond,
			BatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		Approval: ApprovalConfig{
			MaxEscalationLevel: getEnvInt("MAX_ESCALATION_LEVEL", 0),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Authz: AuthzConfig{
			ModelFile:  getEnv("CASBIN_MODEL_FILE", ""),
			PolicyFile: getEnv("CASBIN_POLICY_FILE", ""),
		},
		JWT: auth.JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyPEM:  getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "dealdesk"),
			Expiration:    time.Duration(getEnvInt("JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		Tracing: TracingConfig{
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required with the postgres store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.Approval.MaxEscalationLevel < 0 {
		errs = append(errs, errors.New("MAX_ESCALATION_LEVEL must not be negative"))
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyPEM == "" && c.JWT.PublicKeyFile == "" {
		errs = append(errs, errors.New("JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	if c.Outbox.BatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// GRPCAddress returns the full gRPC listen address.
func (c Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
