package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/usecase"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/service"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/adapter"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/authz"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/config"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/memory"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/messaging"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/metrics"
	infraPostgres "github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/postgres"
	grpcPresentation "github.com/lexhallenberger/hearth-build-hub-sub001/internal/presentation/grpc"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/presentation/rest"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
	pkgkafka "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/kafka"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/observability"
	pgpkg "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("deal desk service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})
	logger.Info("starting deal desk service", "store", cfg.StoreDriver)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Endpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(flushCtx); err != nil {
				logger.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := metrics.NewRecorder(meterProvider.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("init metric instruments: %w", err)
	}

	// Storage and identity directory.
	var (
		store     port.Store
		directory port.IdentityDirectory
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pgpkg.NewPool(connectCtx, cfg.Database)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to database", "database", cfg.Database.Database)

		if err := pgpkg.RunMigrations(cfg.Database.DSN(), infraPostgres.Migrations, infraPostgres.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store = infraPostgres.NewStore(pool)
		directory = infraPostgres.NewDirectory(pool)
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		store = memory.NewStore()
		directory = adapter.NewStaticDirectory()
	}

	checker, err := authz.NewChecker(authz.Config{
		ModelFile:  cfg.Authz.ModelFile,
		PolicyFile: cfg.Authz.PolicyFile,
	})
	if err != nil {
		return fmt.Errorf("init authorization: %w", err)
	}

	var provider port.AnalysisProvider = adapter.DisabledProvider{}
	if cfg.OpenAI.APIKey != "" {
		provider = adapter.NewOpenAIProvider(adapter.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	}

	// Domain services and use cases.
	engine := service.NewScoringEngine()
	matcher := service.NewSegmentMatcher()
	resolver := service.NewAssigneeResolver(directory, checker, logger)

	closeDealUC := usecase.NewCloseDealUseCase(store, logger)
	useCases := grpcPresentation.UseCases{
		CreateDeal:       usecase.NewCreateDealUseCase(store, logger),
		GetDeal:          usecase.NewGetDealUseCase(store),
		ListDeals:        usecase.NewListDealsUseCase(store),
		CloseDeal:        closeDealUC,
		RecordScore:      usecase.NewRecordScoreUseCase(store, engine, recorder, logger),
		RecomputeScore:   usecase.NewRecomputeDealScoreUseCase(store, engine, logger),
		Attributes:       usecase.NewScoringAttributeUseCase(store, checker, logger),
		Threshold:        usecase.NewScoringThresholdUseCase(store, checker, logger),
		Segments:         usecase.NewDealSegmentUseCase(store, checker, matcher, logger),
		RequestApproval:  usecase.NewRequestApprovalUseCase(store, resolver, logger),
		RespondApproval:  usecase.NewRespondApprovalUseCase(store, checker, recorder, logger),
		EscalateApproval: usecase.NewEscalateApprovalUseCase(store, checker, resolver, recorder, logger, cfg.Approval.MaxEscalationLevel),
		AutoRoute:        usecase.NewAutoRouteUseCase(store, matcher, recorder, logger),
		History:          usecase.NewDealHistoryUseCase(store),
		Analysis:         usecase.NewDealAnalysisUseCase(store, provider, logger),
	}

	jwtSvc, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		return fmt.Errorf("init JWT validation: %w", err)
	}

	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewDealDeskHandler(useCases, logger),
		jwtSvc,
		grpcPresentation.ServerOptions{
			TLSCertFile: cfg.TLS.CertFile,
			TLSKeyFile:  cfg.TLS.KeyFile,
			Reflection:  cfg.GRPCReflection,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("init gRPC server: %w", err)
	}

	httpMux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, store, metricsHandler, logger).RegisterRoutes(httpMux)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 4)

	go func() {
		logger.Info("gRPC server starting", "addr", cfg.GRPCAddress())
		if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP health server starting", "addr", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	if cfg.Kafka.Enabled() {
		producer, err := pkgkafka.NewProducer(cfg.Kafka.Config)
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		defer producer.Close()

		relay := pkgkafka.NewOutboxRelay(
			func(ctx context.Context, fn func(events.OutboxRepository) error) error {
				return store.WithinTx(ctx, func(r port.Repositories) error { return fn(r.Outbox) })
			},
			pkgkafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic),
			pkgkafka.RelayConfig{PollInterval: cfg.Outbox.PollInterval, BatchSize: cfg.Outbox.BatchSize},
			logger,
		)
		go func() {
			if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("outbox relay: %w", err)
			}
		}()

		consumer, err := pkgkafka.NewConsumer(cfg.Kafka.Config, cfg.Kafka.DealClosedTopic, messaging.NewDealClosedHandler(closeDealUC, logger), logger)
		if err != nil {
			return fmt.Errorf("init kafka consumer: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("deal closed consumer: %w", err)
			}
		}()
	} else {
		logger.Warn("KAFKA_BROKERS not set, outbox relay and deal closed consumer disabled")
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-errCh:
		logger.Error("component failed", "error", runErr)
	}
	stop()

	logger.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down HTTP server", "error", err)
	}

	logger.Info("deal desk service stopped")
	return runErr
}
