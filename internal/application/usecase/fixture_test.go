package usecase_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/usecase"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/service"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/adapter"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/authz"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/memory"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/infrastructure/metrics"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func actor(roles ...string) dto.Actor {
	return dto.Actor{UserID: uuid.New(), Roles: roles}
}

// fixture wires every use case over one in-memory store.
type fixture struct {
	store *memory.Store

	admin    dto.Actor
	rep      dto.Actor
	approver dto.Actor
	exec     dto.Actor

	createDeal *usecase.CreateDealUseCase
	getDeal    *usecase.GetDealUseCase
	listDeals  *usecase.ListDealsUseCase
	closeDeal  *usecase.CloseDealUseCase
	attributes *usecase.ScoringAttributeUseCase
	thresholds *usecase.ScoringThresholdUseCase
	segments   *usecase.DealSegmentUseCase
	record     *usecase.RecordScoreUseCase
	recompute  *usecase.RecomputeDealScoreUseCase
	request    *usecase.RequestApprovalUseCase
	respond    *usecase.RespondApprovalUseCase
	escalate   *usecase.EscalateApprovalUseCase
	autoRoute  *usecase.AutoRouteUseCase
	history    *usecase.DealHistoryUseCase
	analysis   *usecase.DealAnalysisUseCase
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	maxLevel  int
	provider  port.AnalysisProvider
	directory port.IdentityDirectory
}

func withMaxLevel(n int) fixtureOption { return func(c *fixtureConfig) { c.maxLevel = n } }

func withProvider(p port.AnalysisProvider) fixtureOption {
	return func(c *fixtureConfig) { c.provider = p }
}

func withDirectory(d port.IdentityDirectory) fixtureOption {
	return func(c *fixtureConfig) { c.directory = d }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		store:    memory.NewStore(),
		admin:    actor(auth.RoleAdmin),
		rep:      actor(auth.RoleSalesRep),
		approver: actor(auth.RoleApprover),
		exec:     actor(auth.RoleExecutive),
	}
	cfg := fixtureConfig{
		provider: adapter.DisabledProvider{},
		directory: adapter.NewStaticDirectory(
			port.User{ID: f.rep.UserID, Email: "a-rep@example.com", Roles: f.rep.Roles},
			port.User{ID: f.approver.UserID, Email: "b-approver@example.com", Roles: f.approver.Roles},
			port.User{ID: f.exec.UserID, Email: "c-exec@example.com", Roles: f.exec.Roles},
		),
	}
	for _, o := range opts {
		o(&cfg)
	}

	checker, err := authz.NewChecker(authz.Config{})
	require.NoError(t, err)
	rec, err := metrics.NewRecorder(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	logger := testLogger()
	engine := service.NewScoringEngine()
	matcher := service.NewSegmentMatcher()
	resolver := service.NewAssigneeResolver(cfg.directory, checker, logger)

	f.createDeal = usecase.NewCreateDealUseCase(f.store, logger)
	f.getDeal = usecase.NewGetDealUseCase(f.store)
	f.listDeals = usecase.NewListDealsUseCase(f.store)
	f.closeDeal = usecase.NewCloseDealUseCase(f.store, logger)
	f.attributes = usecase.NewScoringAttributeUseCase(f.store, checker, logger)
	f.thresholds = usecase.NewScoringThresholdUseCase(f.store, checker, logger)
	f.segments = usecase.NewDealSegmentUseCase(f.store, checker, matcher, logger)
	f.record = usecase.NewRecordScoreUseCase(f.store, engine, rec, logger)
	f.recompute = usecase.NewRecomputeDealScoreUseCase(f.store, engine, logger)
	f.request = usecase.NewRequestApprovalUseCase(f.store, resolver, logger)
	f.respond = usecase.NewRespondApprovalUseCase(f.store, checker, rec, logger)
	f.escalate = usecase.NewEscalateApprovalUseCase(f.store, checker, resolver, rec, logger, cfg.maxLevel)
	f.autoRoute = usecase.NewAutoRouteUseCase(f.store, matcher, rec, logger)
	f.history = usecase.NewDealHistoryUseCase(f.store)
	f.analysis = usecase.NewDealAnalysisUseCase(f.store, cfg.provider, logger)
	return f
}

func (f *fixture) setThreshold(t *testing.T, green, yellow float64) {
	t.Helper()
	_, err := f.thresholds.Set(context.Background(), dto.SetScoringThresholdRequest{
		Actor: f.admin, GreenMin: green, YellowMin: yellow,
	})
	require.NoError(t, err)
}

func (f *fixture) addAttribute(t *testing.T, name string, weight, lo, hi float64, higherIsBetter bool) uuid.UUID {
	t.Helper()
	resp, err := f.attributes.Create(context.Background(), dto.ScoringAttributeRequest{
		Actor:          f.admin,
		Name:           name,
		Category:       "financial",
		Weight:         weight,
		MinValue:       lo,
		MaxValue:       hi,
		HigherIsBetter: higherIsBetter,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) addDeal(t *testing.T, value int64) uuid.UUID {
	t.Helper()
	resp, err := f.createDeal.Execute(context.Background(), dto.CreateDealRequest{
		Actor:          f.rep,
		Name:           "Initech platform",
		CustomerName:   "Initech",
		Value:          decimal.NewFromInt(value),
		ContractMonths: 12,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) score(t *testing.T, dealID, attrID uuid.UUID, raw float64) dto.RecordScoreResponse {
	t.Helper()
	resp, err := f.record.Execute(context.Background(), dto.RecordScoreRequest{
		Actor: f.rep, DealID: dealID, AttributeID: attrID, RawValue: raw,
	})
	require.NoError(t, err)
	return resp
}

// scoredDeal returns a deal scored 80 (green under 70/40).
func (f *fixture) scoredDeal(t *testing.T) uuid.UUID {
	t.Helper()
	f.setThreshold(t, 70, 40)
	attr := f.addAttribute(t, "Margin", 50, 0, 100, true)
	deal := f.addDeal(t, 50000)
	f.score(t, deal, attr, 80)
	return deal
}
