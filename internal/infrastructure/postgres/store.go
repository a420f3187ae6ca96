// Package postgres implements the deal desk store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	pkgpostgres "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

// Migrations holds the schema, applied at startup with pkgpostgres.RunMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the .sql files.
const MigrationsDir = "migrations"

// Store implements port.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repositories returns repositories that run each statement on its own
// pooled connection.
func (s *Store) Repositories() port.Repositories {
	return repositoriesFor(s.pool)
}

// WithinTx runs fn inside one database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(port.Repositories) error) error {
	return pkgpostgres.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(repositoriesFor(tx))
	})
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return pkgpostgres.HealthCheck(ctx, s.pool)
}

func repositoriesFor(q pkgpostgres.Querier) port.Repositories {
	return port.Repositories{
		Deals:      &DealRepository{db: q},
		Attributes: &AttributeRepository{db: q},
		Scores:     &ScoreRepository{db: q},
		Segments:   &SegmentRepository{db: q},
		Approvals:  &ApprovalRepository{db: q},
		Thresholds: &ThresholdRepository{db: q},
		Notes:      &NoteRepository{db: q},
		Outbox:     &OutboxRepository{db: q},
	}
}
