package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
	pkgpostgres "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/postgres"
)

// NoteRepository implements port.NoteRepository using PostgreSQL.
type NoteRepository struct {
	db pkgpostgres.Querier
}

// Append inserts notes in the given order.
func (r *NoteRepository) Append(ctx context.Context, notes ...model.DealNote) error {
	query := `
		INSERT INTO deal_notes (id, deal_id, author_id, note_type, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, n := range notes {
		metadata, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal note metadata: %w", err)
		}
		if _, err := r.db.Exec(ctx, query, n.ID, n.DealID, n.AuthorID, n.Type.String(), n.Content, metadata, n.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert deal note: %w", err)
		}
	}
	return nil
}

// ListByDeal returns a deal's notes in the order they were appended.
func (r *NoteRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]model.DealNote, error) {
	query := `
		SELECT id, deal_id, author_id, note_type, content, metadata, created_at
		FROM deal_notes
		WHERE deal_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deal notes: %w", err)
	}
	defer rows.Close()

	var out []model.DealNote
	for rows.Next() {
		var (
			n        model.DealNote
			noteType string
			metadata []byte
		)
		if err := rows.Scan(&n.ID, &n.DealID, &n.AuthorID, &noteType, &n.Content, &metadata, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deal note: %w", err)
		}
		if n.Type, err = valueobject.NewNoteType(noteType); err != nil {
			return nil, fmt.Errorf("deal note %s: %w", n.ID, err)
		}
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal note metadata: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Outbox
// ---------------------------------------------------------------------------

// OutboxRepository implements events.OutboxRepository using PostgreSQL.
type OutboxRepository struct {
	db pkgpostgres.Querier
}

// Store inserts outbox entries with the same transaction as the state change.
func (r *OutboxRepository) Store(ctx context.Context, entries []events.OutboxEntry) error {
	query := `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, e := range entries {
		if _, err := r.db.Exec(ctx, query, e.ID, e.AggregateID, e.AggregateType, e.EventType, e.Payload, e.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert outbox entry: %w", err)
		}
	}
	return nil
}

// FetchUnpublished returns up to batchSize unpublished entries, oldest first.
// Rows locked by another relay are skipped.
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := r.db.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox entries: %w", err)
	}
	defer rows.Close()

	var out []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload, &e.CreatedAt, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkPublished stamps the given entries as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET published_at = $2 WHERE id = ANY($1::uuid[])`

	if _, err := r.db.Exec(ctx, query, ids, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark outbox entries published: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Identity directory
// ---------------------------------------------------------------------------

// Directory implements port.IdentityDirectory over the user_roles table.
type Directory struct {
	db pkgpostgres.Querier
}

// NewDirectory creates a new Directory.
func NewDirectory(db pkgpostgres.Querier) *Directory {
	return &Directory{db: db}
}

// ListUsers returns every user with their roles, ordered by email.
func (d *Directory) ListUsers(ctx context.Context) ([]port.User, error) {
	query := `
		SELECT user_id, MIN(email), ARRAY_AGG(role ORDER BY role)
		FROM user_roles
		GROUP BY user_id
		ORDER BY MIN(email), user_id`

	rows, err := d.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.User, error) {
		var u port.User
		err := row.Scan(&u.ID, &u.Email, &u.Roles)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	return users, nil
}

// GrantRole assigns a role to a user. Granting an existing role is a no-op.
func (d *Directory) GrantRole(ctx context.Context, userID uuid.UUID, email, role string) error {
	query := `
		INSERT INTO user_roles (user_id, email, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role) DO UPDATE SET email = EXCLUDED.email`

	if _, err := d.db.Exec(ctx, query, userID, email, role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}
