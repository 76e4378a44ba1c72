package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/domain"
	"github.com/mykolaharmash/telemetry-service-demo/internal/repository"
)

// Repository implements EventRepository for SQLite
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new SQLite repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the events and event_parameters tables if they
// do not exist. Parameter rows reference events.id by value; they are
// only ever read through a join.
func (r *Repository) InitSchema(ctx context.Context) error {
	eventsTable := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		device_id TEXT,
		event_kind TEXT,
		created_at INTEGER
	) STRICT
	`

	parametersTable := `
	CREATE TABLE IF NOT EXISTS event_parameters (
		event_id TEXT,
		parameter_kind TEXT,
		value TEXT
	) STRICT
	`

	if _, err := r.client.DB().ExecContext(ctx, eventsTable); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	if _, err := r.client.DB().ExecContext(ctx, parametersTable); err != nil {
		return fmt.Errorf("failed to create event_parameters table: %w", err)
	}

	r.log.Info("SQLite schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of events and their parameter rows
// inside a single transaction. Any failed insert, a duplicate event
// id included, rolls the whole batch back.
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			r.log.Error("Failed to roll back insert transaction", zap.Error(err))
		}
	}()

	insertEvent, err := tx.PrepareContext(ctx,
		`INSERT INTO events (id, device_id, event_kind, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer insertEvent.Close()

	insertParameter, err := tx.PrepareContext(ctx,
		`INSERT INTO event_parameters (event_id, parameter_kind, value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare parameter insert: %w", err)
	}
	defer insertParameter.Close()

	for _, event := range events {
		if _, err := insertEvent.ExecContext(ctx,
			event.ID, event.DeviceID, event.EventKind, event.CreatedAt); err != nil {
			return 0, fmt.Errorf("failed to insert event %q: %w", event.ID, err)
		}

		for _, parameter := range event.Parameters {
			if _, err := insertParameter.ExecContext(ctx,
				event.ID, parameter.Kind, parameter.Value); err != nil {
				return 0, fmt.Errorf("failed to insert parameter %q of event %q: %w",
					parameter.Kind, event.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}

	return len(events), nil
}

// TimeSeries returns counts grouped by floor-aligned time bucket and
// parameter value, restricted to created_at > query.Since.
func (r *Repository) TimeSeries(ctx context.Context, query repository.TimeSeriesQuery) ([]repository.TimeSeriesRow, error) {
	// Integer division floors non-negative epoch timestamps onto
	// bucket boundaries.
	const q = `
	SELECT
		(events.created_at / ?) * ? AS bucket_start,
		event_parameters.value,
		COUNT(*)
	FROM events
	JOIN event_parameters ON event_parameters.event_id = events.id
	WHERE
		events.event_kind = ? AND
		event_parameters.parameter_kind = ? AND
		events.created_at > ?
	GROUP BY bucket_start, event_parameters.value
	ORDER BY bucket_start ASC
	`

	rows, err := r.client.DB().QueryContext(ctx, q,
		query.BucketSec, query.BucketSec, query.EventKind, query.ParameterKind, query.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to query time series: %w", err)
	}
	defer rows.Close()

	result := []repository.TimeSeriesRow{}
	for rows.Next() {
		var row repository.TimeSeriesRow
		var value sql.NullString
		if err := rows.Scan(&row.BucketStart, &value, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan time series row: %w", err)
		}
		if !value.Valid {
			return nil, fmt.Errorf("time series row with NULL value: %w", repository.ErrReportShape)
		}
		row.ValueType = value.String
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time series rows: %w", err)
	}

	return result, nil
}

// Distribution returns total counts grouped by parameter value,
// unrestricted by time.
func (r *Repository) Distribution(ctx context.Context, query repository.DistributionQuery) ([]repository.DistributionRow, error) {
	const q = `
	SELECT
		event_parameters.value,
		COUNT(*)
	FROM events
	JOIN event_parameters ON event_parameters.event_id = events.id
	WHERE
		events.event_kind = ? AND
		event_parameters.parameter_kind = ?
	GROUP BY event_parameters.value
	`

	rows, err := r.client.DB().QueryContext(ctx, q, query.EventKind, query.ParameterKind)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	result := []repository.DistributionRow{}
	for rows.Next() {
		var row repository.DistributionRow
		var value sql.NullString
		if err := rows.Scan(&value, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		if !value.Valid {
			return nil, fmt.Errorf("distribution row with NULL value: %w", repository.ErrReportShape)
		}
		row.ValueName = value.String
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}

	return result, nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.DB().PingContext(ctx)
}

// Close closes the underlying database connection
func (r *Repository) Close() error {
	return r.client.Close()
}
