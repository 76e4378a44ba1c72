package repository

import (
	"context"
	"errors"

	"github.com/mykolaharmash/telemetry-service-demo/internal/domain"
)

// ErrReportShape marks rows coming back from the store that do not
// conform to the declared report shape (e.g. a NULL parameter value
// in a grouped projection). It is an integrity fault of the stored
// data, not a caller error.
var ErrReportShape = errors.New("report row does not match the expected shape")

// TimeSeriesQuery selects bucketed counts for one event-kind /
// parameter-kind pair. Since is an exclusive lower bound on
// created_at; BucketSec is the bucket width in seconds.
type TimeSeriesQuery struct {
	EventKind     string
	ParameterKind string
	Since         int64
	BucketSec     int64
}

// DistributionQuery selects per-value totals, unrestricted by time.
type DistributionQuery struct {
	EventKind     string
	ParameterKind string
}

// TimeSeriesRow is one (bucket, value) count.
type TimeSeriesRow struct {
	BucketStart int64
	ValueType   string
	Count       int64
}

// DistributionRow is one per-value total.
type DistributionRow struct {
	ValueName string
	Count     int64
}

// EventRepository defines the interface for event storage operations
type EventRepository interface {
	// InsertBatch persists a batch of events and their parameters as a
	// single transaction. Either every row lands or none do.
	InsertBatch(ctx context.Context, events []*domain.Event) (int, error)

	// TimeSeries returns bucketed counts grouped by (bucket, value).
	TimeSeries(ctx context.Context, query TimeSeriesQuery) ([]TimeSeriesRow, error)

	// Distribution returns total counts grouped by value.
	Distribution(ctx context.Context, query DistributionQuery) ([]DistributionRow, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
