package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/domain"
	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
	"github.com/mykolaharmash/telemetry-service-demo/internal/repository"
)

// absentParameterValue is the producer-side sentinel for a parameter
// that is explicitly absent. It is persisted as NULL.
const absentParameterValue = "nil"

// ReportConfig fixes the (event kind, parameter kind) pair and the
// time-series windowing the report endpoints serve.
type ReportConfig struct {
	EventKind     string
	ParameterKind string
	WindowSec     int64
	BucketSec     int64
}

// TelemetryService validates ingestion batches, commits them through
// the repository and serves the two aggregate reports.
type TelemetryService struct {
	repository repository.EventRepository
	reports    ReportConfig
	now        func() time.Time
	log        *zap.Logger
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(repo repository.EventRepository, reports ReportConfig, log *zap.Logger) *TelemetryService {
	return &TelemetryService{
		repository: repo,
		reports:    reports,
		now:        time.Now,
		log:        log,
	}
}

// IngestBatch decodes, validates and atomically persists one batch.
// It returns the number of stored events; a *ValidationError means
// the payload was rejected as a whole and nothing was written.
func (s *TelemetryService) IngestBatch(ctx context.Context, body []byte) (int, error) {
	batch, verr := DecodeBatch(body)
	if verr != nil {
		s.log.Warn("Rejected ingestion batch", zap.Error(verr))
		return 0, verr
	}

	events := make([]*domain.Event, len(batch))
	for i, record := range batch {
		events[i] = toDomainEvent(record)
	}

	count, err := s.repository.InsertBatch(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("failed to store batch: %w", err)
	}

	s.log.Info("Ingested events batch", zap.Int("event_count", count))
	return count, nil
}

// OverTimeReport returns bucketed counts over the trailing window for
// the configured report pair.
func (s *TelemetryService) OverTimeReport(ctx context.Context) ([]dto.TimeSeriesPoint, error) {
	rows, err := s.repository.TimeSeries(ctx, repository.TimeSeriesQuery{
		EventKind:     s.reports.EventKind,
		ParameterKind: s.reports.ParameterKind,
		Since:         s.now().Unix() - s.reports.WindowSec,
		BucketSec:     s.reports.BucketSec,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build over-time report: %w", err)
	}

	points := make([]dto.TimeSeriesPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.TimeSeriesPoint{
			Timestamp: row.BucketStart,
			ValueType: row.ValueType,
			Value:     row.Count,
		})
	}

	return points, nil
}

// DistributionReport returns per-value totals for the configured
// report pair, unrestricted by time.
func (s *TelemetryService) DistributionReport(ctx context.Context) ([]dto.DistributionPoint, error) {
	rows, err := s.repository.Distribution(ctx, repository.DistributionQuery{
		EventKind:     s.reports.EventKind,
		ParameterKind: s.reports.ParameterKind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build distribution report: %w", err)
	}

	points := make([]dto.DistributionPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.DistributionPoint{
			ValueName: row.ValueName,
			Value:     row.Count,
		})
	}

	return points, nil
}

func toDomainEvent(record dto.TelemetryEvent) *domain.Event {
	event := &domain.Event{
		ID:         record.ID,
		DeviceID:   record.DeviceID,
		EventKind:  record.EventKind,
		CreatedAt:  record.CreatedAt,
		Parameters: make([]domain.Parameter, 0, len(record.Parameters)),
	}

	for kind, value := range record.Parameters {
		parameter := domain.Parameter{Kind: kind}
		if value != absentParameterValue {
			v := value
			parameter.Value = &v
		}
		event.Parameters = append(event.Parameters, parameter)
	}

	return event
}
