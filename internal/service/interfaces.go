package service

import (
	"context"

	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
)

// TelemetryServicer defines the interface for telemetry operations
type TelemetryServicer interface {
	IngestBatch(ctx context.Context, body []byte) (int, error)
	OverTimeReport(ctx context.Context) ([]dto.TimeSeriesPoint, error)
	DistributionReport(ctx context.Context) ([]dto.DistributionPoint, error)
}
