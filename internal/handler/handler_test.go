package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
	"github.com/mykolaharmash/telemetry-service-demo/internal/repository"
	"github.com/mykolaharmash/telemetry-service-demo/internal/service"
)

var testTokens = AuthTokens{
	Ingest: "ingest-token",
	Read:   "read-token",
}

const validBatch = `[{"id": "evt-1", "deviceId": "d", "eventKind": "circle-tapped", "createdAt": 100, "parameters": {"color": "red"}}]`

// MockTelemetryService is a mock implementation of service.TelemetryServicer
type MockTelemetryService struct {
	mock.Mock
}

func (m *MockTelemetryService) IngestBatch(ctx context.Context, body []byte) (int, error) {
	args := m.Called(ctx, body)
	return args.Int(0), args.Error(1)
}

func (m *MockTelemetryService) OverTimeReport(ctx context.Context) ([]dto.TimeSeriesPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TimeSeriesPoint), args.Error(1)
}

func (m *MockTelemetryService) DistributionReport(ctx context.Context) ([]dto.DistributionPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DistributionPoint), args.Error(1)
}

func TestHandler_HealthCheck(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_IngestEvents_Success(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	mockService.On("IngestBatch", mock.Anything, []byte(validBatch)).Return(1, nil)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(validBatch))
	req.Header.Set("Authorization", "Bearer ingest-token")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Body.String(), "acceptance carries no body")
	mockService.AssertExpectations(t)
}

// Missing or malformed authorization rejects an otherwise well-formed
// request before the handler logic runs.
func TestHandler_IngestEvents_Forbidden(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong token", header: "Bearer nope"},
		{name: "read token on ingest scope", header: "Bearer read-token"},
		{name: "not a bearer scheme", header: "Basic ingest-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTelemetryService)
			handler := NewHandler(mockService, testTokens, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(validBatch))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)

			var response dto.ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "forbidden", response.Error)
			mockService.AssertNotCalled(t, "IngestBatch")
		})
	}
}

func TestHandler_IngestEvents_ValidationError(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	verr := &service.ValidationError{Index: 0, Field: "createdAt", Reason: "must be a number"}
	mockService.On("IngestBatch", mock.Anything, mock.Anything).Return(0, verr)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`[{}]`))
	req.Header.Set("Authorization", "Bearer ingest-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "validation_error", response.Error)
	assert.Contains(t, response.Message, "createdAt")
}

func TestHandler_IngestEvents_StorageError(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	mockService.On("IngestBatch", mock.Anything, mock.Anything).
		Return(0, fmt.Errorf("failed to store batch: disk full"))

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(validBatch))
	req.Header.Set("Authorization", "Bearer ingest-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "internal_error", response.Error)
}

func TestHandler_OverTimeReport_Success(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	mockService.On("OverTimeReport", mock.Anything).Return([]dto.TimeSeriesPoint{
		{Timestamp: 60, ValueType: "red", Value: 2},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/over-time", nil)
	req.Header.Set("Authorization", "Bearer read-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var points []dto.TimeSeriesPoint
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	assert.Equal(t, []dto.TimeSeriesPoint{{Timestamp: 60, ValueType: "red", Value: 2}}, points)
}

func TestHandler_DistributionReport_Success(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	mockService.On("DistributionReport", mock.Anything).Return([]dto.DistributionPoint{
		{ValueName: "red", Value: 5},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/distribution", nil)
	req.Header.Set("Authorization", "Bearer read-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var points []dto.DistributionPoint
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	assert.Equal(t, []dto.DistributionPoint{{ValueName: "red", Value: 5}}, points)
}

func TestHandler_Reports_Forbidden(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	// Ingest token does not open the read scope.
	req := httptest.NewRequest(http.MethodGet, "/reports/distribution", nil)
	req.Header.Set("Authorization", "Bearer ingest-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "DistributionReport")
}

func TestHandler_Reports_ShapeFault(t *testing.T) {
	mockService := new(MockTelemetryService)
	handler := NewHandler(mockService, testTokens, zap.NewNop())

	mockService.On("DistributionReport", mock.Anything).
		Return(nil, fmt.Errorf("failed to build distribution report: %w", repository.ErrReportShape))

	req := httptest.NewRequest(http.MethodGet, "/reports/distribution", nil)
	req.Header.Set("Authorization", "Bearer read-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "report_shape_error", response.Error)
}
