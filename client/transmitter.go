package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Transmitter owns the send path: it drains one batch from the
// buffer, posts it to the collector and, on any failure, hands the
// batch back to the buffer. Delivery is at least once; a batch whose
// acceptance response is lost in transit will be resent and may be
// stored twice.
type Transmitter struct {
	buffer     *Buffer
	httpClient *http.Client
	endpoint   string
	token      string
	batchSize  int
	log        *zap.Logger
}

// NewTransmitter creates a transmitter draining buffer towards
// endpoint, authenticated with the ingest-scoped bearer token.
func NewTransmitter(buffer *Buffer, httpClient *http.Client, endpoint, token string, batchSize int, log *zap.Logger) *Transmitter {
	return &Transmitter{
		buffer:     buffer,
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      token,
		batchSize:  batchSize,
		log:        log,
	}
}

// Flush sends the next batch. It never reports failure to the caller;
// every failure path ends in a requeue and a later retry. The buffer
// is not locked while the request is in flight, the batch is owned by
// the transmitter for the duration of the call.
func (t *Transmitter) Flush(ctx context.Context) {
	batch := t.buffer.TakeNextBatch(t.batchSize)
	if len(batch) == 0 {
		t.log.Debug("Event buffer is empty, nothing to send")
		return
	}

	body, err := json.Marshal(batch)
	if err != nil {
		t.log.Error("Failed to serialize events batch", zap.Error(err))
		t.buffer.Requeue(batch)
		return
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		t.log.Error("Failed to build ingestion request", zap.Error(err))
		t.buffer.Requeue(batch)
		return
	}
	request.Header.Set("Authorization", "Bearer "+t.token)
	request.Header.Set("Content-Type", "application/json")

	response, err := t.httpClient.Do(request)
	if err != nil {
		t.log.Warn("Failed to send events batch, requeueing",
			zap.Error(err),
			zap.Int("event_count", len(batch)))
		t.buffer.Requeue(batch)
		return
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode != http.StatusAccepted {
		t.log.Warn("Collector did not accept events batch, requeueing",
			zap.Int("status", response.StatusCode),
			zap.Int("event_count", len(batch)))
		t.buffer.Requeue(batch)
		return
	}

	t.log.Info("Sent events batch", zap.Int("event_count", len(batch)))
}
