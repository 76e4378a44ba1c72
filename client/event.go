// Package client is the producer-side telemetry SDK. It buffers
// events in memory, batches them to the collector over authenticated
// HTTP with at-least-once delivery, and can park the pending queue in
// a durable file slot across process suspension.
package client

// Event is a single usage event as the producer emits it. The field
// names match the collector's ingestion wire format.
type Event struct {
	ID         string            `json:"id"`
	DeviceID   string            `json:"deviceId"`
	EventKind  string            `json:"eventKind"`
	CreatedAt  int64             `json:"createdAt"`
	Parameters map[string]string `json:"parameters"`
}

// AbsentParameterValue marks a parameter as explicitly absent; the
// collector stores it as NULL rather than the literal string.
const AbsentParameterValue = "nil"
