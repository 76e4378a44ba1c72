package dto

// TelemetryEvent is the wire shape of a single event in an ingestion
// batch. The sentinel parameter value "nil" means the parameter is
// explicitly absent.
type TelemetryEvent struct {
	ID         string            `json:"id"`
	DeviceID   string            `json:"deviceId"`
	EventKind  string            `json:"eventKind"`
	CreatedAt  int64             `json:"createdAt"`
	Parameters map[string]string `json:"parameters"`
}
