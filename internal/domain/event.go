package domain

// Event represents a telemetry event persisted in the events table.
type Event struct {
	ID        string `db:"id"`
	DeviceID  string `db:"device_id"`
	EventKind string `db:"event_kind"`
	CreatedAt int64  `db:"created_at"`

	Parameters []Parameter
}

// Parameter is one (kind, value) pair attached to an event. A nil
// Value marks a parameter the producer reported as explicitly absent;
// it is stored as a NULL row, never as a string.
type Parameter struct {
	Kind  string  `db:"parameter_kind"`
	Value *string `db:"value"`
}
