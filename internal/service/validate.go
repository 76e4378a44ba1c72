package service

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
)

// DecodeBatch parses an ingestion payload into a typed batch. It
// either returns the full batch or a *ValidationError naming the
// first offending element and field; a single bad record rejects the
// whole payload.
func DecodeBatch(body []byte) ([]dto.TelemetryEvent, *ValidationError) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil || isJSONNull(body) {
		return nil, &ValidationError{Index: -1, Reason: "request body is not a JSON array"}
	}

	events := make([]dto.TelemetryEvent, 0, len(elements))
	for i, element := range elements {
		event, verr := decodeEvent(i, element)
		if verr != nil {
			return nil, verr
		}
		events = append(events, event)
	}

	return events, nil
}

func decodeEvent(index int, element json.RawMessage) (dto.TelemetryEvent, *ValidationError) {
	var event dto.TelemetryEvent

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || isJSONNull(element) {
		return event, &ValidationError{Index: index, Reason: "element is not an object"}
	}

	var verr *ValidationError
	if event.ID, verr = stringField(fields, index, "id"); verr != nil {
		return event, verr
	}
	if event.DeviceID, verr = stringField(fields, index, "deviceId"); verr != nil {
		return event, verr
	}
	if event.EventKind, verr = stringField(fields, index, "eventKind"); verr != nil {
		return event, verr
	}

	createdAtRaw, ok := fields["createdAt"]
	if !ok {
		return event, &ValidationError{Index: index, Field: "createdAt", Reason: "is missing"}
	}
	var createdAt float64
	if err := json.Unmarshal(createdAtRaw, &createdAt); err != nil || isJSONNull(createdAtRaw) {
		return event, &ValidationError{Index: index, Field: "createdAt", Reason: "must be a number"}
	}
	if createdAt != math.Trunc(createdAt) {
		return event, &ValidationError{Index: index, Field: "createdAt", Reason: "must be an integer"}
	}
	event.CreatedAt = int64(createdAt)

	parametersRaw, ok := fields["parameters"]
	if !ok {
		return event, &ValidationError{Index: index, Field: "parameters", Reason: "is missing"}
	}
	var parameters map[string]json.RawMessage
	if err := json.Unmarshal(parametersRaw, &parameters); err != nil || isJSONNull(parametersRaw) {
		return event, &ValidationError{Index: index, Field: "parameters", Reason: "must be an object"}
	}

	event.Parameters = make(map[string]string, len(parameters))
	for kind, valueRaw := range parameters {
		var value string
		if err := json.Unmarshal(valueRaw, &value); err != nil {
			return event, &ValidationError{
				Index:  index,
				Field:  "parameters." + kind,
				Reason: "must be a string",
			}
		}
		event.Parameters[kind] = value
	}

	return event, nil
}

func stringField(fields map[string]json.RawMessage, index int, name string) (string, *ValidationError) {
	raw, ok := fields[name]
	if !ok {
		return "", &ValidationError{Index: index, Field: name, Reason: "is missing"}
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", &ValidationError{Index: index, Field: name, Reason: "must be a string"}
	}
	if value == "" {
		return "", &ValidationError{Index: index, Field: name, Reason: "must not be empty"}
	}

	return value, nil
}

// isJSONNull catches the literal null, which unmarshals into maps
// without an error.
func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
