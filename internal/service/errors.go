package service

import "fmt"

// ValidationError describes why an ingestion payload was rejected.
// Index and Field point at the first offending element; Index is -1
// when the payload as a whole is malformed.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	if e.Field == "" {
		return fmt.Sprintf("event at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("event at index %d: field %q %s", e.Index, e.Field, e.Reason)
}
