package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TimeSeriesPoint is one bucketed count in the over-time report.
type TimeSeriesPoint struct {
	Timestamp int64  `json:"timestamp"`
	ValueType string `json:"valueType"`
	Value     int64  `json:"value"`
}

// DistributionPoint is one per-category total in the distribution report.
type DistributionPoint struct {
	ValueName string `json:"valueName"`
	Value     int64  `json:"value"`
}
