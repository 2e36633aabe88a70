package types

// CallRecord is one row of the calls table. Row position is its only identity.
type CallRecord struct {
	Type        string  `json:"type"`
	Duration    string  `json:"duration"`
	DurationMin float64 `json:"duration_min,omitempty"`
	HasDuration bool    `json:"has_duration"`
}

// TypeCount is one entry of the call-type frequency aggregate.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypeMedian is one entry of the median-duration aggregate.
type TypeMedian struct {
	Type      string  `json:"type"`
	MedianMin float64 `json:"median_min"`
	Samples   int     `json:"samples"`
}
