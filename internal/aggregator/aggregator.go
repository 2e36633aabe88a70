package aggregator

import (
	"sort"

	"fire-insights-go/internal/types"
	"github.com/go-gota/gota/series"
)

type Insight struct {
	Frequency []types.TypeCount  `json:"frequency"`
	Medians   []types.TypeMedian `json:"medians"`
	// DroppedTypes are top types left out of Medians because none of their
	// durations parsed.
	DroppedTypes []string `json:"dropped_types,omitempty"`
}

// Aggregate computes both aggregates from scratch.
func Aggregate(records []types.CallRecord, topN int) Insight {
	freq := TypeFrequency(records)
	medians, dropped := MedianDurationByType(records, freq, topN)
	return Insight{Frequency: freq, Medians: medians, DroppedTypes: dropped}
}

// TypeFrequency counts records per call type, highest count first. Equal
// counts are ordered by type name. Records without a type are skipped.
func TypeFrequency(records []types.CallRecord) []types.TypeCount {
	counts := map[string]int{}
	for _, r := range records {
		if r.Type == "" {
			continue
		}
		counts[r.Type]++
	}
	out := make([]types.TypeCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, types.TypeCount{Type: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// MedianDurationByType computes the median duration_min of each of the first
// topN types in freq, ignoring missing durations, highest median first. Types
// with no usable duration are returned separately instead of as a median.
func MedianDurationByType(records []types.CallRecord, freq []types.TypeCount, topN int) ([]types.TypeMedian, []string) {
	if topN > len(freq) {
		topN = len(freq)
	}
	if topN < 0 {
		topN = 0
	}
	durations := make(map[string][]float64, topN)
	for _, tc := range freq[:topN] {
		durations[tc.Type] = nil
	}
	for _, r := range records {
		if !r.HasDuration {
			continue
		}
		if vals, ok := durations[r.Type]; ok {
			durations[r.Type] = append(vals, r.DurationMin)
		}
	}

	out := make([]types.TypeMedian, 0, topN)
	var dropped []string
	for _, tc := range freq[:topN] {
		vals := durations[tc.Type]
		if len(vals) == 0 {
			dropped = append(dropped, tc.Type)
			continue
		}
		out = append(out, types.TypeMedian{
			Type:      tc.Type,
			MedianMin: series.Floats(vals).Median(),
			Samples:   len(vals),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MedianMin != out[j].MedianMin {
			return out[i].MedianMin > out[j].MedianMin
		}
		return out[i].Type < out[j].Type
	})
	return out, dropped
}
