package dataset

import (
	"fmt"

	"fire-insights-go/internal/duration"
	"fire-insights-go/internal/logger"
	"fire-insights-go/internal/types"
)

type DatasetSummary struct {
	TotalCalls    int `json:"total_calls"`
	WithDuration  int `json:"with_duration"`
	UntypedCalls  int `json:"untyped_calls"`
	DistinctTypes int `json:"distinct_types"`
}

// LoadAndSummarize reads the dataset, derives duration_min on every record and
// returns the records together with a compact summary.
func LoadAndSummarize(path string, log *logger.Logger) ([]types.CallRecord, DatasetSummary, error) {
	log = log.WithComponent("dataset.summary")
	log.WithField("path", path).Info("opening dataset")
	records, err := Load(path)
	if err != nil {
		log.WithError(err).Error("load failed")
		return nil, DatasetSummary{}, fmt.Errorf("load %s: %w", path, err)
	}

	ds := DatasetSummary{
		TotalCalls:   len(records),
		WithDuration: duration.Derive(records),
	}
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.Type == "" {
			ds.UntypedCalls++
			continue
		}
		seen[r.Type] = struct{}{}
	}
	ds.DistinctTypes = len(seen)

	log.WithFields(map[string]interface{}{
		"total_calls":    ds.TotalCalls,
		"with_duration":  ds.WithDuration,
		"untyped_calls":  ds.UntypedCalls,
		"distinct_types": ds.DistinctTypes,
	}).Info("dataset loaded")
	if missing := ds.TotalCalls - ds.WithDuration; missing > 0 {
		log.WithField("missing_durations", missing).Debug("durations that did not parse as H:M:S")
	}
	return records, ds, nil
}
