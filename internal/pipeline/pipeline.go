// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fire-insights-go/internal/actionable"
	"fire-insights-go/internal/aggregator"
	"fire-insights-go/internal/chart"
	"fire-insights-go/internal/config"
	"fire-insights-go/internal/dataset"
	"fire-insights-go/internal/logger"
	"fire-insights-go/internal/types"
)

type Result struct {
	Summary       dataset.DatasetSummary `json:"summary"`
	Insight       aggregator.Insight     `json:"insight"`
	ActionCard    actionable.ActionCard  `json:"action_card"`
	FrequencyPath string                 `json:"frequency_path"`
	MedianPath    string                 `json:"median_path"`
	DurationMs    int64                  `json:"duration_ms"`
}

// Run loads the calls table, aggregates it and writes both charts.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) (Result, error) {
	log = log.WithComponent("pipeline")
	start := time.Now()
	res := Result{
		FrequencyPath: cfg.FrequencyChartPath(),
		MedianPath:    cfg.MedianChartPath(),
	}

	records, ds, err := dataset.LoadAndSummarize(cfg.InputPath, log)
	if err != nil {
		return res, err
	}
	res.Summary = ds
	if err := ctx.Err(); err != nil {
		return res, err
	}

	ins := aggregator.Aggregate(records, config.TopTypes)
	res.Insight = ins
	log.WithField("types", len(ins.Frequency)).WithField("median_types", len(ins.Medians)).Info("aggregated")
	if len(ins.DroppedTypes) > 0 {
		log.WithField("dropped_types", ins.DroppedTypes).Warn("top types without any parseable duration left out of median chart")
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := chart.RenderBars(res.FrequencyPath, frequencyChart(ins.Frequency)); err != nil {
		return res, fmt.Errorf("frequency chart: %w", err)
	}
	log.WithField("path", res.FrequencyPath).Info("chart written")
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := chart.RenderBars(res.MedianPath, medianChart(ins.Medians)); err != nil {
		return res, fmt.Errorf("median chart: %w", err)
	}
	log.WithField("path", res.MedianPath).Info("chart written")

	res.ActionCard = actionable.Generate(ins)
	log.WithFields(map[string]interface{}{
		"insight": res.ActionCard.Insight,
		"action":  res.ActionCard.Action,
		"impact":  res.ActionCard.Impact,
	}).Info("run highlights")

	res.DurationMs = time.Since(start).Milliseconds()
	return res, nil
}

func frequencyChart(freq []types.TypeCount) chart.BarChartOptions {
	bars := make([]chart.Bar, 0, len(freq))
	for _, tc := range freq {
		bars = append(bars, chart.Bar{Label: tc.Type, Value: float64(tc.Count)})
	}
	return chart.BarChartOptions{
		Title:         "Call Type Frequency",
		XLabel:        "Call type",
		YLabel:        "Count",
		ValueFormat:   "%.0f",
		IntegerValues: true,
		Bars:          bars,
	}
}

func medianChart(medians []types.TypeMedian) chart.BarChartOptions {
	bars := make([]chart.Bar, 0, len(medians))
	for _, m := range medians {
		bars = append(bars, chart.Bar{Label: m.Type, Value: m.MedianMin})
	}
	return chart.BarChartOptions{
		Title:  fmt.Sprintf("Median Call Duration (Top %d Types)", config.TopTypes),
		XLabel: "Call type",
		YLabel: "Median duration (minutes)",
		Bars:   bars,
	}
}
