package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"fire-insights-go/internal/config"
	"fire-insights-go/internal/logger"
	"fire-insights-go/internal/pipeline"
)

func main() {
	cfg := config.Load()

	log := logger.New().WithRun(logger.NewRunID())
	log.WithField("service", "fire-insights-go").WithField("input", cfg.InputPath).Info("starting analysis")

	if err := run(context.Background(), os.Stdout, cfg, log); err != nil {
		log.WithError(err).Fatal("analysis failed")
	}
}

// run executes one analysis, writing only the progress lines to out.
func run(ctx context.Context, out io.Writer, cfg config.Config, log *logger.Logger) error {
	fmt.Fprintln(out, "Starting analysis...")

	res, err := pipeline.Run(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.WithField("duration_ms", res.DurationMs).Info("analysis finished")
	fmt.Fprintln(out, "Saved: type_frequency.png and median_duration_top15.png")
	return nil
}
