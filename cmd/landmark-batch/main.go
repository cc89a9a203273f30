package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"

	"github.com/ironsheep/radial-sequencer/internal/batch"
	"github.com/ironsheep/radial-sequencer/internal/config"
	"github.com/ironsheep/radial-sequencer/internal/export"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	logger, err := logs.NewLog()
	check(err)
	code := run(logger)
	logger.Close()
	os.Exit(code)
}

// run returns the process exit code: 1 when the run could not be carried out,
// 2 when some images failed.
func run(logger logs.Log) int {
	cfg := config.Load()

	parser := argparse.NewParser("landmark-batch", "Number the nine landmarks of every image in a folder, using <stem>.json prediction files")
	input := parser.String("i", "input", &argparse.Options{Help: "Folder of .png/.jpg images", Default: cfg.InputDir})
	output := parser.String("o", "output", &argparse.Options{Help: "Folder for overlays and coordinate tables", Default: cfg.OutputDir})
	predictions := parser.String("p", "predictions", &argparse.Options{Help: "Folder of prediction JSON files (default: input folder)", Default: cfg.PredictionsDir})
	dbPath := parser.String("d", "db", &argparse.Options{Help: "SQLite database to record results in", Default: cfg.DBPath})
	workers := parser.Int("w", "workers", &argparse.Options{Help: "Images processed in parallel", Default: cfg.Workers})
	scale := parser.Float("s", "scale", &argparse.Options{Help: "Scale factor for rendered overlays", Default: 1.0})
	if err := parser.Parse(os.Args); err != nil {
		logger.Errorf("%v", parser.Usage(err))
		return 1
	}

	cfg.InputDir = *input
	cfg.OutputDir = *output
	cfg.PredictionsDir = *predictions
	cfg.DBPath = *dbPath
	cfg.Workers = *workers
	if err := cfg.Validate(); err != nil {
		logger.Errorf("Invalid configuration: %v", err)
		return 1
	}

	runner := batch.NewRunner(cfg, logger)
	runner.Overlay.Scale = *scale
	if cfg.DBPath != "" {
		store, err := export.Open(cfg.DBPath)
		if err != nil {
			logger.Errorf("Failed to open result store '%v': %v", cfg.DBPath, err)
			return 1
		}
		defer store.Close()
		runner.Store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := runner.Run(ctx)
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		return 1
	}
	if sum.Failed > 0 {
		return 2
	}
	return 0
}
