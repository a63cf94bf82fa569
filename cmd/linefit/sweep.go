package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/runningwild/linefit/pkg/logger"
	"github.com/runningwild/linefit/pkg/pointio"
	"github.com/runningwild/linefit/pkg/sweep"
)

// runSweepCmd handles "linefit sweep [flags] <points-file>"
func runSweepCmd(args []string, stdout, stderr io.Writer) int {
	// The threshold is the swept variable, so -threshold/-t is rejected.
	fs := newFlagSet("sweep", "linefit sweep [flags] <points-file>", stderr)
	f := SetupFlags(fs)
	minFlag := fs.Float64("min", 0.01, "Smallest threshold")
	maxFlag := fs.Float64("max", 1, "Largest threshold")
	stepFlag := fs.Float64("step", 0.01, "Threshold increment")
	csvFlag := fs.String("csv", "sweep.csv", "CSV file for the per-threshold results")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return 1
	}
	var thresholdSet bool
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "threshold" || fl.Name == "t" {
			thresholdSet = true
		}
	})
	if thresholdSet {
		fmt.Fprintln(stderr, "Error: -threshold/-t cannot be used with sweep; set the range with -min, -max and -step")
		return 1
	}
	if len(positional) != 1 && *f.ConfigFile == "" {
		fs.Usage()
		return 1
	}
	input := ""
	if len(positional) == 1 {
		input = positional[0]
	}

	cleanup := logger.Setup(logger.Config{Debug: *f.Debug, Writer: stderr})
	defer cleanup()
	log := logger.L()

	cfg, err := f.LoadConfig(input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	f.MaybeWriteConfig(cfg)

	points, err := pointio.ReadFile(cfg.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to read point data from file '%s': %v\n", cfg.Input, err)
		return 1
	}

	s, err := sweep.New(cfg.Params(), *minFlag, *maxFlag, *stepFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	s.Progress = func(i, total int, e sweep.Entry) {
		log.Info("sweep.step", "step", fmt.Sprintf("%d/%d", i+1, total), "threshold", e.Threshold,
			"inliers", e.Inliers, "fraction", e.InlierFraction, "status", e.Status)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(stdout, "Sweeping threshold over %d values to find the knee...\n", len(s.Thresholds()))
	entries, knee, found, err := s.Run(ctx, points)
	if err != nil {
		fmt.Fprintf(stderr, "Sweep failed: %v\n", err)
		return 1
	}

	if err := writeSweepCSV(*csvFlag, entries); err != nil {
		fmt.Fprintf(stderr, "Failed to write output: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "\n>>> Sweep Complete <<<\n")
	if found {
		fmt.Fprintf(stdout, "Knee found at threshold %s (inliers: %d of %d)\n",
			pointio.FormatFloat(knee.Threshold), knee.Inliers, len(points))
	} else {
		fmt.Fprintln(stdout, "Could not identify a distinct knee.")
	}
	fmt.Fprintf(stdout, "Sweep written to %s\n", *csvFlag)
	return 0
}

func writeSweepCSV(path string, entries []sweep.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Threshold", "Status", "Inliers", "Inlier_Fraction", "Trials"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{
			pointio.FormatFloat(e.Threshold),
			e.Status,
			fmt.Sprintf("%d", e.Inliers),
			fmt.Sprintf("%.4f", e.InlierFraction),
			fmt.Sprintf("%d", e.Trials),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
