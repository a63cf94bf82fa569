package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"github.com/runningwild/linefit/pkg/config"
	"github.com/runningwild/linefit/pkg/logger"
	"github.com/runningwild/linefit/pkg/pointio"
	"github.com/runningwild/linefit/pkg/ransac"
	"github.com/runningwild/linefit/pkg/render"
	"github.com/runningwild/linefit/pkg/runlog"
	"github.com/runningwild/linefit/pkg/stats"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches subcommands and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "sweep":
			return runSweepCmd(args[1:], stdout, stderr)
		case "plot":
			return runPlotCmd(args[1:], stdout, stderr)
		case "history":
			return runHistoryCmd(args[1:], stdout, stderr)
		}
	}

	// Default behavior (flags -> fit)
	return runFitCmd(args, stdout, stderr)
}

// Flags holds pointers to all fit flags
type Flags struct {
	// Config File (optional)
	ConfigFile  *string
	WriteConfig *string

	Output         *string
	Confidence     *float64
	Threshold      *float64
	InlierFraction *float64
	Seed           *uint64
	Workers        *int
	MaxTrials      *int
	FixedTrials    *bool
	Refine         *bool
	TimeBudget     *time.Duration

	// Reporting
	ReportFile  *string
	PlotFile    *string
	HistoryFile *string
	Debug       *bool
}

func SetupFlags(fs *flag.FlagSet) *Flags {
	def := config.Default()
	f := &Flags{}
	f.ConfigFile = fs.String("config", "", "Path to configuration file (disables the fit flags)")
	f.WriteConfig = fs.String("write-config", "", "Save the effective configuration to this YAML file")

	f.Output = fs.String("out", def.Output, "Output file")
	fs.StringVar(f.Output, "o", def.Output, "Shorthand for -out")
	f.Confidence = fs.Float64("confidence", def.Fit.Confidence, "Probability that some sample is outlier-free, in (0,1)")
	fs.Float64Var(f.Confidence, "c", def.Fit.Confidence, "Shorthand for -confidence")
	f.Threshold = fs.Float64("threshold", def.Fit.Threshold, "Inlier distance threshold")
	fs.Float64Var(f.Threshold, "t", def.Fit.Threshold, "Shorthand for -threshold")
	f.InlierFraction = fs.Float64("inlier", def.Fit.InlierFraction, "Approximate inlier fraction, in (0,1]")
	fs.Float64Var(f.InlierFraction, "i", def.Fit.InlierFraction, "Shorthand for -inlier")

	f.Seed = fs.Uint64("seed", def.Fit.Seed, "Random seed; equal seeds give equal results")
	f.Workers = fs.Int("workers", def.Fit.Workers, "Trials evaluated concurrently")
	f.MaxTrials = fs.Int("max-trials", def.Fit.MaxTrials, "Upper bound on the number of trials")
	f.FixedTrials = fs.Bool("fixed-trials", false, "Run the full trial count computed from -inlier")
	f.Refine = fs.Bool("refine", false, "Refit each hypothesis by least squares over its inliers")
	f.TimeBudget = fs.Duration("time-budget", 0, "Stop after this long and keep the best line so far (0 = no limit)")

	f.ReportFile = fs.String("report", "", "Write a JSON run report to this file")
	f.PlotFile = fs.String("plot", "", "Render the result to this PNG file")
	f.HistoryFile = fs.String("history", "", "Append the run to this SQLite history database")
	f.Debug = fs.Bool("debug", false, "Log every trial")
	return f
}

// LoadConfig determines the config source (file or flags) and returns a Config object.
// A positional input file overrides the one named in a config file.
func (f *Flags) LoadConfig(input string) (*config.Config, error) {
	if *f.ConfigFile != "" {
		cfg, err := config.Load(*f.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if input != "" {
			cfg.Input = input
		}
		return cfg, nil
	}

	return &config.Config{
		Input:  input,
		Output: *f.Output,
		Fit: config.Fit{
			Confidence:     *f.Confidence,
			Threshold:      *f.Threshold,
			InlierFraction: *f.InlierFraction,
			Seed:           *f.Seed,
			Workers:        *f.Workers,
			MaxTrials:      *f.MaxTrials,
			FixedTrials:    *f.FixedTrials,
			Refine:         *f.Refine,
			TimeBudget:     *f.TimeBudget,
		},
		Report:  *f.ReportFile,
		Plot:    *f.PlotFile,
		History: *f.HistoryFile,
	}, nil
}

func (f *Flags) MaybeWriteConfig(cfg *config.Config) {
	if *f.WriteConfig == "" {
		return
	}
	if err := cfg.Save(*f.WriteConfig); err != nil {
		logger.L().Warn("config.write_failed", "path", *f.WriteConfig, "err", err)
		return
	}
	logger.L().Info("config.written", "path", *f.WriteConfig)
}

// parseArgs parses flags and positional arguments in any order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s\n\nOptions:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func runFitCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("linefit", "linefit [flags] <points-file>", stderr)
	f := SetupFlags(fs)
	positional, err := parseArgs(fs, args)
	if err != nil {
		// Includes -help, which exits 1 like any other unfinished run.
		return 1
	}
	if len(positional) > 1 {
		fmt.Fprintf(stderr, "Error: expected one points file, got %d\n", len(positional))
		fs.Usage()
		return 1
	}
	input := ""
	if len(positional) == 1 {
		input = positional[0]
	}

	cleanup := logger.Setup(logger.Config{Debug: *f.Debug, Writer: stderr})
	defer cleanup()

	cfg, err := f.LoadConfig(input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.Input == "" {
		fs.Usage()
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	f.MaybeWriteConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runFitLogic(ctx, cfg, stdout, stderr)
}

// fitReport is the JSON document written by -report.
type fitReport struct {
	RunID     string        `json:"run_id"`
	Input     string        `json:"input"`
	Points    int           `json:"points"`
	Params    ransac.Params `json:"params"`
	Result    resultSummary `json:"result"`
	Residuals stats.Summary `json:"residuals"`
	Trials    stats.Summary `json:"trial_inliers"`
}

type resultSummary struct {
	Status         string     `json:"status"`
	Reason         string     `json:"reason"`
	Error          string     `json:"error,omitempty"`
	Trials         int        `json:"trials"`
	Degenerate     int        `json:"degenerate"`
	RequiredTrials int        `json:"required_trials"`
	InlierFraction float64    `json:"inlier_fraction"`
	Inliers        int        `json:"inliers"`
	Refined        bool       `json:"refined"`
	P0             [2]float64 `json:"p0"`
	P1             [2]float64 `json:"p1"`
	ElapsedMs      float64    `json:"elapsed_ms"`
}

func runFitLogic(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	log := logger.L()
	runID := uuid.New().String()

	points, err := pointio.ReadFile(cfg.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to read point data from file '%s': %v\n", cfg.Input, err)
		return 1
	}

	params := cfg.Params()
	trialStats := stats.NewTrials(len(points))
	params.Progress = func(tr ransac.Trial) {
		trialStats.Observe(tr)
		log.Debug("trial", "index", tr.Index, "inliers", tr.Inliers, "best", tr.BestInliers,
			"required", tr.RequiredTrials, "w", tr.InlierFraction)
	}
	eng, err := ransac.New(params)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log.Info("fit.start", "run_id", runID, "input", cfg.Input, "points", len(points),
		"confidence", params.Confidence, "threshold", params.Threshold,
		"inlier_fraction", params.InlierFraction, "seed", params.Seed, "workers", params.Workers)

	res, fitErr := eng.Fit(ctx, points)

	rep := fitReport{
		RunID:  runID,
		Input:  cfg.Input,
		Points: len(points),
		Params: eng.Params(),
		Result: resultSummary{
			Status:         res.Status.String(),
			Reason:         res.Reason,
			Trials:         res.Trials,
			Degenerate:     res.Degenerate,
			RequiredTrials: res.RequiredTrials,
			InlierFraction: res.InlierFraction,
			Inliers:        res.Inliers,
			Refined:        res.Refined,
			ElapsedMs:      float64(res.Elapsed.Microseconds()) / 1000,
		},
		Trials: trialStats.Summary(),
	}

	code := 0
	if fitErr != nil {
		rep.Result.Error = fitErr.Error()
		log.Error("fit.failed", "run_id", runID, "trials", res.Trials, "degenerate", res.Degenerate, "err", fitErr)
		code = 1
	} else {
		rep.Result.P0 = [2]float64{res.Line.P0.X, res.Line.P0.Y}
		rep.Result.P1 = [2]float64{res.Line.P1.X, res.Line.P1.Y}
		rep.Residuals = stats.Residuals(res.Line, points, res.Mask)

		out := pointio.Result{P0: res.Line.P0, P1: res.Line.P1, Points: points, Inliers: res.Mask}
		if err := pointio.WriteFile(cfg.Output, out); err != nil {
			fmt.Fprintf(stderr, "Failed to write output: %v\n", err)
			return 1
		}
		if cfg.Plot != "" {
			if err := render.SavePNG(cfg.Plot, out, cfg.Input); err != nil {
				log.Error("plot.failed", "path", cfg.Plot, "err", err)
				code = 1
			} else {
				log.Info("plot.written", "path", cfg.Plot)
			}
		}

		log.Info("fit.done", "run_id", runID, "inliers", res.Inliers, "trials", res.Trials,
			"reason", res.Reason, "refined", res.Refined,
			"residual_mean", rep.Residuals.Mean, "residual_max", rep.Residuals.Max,
			"elapsed", res.Elapsed)

		fmt.Fprintf(stdout, "\n>>> Fit Complete <<<\n")
		fmt.Fprintf(stdout, "Line:    (%s, %s) -> (%s, %s)\n",
			pointio.FormatFloat(res.Line.P0.X), pointio.FormatFloat(res.Line.P0.Y),
			pointio.FormatFloat(res.Line.P1.X), pointio.FormatFloat(res.Line.P1.Y))
		fmt.Fprintf(stdout, "Inliers: %d of %d (%d trials, %s)\n", res.Inliers, len(points), res.Trials, res.Reason)
		fmt.Fprintf(stdout, "Output written to %s\n", cfg.Output)
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, rep); err != nil {
			log.Error("report.failed", "path", cfg.Report, "err", err)
			code = 1
		} else {
			log.Info("report.written", "path", cfg.Report)
		}
	}

	if cfg.History != "" {
		entry := runlog.Run{
			ID:             runID,
			Input:          cfg.Input,
			Points:         len(points),
			Confidence:     params.Confidence,
			Threshold:      params.Threshold,
			InlierFraction: params.InlierFraction,
			Seed:           params.Seed,
			Workers:        eng.Params().Workers,
			Status:         res.Status.String(),
			Reason:         res.Reason,
			Trials:         res.Trials,
			Inliers:        res.Inliers,
			P0:             res.Line.P0,
			P1:             res.Line.P1,
		}
		if err := recordRun(ctx, cfg.History, &entry); err != nil {
			log.Error("history.failed", "path", cfg.History, "err", err)
			code = 1
		}
	}
	return code
}

func writeReport(path string, rep fitReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func recordRun(ctx context.Context, path string, r *runlog.Run) error {
	store, err := runlog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	// The run already happened; record it even if the fit was interrupted.
	return store.Record(context.WithoutCancel(ctx), r)
}
