package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/runningwild/linefit/pkg/pointio"
	"github.com/runningwild/linefit/pkg/render"
	"github.com/runningwild/linefit/pkg/runlog"
)

// runPlotCmd handles "linefit plot <result-file> <png-file>"
func runPlotCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("plot", "linefit plot [flags] <result-file> <png-file>", stderr)
	title := fs.String("title", "", "Plot title (defaults to the result file name)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return 1
	}
	if len(positional) != 2 {
		fs.Usage()
		return 1
	}
	in, out := positional[0], positional[1]
	if *title == "" {
		*title = in
	}

	res, err := pointio.ReadResultFile(in)
	if err != nil {
		fmt.Fprintf(stderr, "Unable to read result file '%s': %v\n", in, err)
		return 1
	}
	if err := render.SavePNG(out, res, *title); err != nil {
		fmt.Fprintf(stderr, "Failed to render plot: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Plot written to %s\n", out)
	return 0
}

// runHistoryCmd handles "linefit history [flags] <db-file>"
func runHistoryCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("history", "linefit history [flags] <db-file>", stderr)
	limit := fs.Int("n", 20, "Number of runs to list (0 = all)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return 1
	}
	if len(positional) != 1 {
		fs.Usage()
		return 1
	}

	store, err := runlog.Open(positional[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.List(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tTIME\tINPUT\tSTATUS\tTHRESHOLD\tSEED\tTRIALS\tINLIERS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d/%d\n",
			r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Input, r.Status,
			pointio.FormatFloat(r.Threshold), r.Seed, r.Trials, r.Inliers, r.Points)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
