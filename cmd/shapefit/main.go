// Command shapefit approximates images with a sequence of flat-colored
// shapes found by an evolutionary search.
//
// Usage:
//
//	shapefit [flags] target...
//
// For every target it writes <name>.png (the approximation) and
// <name>.shapes (one committed shape per line) to the output directory,
// plus <name>.trace.png with -plot and <name>.diff.png with -diff.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/shapefit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit, returning the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "shapefit:", err)
		return 2
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	shapefit.SetLogger(logger)
	defer shapefit.SetLogger(nil)

	if err := os.MkdirAll(o.Out, 0o755); err != nil {
		fmt.Fprintln(stderr, "shapefit:", err)
		return 1
	}

	summaries := make([]summary, len(o.Targets))
	p := pool.New().WithErrors().WithMaxGoroutines(o.Jobs)
	for i, target := range o.Targets {
		p.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := runJob(jobFor(o, i, target), logger.With("target", target))
			if err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
			summaries[i] = s
			return nil
		})
	}
	err = p.Wait()

	printSummaries(stdout, summaries)
	if err != nil {
		fmt.Fprintln(stderr, "shapefit:", err)
		return 1
	}
	return 0
}

// printSummaries writes one line per finished target.
func printSummaries(w io.Writer, summaries []summary) {
	pr := message.NewPrinter(language.English)
	for _, s := range summaries {
		if s.Target == "" {
			continue
		}
		pr.Fprintf(w, "%s: %d shapes in %d iterations, difference %d -> %d (%.2f%%), stopped on %s\n",
			s.Target, s.Committed, s.Iterations,
			s.StartDifference, s.Difference, 100*s.Normalized, s.Reason)
	}
}
