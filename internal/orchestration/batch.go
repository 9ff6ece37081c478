package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/format"
)

// DiffAll compares every pair, at most Options.Concurrency at a time.
//
// A failing pair does not stop the others; its error is kept in its
// PairResult. The returned slice holds successes first, in input order,
// followed by failures.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - pairs: The file pairs to compare.
//   - reporter: Displays progress; nil selects NullProgressReporter.
//   - out: The io.Writer handed to the reporter.
//
// Returns:
//   - []PairResult: One result per pair.
func (d *Differ) DiffAll(ctx context.Context, pairs []Pair, reporter ProgressReporter, out io.Writer) []PairResult {
	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	results := make([]PairResult, len(pairs))
	progressChan := make(chan ProgressUpdate, len(pairs))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(pairs), out)

	var g errgroup.Group
	g.SetLimit(max(d.opts.Concurrency, 1))
	for i, p := range pairs {
		g.Go(func() error {
			start := time.Now()
			res, err := d.DiffFiles(ctx, p.OldPath, p.NewPath)
			elapsed := time.Since(start)
			results[i] = PairResult{Pair: p, Result: res, Duration: elapsed, Err: err}
			progressChan <- ProgressUpdate{Index: i, Name: p.Label(), Duration: elapsed, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Err == nil && results[j].Err != nil
	})
	return results
}

// Summarize prints a table of results and returns the process exit code:
// success when every pair was compared, otherwise the code of the first
// failure.
func Summarize(results []PairResult, out io.Writer) int {
	fmt.Fprintf(out, "\n--- Diff Summary ---\n")

	nameWidth, durationWidth := len("Pair"), len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Label()))
		durationWidth = max(durationWidth, len(format.Duration(res.Duration)))
	}
	fmt.Fprintf(out, "%-*s   %8s   %8s   %-*s   %s\n", nameWidth, "Pair", "Edits", "Reused", durationWidth, "Duration", "Status")

	var firstError error
	failed := 0
	for _, res := range results {
		edits, reused, status := "-", "-", "ok"
		if res.Err != nil {
			failed++
			if firstError == nil {
				firstError = res.Err
			}
			status = fmt.Sprintf("failed (%v)", res.Err)
		} else if res.Result != nil {
			edits = format.Count(res.Result.Stats.Edits)
			reused = format.Count(res.Result.Stats.Reused)
		}
		fmt.Fprintf(out, "%-*s   %8s   %8s   %-*s   %s\n", nameWidth, res.Label(), edits, reused, durationWidth, format.Duration(res.Duration), status)
	}

	if firstError != nil {
		fmt.Fprintf(out, "\n%d of %d pairs failed.\n", failed, len(results))
		return apperrors.ExitCode(firstError)
	}
	fmt.Fprintf(out, "\nAll %d pairs compared.\n", len(results))
	return apperrors.ExitSuccess
}
