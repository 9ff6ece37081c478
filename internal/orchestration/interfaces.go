package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/sitterdiff/internal/truediff"
)

// Pair names two files to compare.
type Pair struct {
	// Name labels the pair in summaries. It defaults to NewPath.
	Name    string
	OldPath string
	NewPath string
}

// Label returns Name, or NewPath when Name is empty.
func (p Pair) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.NewPath
}

// PairResult is the outcome of diffing one pair.
type PairResult struct {
	Pair
	// Result is nil if an error occurred.
	Result   *truediff.Result
	Duration time.Duration
	Err      error
}

// ProgressUpdate reports that one pair of a batch has finished.
type ProgressUpdate struct {
	Index    int
	Name     string
	Duration time.Duration
	Err      error
}

// ProgressReporter displays batch progress. DisplayProgress runs in its own
// goroutine until progressChan is closed and must call wg.Done on return.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, total int, out io.Writer)
}

// NullProgressReporter drains the progress channel without displaying
// anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ErrorObserver is told about every failed diff.
type ErrorObserver interface {
	ObserveError(err error)
}
