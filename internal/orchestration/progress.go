package orchestration

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/sitterdiff/internal/format"
)

// Progress is the aggregated state of a batch after an update.
type Progress struct {
	Done     int
	Failed   int
	Total    int
	Fraction float64
}

// ProgressCounter aggregates progress updates of one batch.
type ProgressCounter struct {
	total  int
	done   int
	failed int
}

// NewProgressCounter creates a counter for total pairs. Returns nil if
// total <= 0.
func NewProgressCounter(total int) *ProgressCounter {
	if total <= 0 {
		return nil
	}
	return &ProgressCounter{total: total}
}

// Update records one finished pair.
func (c *ProgressCounter) Update(update ProgressUpdate) Progress {
	c.done++
	if update.Err != nil {
		c.failed++
	}
	return Progress{
		Done:     c.done,
		Failed:   c.failed,
		Total:    c.total,
		Fraction: float64(c.done) / float64(c.total),
	}
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}

// TextProgressReporter writes one line per finished pair:
//
//	[ 2/5] ████████░░░░░░░░░░░░ b.json ok 3ms
type TextProgressReporter struct {
	// BarWidth is the number of cells of the progress bar; zero hides it.
	BarWidth int
}

var _ ProgressReporter = TextProgressReporter{}

// DisplayProgress prints each update as it arrives.
func (r TextProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, total int, out io.Writer) {
	defer wg.Done()
	counter := NewProgressCounter(total)
	if counter == nil {
		DrainChannel(progressChan)
		return
	}
	width := len(fmt.Sprint(total))
	for update := range progressChan {
		p := counter.Update(update)
		status := "ok"
		if update.Err != nil {
			status = "failed: " + update.Err.Error()
		}
		bar := ""
		if r.BarWidth > 0 {
			bar = format.ProgressBar(p.Fraction, r.BarWidth) + " "
		}
		fmt.Fprintf(out, "[%*d/%d] %s%s %s %s\n", width, p.Done, p.Total, bar, update.Name, status, format.Duration(update.Duration))
	}
}
