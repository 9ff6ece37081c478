//go:generate mockgen -source=truediff.go -destination=mocks/mock_observer.go -package=mocks

package truediff

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/sitterdiff/internal/editscript"
	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/logging"
	"github.com/agbru/sitterdiff/internal/tree"
)

const tracerName = "github.com/agbru/sitterdiff/internal/truediff"

// Phase names one step of a comparison.
type Phase int

const (
	PhasePrepare Phase = iota
	PhaseAssignShares
	PhaseAssignSubtrees
	PhaseComputeScript
)

var phaseNames = [...]string{
	PhasePrepare:        "prepare",
	PhaseAssignShares:   "assign_shares",
	PhaseAssignSubtrees: "assign_subtrees",
	PhaseComputeScript:  "compute_script",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Observer is notified as a comparison moves through its phases.
type Observer interface {
	PhaseStarted(phase Phase)
	PhaseFinished(phase Phase, elapsed time.Duration)
}

// Recorder receives the outcome of every successful comparison.
type Recorder interface {
	ObserveDiff(stats Stats, counts map[editscript.Kind]int)
}

// Options configures a comparison.
type Options struct {
	// FuseEdits merges Load+Attach and Detach+Unload pairs.
	FuseEdits bool
	// PreferLiterals runs a literal-digest matching pass before the
	// structural one on every height level.
	PreferLiterals bool
	Logger         logging.Logger
	Recorder       Recorder
	Observer       Observer
}

// DefaultOptions returns fused edits with literal preference and no
// logging.
func DefaultOptions() Options {
	return Options{
		FuseEdits:      true,
		PreferLiterals: true,
		Logger:         logging.NewNopLogger(),
	}
}

// Stats summarises one comparison.
type Stats struct {
	OldNodes int
	NewNodes int
	Reused   int
	Loaded   int
	Unloaded int
	Updated  int
	Edits    int
	Duration time.Duration
}

// Match pairs an old node with the new node it was reused for.
type Match struct {
	Old uuid.UUID
	New uuid.UUID
}

// Result is the outcome of a comparison.
type Result struct {
	Script *editscript.Script
	// Patched is the new tree carrying the IDs of reused old nodes. It is
	// what applying Script to the old tree yields.
	Patched *tree.Node
	Old     *Prepared
	New     *Prepared
	// Matches lists reused nodes in pre-order of the new tree.
	Matches []Match
	Stats   Stats
}

// Diff prepares both trees concurrently and compares them.
func Diff(ctx context.Context, oldRoot, newRoot *tree.Node, literals *tree.LiteralMap, opts Options) (*Result, error) {
	notifyStart(opts.Observer, PhasePrepare)
	start := time.Now()
	var oldPrepared, newPrepared *Prepared
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		oldPrepared = Prepare(oldRoot, literals)
		return gctx.Err()
	})
	g.Go(func() error {
		newPrepared = Prepare(newRoot, literals)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	notifyFinish(opts.Observer, PhasePrepare, time.Since(start))
	return Compare(ctx, oldPrepared, newPrepared, opts)
}

// Compare computes the edit script that turns oldTree into newTree.
func Compare(ctx context.Context, oldTree, newTree *Prepared, opts Options) (*Result, error) {
	if oldTree == nil || oldTree.Root == nil || newTree == nil || newTree.Root == nil {
		return nil, apperrors.Grammar("cannot compare an empty tree")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	literals := newTree.Literals
	if literals == nil {
		literals = oldTree.Literals
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "truediff.Compare")
	defer span.End()
	span.SetAttributes(
		attribute.Int("truediff.old_nodes", oldTree.Size()),
		attribute.Int("truediff.new_nodes", newTree.Size()),
	)

	start := time.Now()
	seq := 0
	this := wrap(oldTree.Root, &seq)
	seq = 0
	that := wrap(newTree.Root, &seq)
	d := &differ{
		reg:      newRegistry(),
		buf:      editscript.NewBuffer(opts.FuseEdits),
		literals: literals,
		prefer:   opts.PreferLiterals,
	}

	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("compare aborted", err)
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	runPhase(opts.Observer, PhaseAssignShares, func() { d.assignShares(this, that) })

	var assignErr error
	runPhase(opts.Observer, PhaseAssignSubtrees, func() { assignErr = d.assignSubtrees(ctx, that) })
	if assignErr != nil {
		return fail(assignErr)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	var patched *tree.Node
	runPhase(opts.Observer, PhaseComputeScript, func() {
		patched = d.computeEditScript(this, that, uuid.Nil, tree.RootKind, 0)
	})
	script := d.buf.Finalize()

	res := &Result{
		Script:  script,
		Patched: patched,
		Old:     oldTree,
		New:     newTree,
		Matches: matches(oldTree.Root.Node, newTree.Root.Node, patched),
	}
	res.Stats = collectStats(res, time.Since(start))

	span.SetAttributes(
		attribute.Int("truediff.edits", res.Stats.Edits),
		attribute.Int("truediff.reused", res.Stats.Reused),
	)
	logger.Debug("compare finished",
		logging.Int("edits", res.Stats.Edits),
		logging.Int("reused", res.Stats.Reused),
		logging.Int("loaded", res.Stats.Loaded),
		logging.Int("unloaded", res.Stats.Unloaded),
		logging.Duration("elapsed", res.Stats.Duration),
	)
	if opts.Recorder != nil {
		opts.Recorder.ObserveDiff(res.Stats, script.Counts())
	}
	return res, nil
}

func runPhase(o Observer, phase Phase, fn func()) {
	notifyStart(o, phase)
	start := time.Now()
	fn()
	notifyFinish(o, phase, time.Since(start))
}

func notifyStart(o Observer, phase Phase) {
	if o != nil {
		o.PhaseStarted(phase)
	}
}

func notifyFinish(o Observer, phase Phase, elapsed time.Duration) {
	if o != nil {
		o.PhaseFinished(phase, elapsed)
	}
}

// matches walks the new tree and the patched tree in step; patched carries
// an old ID wherever a node was reused.
func matches(oldRoot, newRoot, patched *tree.Node) []Match {
	oldIDs := tree.Index(oldRoot)
	var out []Match
	var walk func(n, p *tree.Node)
	walk = func(n, p *tree.Node) {
		if _, ok := oldIDs[p.ID]; ok {
			out = append(out, Match{Old: p.ID, New: n.ID})
		}
		for i := range n.Children {
			walk(n.Children[i], p.Children[i])
		}
	}
	walk(newRoot, patched)
	return out
}

func collectStats(res *Result, elapsed time.Duration) Stats {
	counts := res.Script.Core().Counts()
	return Stats{
		OldNodes: res.Old.Size(),
		NewNodes: res.New.Size(),
		Reused:   len(res.Matches),
		Loaded:   counts[editscript.Load],
		Unloaded: counts[editscript.Unload],
		Updated:  counts[editscript.Update],
		Edits:    res.Script.Len(),
		Duration: elapsed,
	}
}
