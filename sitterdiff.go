package sitterdiff

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/sitterdiff/internal/config"
	"github.com/agbru/sitterdiff/internal/editscript"
	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/logging"
	"github.com/agbru/sitterdiff/internal/metrics"
	"github.com/agbru/sitterdiff/internal/orchestration"
	"github.com/agbru/sitterdiff/internal/render"
	"github.com/agbru/sitterdiff/internal/sitter"
	"github.com/agbru/sitterdiff/internal/tree"
	"github.com/agbru/sitterdiff/internal/truediff"
)

type (
	// Error is the single error value every failure is reported as.
	Error = apperrors.Error
	// Kind tells where an Error originated.
	Kind = apperrors.Kind
	// Config holds every setting of a diff session. See LoadConfig.
	Config = config.AppConfig
	// Profile selects the literal kinds, boolean pair and dropped tokens
	// of a language.
	Profile = sitter.Profile
	// Result is the outcome of one comparison.
	Result = truediff.Result
	// Script is an ordered list of edits.
	Script = editscript.Script
	// Node is a syntax tree node.
	Node = tree.Node
	// Metrics holds the Prometheus collectors a Differ reports to.
	Metrics = metrics.Metrics
	// Pair names two files to compare.
	Pair = orchestration.Pair
	// PairResult is the outcome of comparing one Pair.
	PairResult = orchestration.PairResult
)

const (
	KindMessage         = apperrors.KindMessage
	KindGrammar         = apperrors.KindGrammar
	KindRegex           = apperrors.KindRegex
	KindUndefinedSymbol = apperrors.KindUndefinedSymbol
	KindData            = apperrors.KindData
	KindIO              = apperrors.KindIO
	KindStylesheet      = apperrors.KindStylesheet
)

// Grammar reports a grammar failure: "Grammar error: " + message.
func Grammar(message string) *Error { return apperrors.Grammar(message) }

// Regex reports an invalid pattern: "Regex error: " + message.
func Regex(message string) *Error { return apperrors.Regex(message) }

// UndefinedSymbol reports a reference to an unknown name.
func UndefinedSymbol(name string) *Error { return apperrors.UndefinedSymbol(name) }

// FromJSON converts a JSON codec failure, keeping its text.
func FromJSON(err error) error { return apperrors.FromJSON(err) }

// FromIO converts a file system failure, keeping its text.
func FromIO(err error) error { return apperrors.FromIO(err) }

// FromStylesheet converts a stylesheet compilation failure, keeping its text.
func FromStylesheet(err error) error { return apperrors.FromStylesheet(err) }

// FromString uses s as the message.
func FromString(s string) *Error { return apperrors.FromString(s) }

// Convert maps any error onto an Error by its type.
func Convert(err error) error { return apperrors.Convert(err) }

// KindOf returns the kind of the first Error in err's chain.
func KindOf(err error) (Kind, bool) { return apperrors.KindOf(err) }

// ExitCode maps err onto a process exit status.
func ExitCode(err error) int { return apperrors.ExitCode(err) }

// DefaultConfig returns the built-in settings with host-dependent values
// filled in.
func DefaultConfig() Config { return config.ApplyAdaptiveDefaults(config.Default()) }

// LoadConfig reads the YAML file at path (none when empty), applies
// SITTERDIFF_* environment overrides and validates the result.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// LoadProfile reads a YAML profile.
func LoadProfile(path string) (*Profile, error) { return sitter.LoadProfile(path) }

// Languages lists the grammars compiled into this module.
func Languages() []string { return sitter.Builtins() }

// NewMetrics creates collectors on a private registry; serve them with
// (*Metrics).Handler.
func NewMetrics() *Metrics { return metrics.NewMetrics() }

// Apply replays script on root and returns the patched copy.
func Apply(root *Node, script *Script) (*Node, error) { return editscript.Apply(root, script) }

// WriteDOT draws both trees of res as Graphviz digraphs, matched subtrees
// sharing a colour.
func WriteDOT(w io.Writer, res *Result) error { return render.WriteDOT(w, res) }

// RenderTerminal writes the script of res, one coloured line per edit,
// followed by its statistics.
func RenderTerminal(w io.Writer, res *Result) error {
	t := render.NewTerminal(w)
	if _, err := io.WriteString(w, t.Render(res.Script)+t.RenderStats(res.Stats)+"\n"); err != nil {
		return apperrors.FromIO(err)
	}
	return nil
}

// Option adjusts a Differ built by New or NewFromConfig.
type Option func(*settings)

type settings struct {
	cfg      Config
	logger   logging.Logger
	metrics  *Metrics
	progress io.Writer
}

// WithFuseEdits toggles merging Load+Attach and Detach+Unload edits.
func WithFuseEdits(on bool) Option { return func(s *settings) { s.cfg.FuseEdits = on } }

// WithPreferLiterals toggles the literal-equal matching pass.
func WithPreferLiterals(on bool) Option { return func(s *settings) { s.cfg.PreferLiterals = on } }

// WithSyntaxErrors accepts sources whose parse contains error nodes.
func WithSyntaxErrors() Option { return func(s *settings) { s.cfg.AllowSyntaxErrors = true } }

// WithCacheSize bounds the prepared-tree cache. Zero disables it.
func WithCacheSize(n int) Option { return func(s *settings) { s.cfg.CacheSize = n } }

// WithConcurrency bounds DiffAll.
func WithConcurrency(n int) Option { return func(s *settings) { s.cfg.Concurrency = n } }

// WithTimeout bounds each comparison.
func WithTimeout(d time.Duration) Option { return func(s *settings) { s.cfg.Timeout = d } }

// WithStylesheet themes WriteHTML reports. .scss and .sass themes are
// compiled with the Dart Sass binary at sassBinary.
func WithStylesheet(path, sassBinary string) Option {
	return func(s *settings) {
		s.cfg.StylesheetPath = path
		s.cfg.SassBinary = sassBinary
	}
}

// WithLogger logs through logger instead of the configured one.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = logging.NewZerologAdapter(logger) }
}

// WithMetrics reports every comparison and failure to m.
func WithMetrics(m *Metrics) Option { return func(s *settings) { s.metrics = m } }

// WithProgress makes DiffAll print one line per finished pair to w.
func WithProgress(w io.Writer) Option { return func(s *settings) { s.progress = w } }

// Differ compares sources of one language.
type Differ struct {
	inner    *orchestration.Differ
	logger   logging.Logger
	progress io.Writer
	html     render.HTMLOptions

	htmlOnce   sync.Once
	htmlWriter *render.HTML
	htmlErr    error
}

// New builds a Differ for the built-in grammar lang, starting from
// DefaultConfig. A nil profile selects the grammar's built-in profile; a
// profile naming another language is rejected.
func New(lang string, profile *Profile, opts ...Option) (*Differ, error) {
	cfg := DefaultConfig()
	cfg.Language = lang
	s := newSettings(cfg, opts)

	language, err := sitter.Builtin(lang)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		if profile, err = sitter.BuiltinProfile(lang); err != nil {
			return nil, err
		}
	}
	literals, err := profile.LiteralMap(language)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser(language, literals)
	parser.AllowSyntaxErrors = s.cfg.AllowSyntaxErrors

	diffOpts := truediff.DefaultOptions()
	diffOpts.FuseEdits = s.cfg.FuseEdits
	diffOpts.PreferLiterals = s.cfg.PreferLiterals
	diffOpts.Logger = s.logger
	o := orchestration.Options{
		Diff:        diffOpts,
		CacheSize:   s.cfg.CacheSize,
		Concurrency: s.cfg.Concurrency,
		Timeout:     s.cfg.Timeout,
		Logger:      s.logger,
	}
	if s.metrics != nil {
		o.Diff.Recorder = s.metrics
		o.Errors = s.metrics
	}
	inner, err := orchestration.NewDiffer(parser, o)
	if err != nil {
		parser.Close()
		return nil, err
	}
	return s.differ(inner), nil
}

// NewFromConfig builds a Differ for the language or profile cfg names.
// Options override cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Differ, error) {
	s := newSettings(config.ApplyAdaptiveDefaults(cfg), opts)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	inner, err := orchestration.NewFromConfig(s.cfg, s.logger, s.metrics)
	if err != nil {
		return nil, err
	}
	return s.differ(inner), nil
}

func newSettings(cfg Config, opts []Option) settings {
	s := settings{cfg: cfg}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = s.cfg.NewLogger(os.Stderr, "sitterdiff")
	}
	return s
}

func (s settings) differ(inner *orchestration.Differ) *Differ {
	return &Differ{
		inner:    inner,
		logger:   s.logger,
		progress: s.progress,
		html: render.HTMLOptions{
			StylesheetPath: s.cfg.StylesheetPath,
			SassBinary:     s.cfg.SassBinary,
			Logger:         s.logger,
		},
	}
}

// DiffSources compares two source texts.
func (d *Differ) DiffSources(ctx context.Context, oldSource, newSource []byte) (*Result, error) {
	return d.inner.DiffSources(ctx, oldSource, newSource)
}

// DiffFiles reads and compares two files.
func (d *Differ) DiffFiles(ctx context.Context, oldPath, newPath string) (*Result, error) {
	return d.inner.DiffFiles(ctx, oldPath, newPath)
}

// DiffAll compares every pair, WithConcurrency pairs at a time. Failed
// pairs carry their error and come after the successful ones.
func (d *Differ) DiffAll(ctx context.Context, pairs []Pair) []PairResult {
	if d.progress == nil {
		return d.inner.DiffAll(ctx, pairs, nil, io.Discard)
	}
	return d.inner.DiffAll(ctx, pairs, orchestration.TextProgressReporter{BarWidth: 20}, d.progress)
}

// Summarize prints a table of results to w and returns the exit status
// of the batch.
func Summarize(results []PairResult, w io.Writer) int {
	return orchestration.Summarize(results, w)
}

// WriteHTML writes a report page for res. The theme is loaded, and
// compiled when it is Sass, on first use.
func (d *Differ) WriteHTML(w io.Writer, res *Result) error {
	d.htmlOnce.Do(func() {
		d.htmlWriter, d.htmlErr = render.NewHTML(d.html)
	})
	if d.htmlErr != nil {
		return d.htmlErr
	}
	return d.htmlWriter.Write(w, res)
}

// Close releases the parsers held by d.
func (d *Differ) Close() { d.inner.Close() }
