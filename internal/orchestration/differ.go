package orchestration

import (
	"context"
	"crypto/sha256"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/sitterdiff/internal/config"
	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/logging"
	"github.com/agbru/sitterdiff/internal/metrics"
	"github.com/agbru/sitterdiff/internal/sitter"
	"github.com/agbru/sitterdiff/internal/truediff"
)

// Options configures a Differ.
type Options struct {
	Diff truediff.Options
	// CacheSize bounds the number of prepared trees kept, keyed by the
	// SHA-256 of their source. Zero disables caching.
	CacheSize int
	// Concurrency bounds DiffAll. Values below one mean one.
	Concurrency int
	// Timeout bounds a single diff, parsing included. Zero means none.
	Timeout time.Duration
	Logger  logging.Logger
	Errors  ErrorObserver
}

// Differ parses, prepares and compares sources of one language.
type Differ struct {
	parser *sitter.Parser
	opts   Options
	logger logging.Logger
	cache  *lru.Cache[[sha256.Size]byte, *truediff.Prepared]
}

// NewDiffer builds a Differ around parser.
func NewDiffer(parser *sitter.Parser, opts Options) (*Differ, error) {
	if parser == nil {
		return nil, apperrors.Grammar("a parser is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Diff.Logger == nil {
		opts.Diff.Logger = logger
	}
	d := &Differ{parser: parser, opts: opts, logger: logger}
	if opts.CacheSize > 0 {
		cache, err := lru.New[[sha256.Size]byte, *truediff.Prepared](opts.CacheSize)
		if err != nil {
			return nil, apperrors.Convert(err)
		}
		d.cache = cache
	}
	return d, nil
}

// NewFromConfig resolves the language and profile named by cfg and builds
// a Differ for them. m may be nil.
func NewFromConfig(cfg config.AppConfig, logger logging.Logger, m *metrics.Metrics) (*Differ, error) {
	name := cfg.Language
	var (
		profile *sitter.Profile
		err     error
	)
	if cfg.ProfilePath != "" {
		profile, err = sitter.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, apperrors.WrapError(err, "profile %s", cfg.ProfilePath)
		}
		if profile.Language != "" {
			name = profile.Language
		}
	} else {
		profile, err = sitter.BuiltinProfile(name)
	}
	if err != nil {
		return nil, err
	}
	lang, err := sitter.Builtin(name)
	if err != nil {
		return nil, err
	}
	literals, err := profile.LiteralMap(lang)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser(lang, literals)
	parser.AllowSyntaxErrors = cfg.AllowSyntaxErrors

	diffOpts := truediff.DefaultOptions()
	diffOpts.FuseEdits = cfg.FuseEdits
	diffOpts.PreferLiterals = cfg.PreferLiterals
	diffOpts.Logger = logger
	opts := Options{
		Diff:        diffOpts,
		CacheSize:   cfg.CacheSize,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	}
	if m != nil {
		opts.Diff.Recorder = m
		opts.Errors = m
	}
	return NewDiffer(parser, opts)
}

// Parser returns the parser the Differ was built with.
func (d *Differ) Parser() *sitter.Parser { return d.parser }

// Close releases the parser's resources.
func (d *Differ) Close() { d.parser.Close() }

// Prepare parses and hashes source, consulting the cache.
func (d *Differ) Prepare(ctx context.Context, source []byte) (*truediff.Prepared, error) {
	return d.prepare(ctx, sha256.Sum256(source), source, true)
}

func (d *Differ) prepare(ctx context.Context, key [sha256.Size]byte, source []byte, useCache bool) (*truediff.Prepared, error) {
	if useCache && d.cache != nil {
		if p, ok := d.cache.Get(key); ok {
			return p, nil
		}
	}
	root, err := d.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	p := truediff.Prepare(root, d.parser.Literals())
	if useCache && d.cache != nil {
		d.cache.Add(key, p)
	}
	return p, nil
}

// DiffSources compares two source texts. Both sides are parsed
// concurrently.
func (d *Differ) DiffSources(ctx context.Context, oldSource, newSource []byte) (*truediff.Result, error) {
	res, err := d.diffSources(ctx, oldSource, newSource)
	if err != nil {
		d.observe(err)
		return nil, err
	}
	return res, nil
}

func (d *Differ) diffSources(ctx context.Context, oldSource, newSource []byte) (*truediff.Result, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	oldKey, newKey := sha256.Sum256(oldSource), sha256.Sum256(newSource)
	var oldTree, newTree *truediff.Prepared
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		oldTree, err = d.prepare(gctx, oldKey, oldSource, true)
		return err
	})
	g.Go(func() error {
		var err error
		// Equal sources would share one cached tree; the new side must
		// carry its own node identities.
		newTree, err = d.prepare(gctx, newKey, newSource, oldKey != newKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return truediff.Compare(ctx, oldTree, newTree, d.opts.Diff)
}

// DiffFiles reads and compares two files.
func (d *Differ) DiffFiles(ctx context.Context, oldPath, newPath string) (*truediff.Result, error) {
	oldSource, err := os.ReadFile(oldPath)
	if err != nil {
		err = apperrors.FromIO(err)
		d.observe(err)
		return nil, err
	}
	newSource, err := os.ReadFile(newPath)
	if err != nil {
		err = apperrors.FromIO(err)
		d.observe(err)
		return nil, err
	}
	res, err := d.DiffSources(ctx, oldSource, newSource)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("files compared",
		logging.String("old", oldPath),
		logging.String("new", newPath),
		logging.Int("edits", res.Stats.Edits))
	return res, nil
}

func (d *Differ) observe(err error) {
	if d.opts.Errors != nil {
		d.opts.Errors.ObserveError(err)
	}
}
