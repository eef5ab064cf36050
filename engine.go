package decltree

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jward/decltree/internal/config"
	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/objc"
	"github.com/jward/decltree/internal/runtime"
	"github.com/jward/decltree/internal/sourcekit"
	"github.com/jward/decltree/internal/store"
	"github.com/jward/decltree/scripts"
)

// metaLastIndexed is the metadata key recording the end of the last
// IndexUnits call that wrote anything.
const metaLastIndexed = "last_indexed"

// Engine builds declaration trees from front-end output and persists them
// to SQLite for querying.
type Engine struct {
	store   *store.Store
	runtime *runtime.Runtime
	logger  *slog.Logger

	languages map[Language]bool // nil means all languages

	// predicate decides which Objective-C cursors are documented. When nil
	// after options, it is compiled from predicateScript.
	predicate       Predicate
	predicateScript string
	scriptsDir      string
	scriptsFS       fs.FS

	useParallel bool
	workers     int // 0 means one per CPU
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for indexing progress and script output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLanguages restricts which languages the Engine will index. Units in
// other languages are skipped.
func WithLanguages(languages ...Language) Option {
	return func(e *Engine) {
		e.languages = make(map[Language]bool, len(languages))
		for _, lang := range languages {
			e.languages[lang] = true
		}
	}
}

// WithParallel controls parallel building. When true (default), IndexUnits
// builds units on a bounded worker pool, with a single writer committing
// batches to SQLite. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithWorkers bounds the parallel worker pool. n <= 0 means one worker per
// CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = max(n, 0)
	}
}

// WithPredicate sets the Objective-C documentability predicate directly,
// bypassing scripts.
func WithPredicate(pred Predicate) Option {
	return func(e *Engine) {
		e.predicate = pred
	}
}

// WithPredicateScript loads the documentability predicate from a Risor
// script on disk. Imports in the script resolve against its directory.
func WithPredicateScript(path string) Option {
	return func(e *Engine) {
		e.predicate = nil
		e.scriptsFS = nil
		e.scriptsDir = filepath.Dir(path)
		e.predicateScript = filepath.Base(path)
	}
}

// WithScriptsFS loads the documentability predicate from the script name
// in fsys. Imports resolve within fsys.
func WithScriptsFS(fsys fs.FS, name string) Option {
	return func(e *Engine) {
		e.predicate = nil
		e.scriptsFS = fsys
		e.scriptsDir = ""
		e.predicateScript = name
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
// The documentability predicate comes from whichever of WithPredicate,
// WithPredicateScript and WithScriptsFS is applied last, or from the
// embedded default script when none is.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("decltree: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("decltree: migrate: %w", err)
	}

	e := &Engine{
		store:           s,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		predicateScript: scripts.Document,
		scriptsFS:       scripts.FS,
		useParallel:     true, // default to parallel building
	}
	for _, opt := range opts {
		opt(e)
	}

	rtOpts := []runtime.RuntimeOption{runtime.WithLogger(e.logger)}
	if e.scriptsFS != nil {
		rtOpts = append(rtOpts, runtime.WithRuntimeFS(e.scriptsFS))
	}
	e.runtime = runtime.NewRuntime(s, e.scriptsDir, rtOpts...)

	if e.predicate == nil {
		pred, err := e.runtime.PredicateFromScript(context.Background(), e.predicateScript)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("decltree: predicate: %w", err)
		}
		e.predicate = pred
	}
	return e, nil
}

// NewFromConfig creates an Engine from loaded configuration. opts are
// applied after the configuration and take precedence.
func NewFromConfig(cfg *Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("decltree: %w", err)
	}
	return New(cfg.Database, append(configOptions(cfg), opts...)...)
}

func configOptions(cfg *config.Config) []Option {
	opts := []Option{
		WithParallel(cfg.Parallel),
		WithWorkers(cfg.Workers),
	}
	if len(cfg.Languages) > 0 {
		langs := make([]Language, 0, len(cfg.Languages))
		for _, l := range cfg.Languages {
			// Validate has already rejected unknown names.
			lang, _ := decl.ParseLanguage(l)
			langs = append(langs, lang)
		}
		opts = append(opts, WithLanguages(langs...))
	}
	if cfg.Predicate != "" {
		opts = append(opts, WithPredicateScript(cfg.Predicate))
	}
	return opts
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// LastIndexed reports when IndexUnits last wrote to the database.
func (e *Engine) LastIndexed() (time.Time, bool) {
	v, err := e.store.GetMetadata(metaLastIndexed)
	if err != nil || v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Unit is one file's front-end output. Swift units carry Records, the
// top-level structure records of the file; Objective-C units carry Cursors,
// the top-level cursors of the translation unit that belong to the file.
type Unit struct {
	Path     string
	Language Language
	Records  []Record
	Cursors  []Cursor
}

// SwiftUnit makes a Unit from a SourceKit structure dump of the file at
// path.
func SwiftUnit(path string, dump Record) Unit {
	return Unit{Path: path, Language: LanguageSwift, Records: sourcekit.FileRecords(dump)}
}

// ObjCUnit makes a Unit from materialized cursors of the file at path.
func ObjCUnit(path string, nodes []*Node) Unit {
	return Unit{Path: path, Language: LanguageObjC, Cursors: objc.Cursors(nodes)}
}

// builtUnit is a unit after building, ready to be written.
type builtUnit struct {
	unit  Unit
	decls []Declaration
	hash  string
}

// build runs the unit's front-end builder. It never touches the Store.
func (e *Engine) build(u Unit) (*builtUnit, error) {
	var decls []Declaration
	switch u.Language {
	case LanguageSwift:
		decls = declarations(sourcekit.BuildAll(u.Records))
	case LanguageObjC:
		decls = declarations(objc.BuildAll(u.Cursors, e.predicate))
	default:
		return nil, fmt.Errorf("unsupported language %s", u.Language)
	}
	return &builtUnit{unit: u, decls: decls, hash: store.ComputeTreeHash(decls)}, nil
}

func declarations[D Declaration](in []D) []Declaration {
	out := make([]Declaration, len(in))
	for i, d := range in {
		out[i] = d
	}
	return out
}

// accepts reports whether the unit's language passes WithLanguages.
func (e *Engine) accepts(u Unit) bool {
	return e.languages == nil || e.languages[u.Language]
}

// IndexUnits builds and stores each unit. When WithParallel is enabled,
// units are built on a worker pool and committed by a single writer.
// Otherwise falls back to the serial path.
//
// For each unit:
// 1. Skip filtered-out languages
// 2. Build the declaration tree and hash it
// 3. Skip units whose stored tree hash is unchanged
// 4. Replace the file's stored declarations
//
// Errors on individual units are collected and processing continues. A
// cancelled ctx stops new units from starting.
func (e *Engine) IndexUnits(ctx context.Context, units []Unit) error {
	var err error
	if e.useParallel {
		err = e.indexUnitsParallel(ctx, units)
	} else {
		err = e.indexUnitsSerial(ctx, units)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && err == nil {
		err = fmt.Errorf("decltree: index units: %w", ctxErr)
	}
	return err
}

func (e *Engine) indexUnitsSerial(ctx context.Context, units []Unit) error {
	var errs []error
	wrote := false
	for _, u := range units {
		if ctx.Err() != nil {
			break
		}
		if !e.accepts(u) {
			e.logger.Debug("skipping filtered unit", "path", u.Path, "language", u.Language)
			continue
		}
		b, err := e.build(u)
		if err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", u.Path, err))
			continue
		}
		changed, err := e.write(b, func(fileID int64) error {
			_, err := store.InsertTree(e.store, fileID, b.decls)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", u.Path, err))
			continue
		}
		wrote = wrote || changed
	}
	e.finish(wrote, errs)
	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// write replaces the stored declarations of b's file when its hash
// differs from the stored one. insert writes the declarations for the new
// file ID. Reports whether anything was written.
func (e *Engine) write(b *builtUnit, insert func(fileID int64) error) (bool, error) {
	existing, err := e.store.FileByPath(b.unit.Path)
	if err != nil {
		return false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == b.hash && existing.Language == b.unit.Language.String() {
		e.logger.Debug("skipping unchanged unit", "path", b.unit.Path)
		return false, nil
	}

	if existing != nil {
		if err := e.store.DeleteFileData(existing.ID); err != nil {
			return false, fmt.Errorf("delete old data: %w", err)
		}
	}

	fileID, err := e.store.InsertFile(&store.File{
		Path:        b.unit.Path,
		Language:    b.unit.Language.String(),
		Hash:        b.hash,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("insert file: %w", err)
	}
	if err := insert(fileID); err != nil {
		// Drop the half-written file so the next run does not skip it.
		if derr := e.store.DeleteFileData(fileID); derr != nil {
			e.logger.Warn("failed to drop half-written unit", "path", b.unit.Path, "err", derr)
		}
		return false, fmt.Errorf("insert declarations: %w", err)
	}
	e.logger.Info("indexed unit",
		"path", b.unit.Path,
		"language", b.unit.Language,
		"declarations", countDeclarations(b.decls))
	return true, nil
}

// finish logs the failures of a run and records its time when anything was
// written.
func (e *Engine) finish(wrote bool, errs []error) {
	for _, err := range errs {
		e.logger.Warn("index unit failed", "err", err)
	}
	if wrote {
		if err := e.store.SetMetadata(metaLastIndexed, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
			e.logger.Warn("record index time", "err", err)
		}
	}
}

func countDeclarations(decls []Declaration) int {
	n := 0
	decl.Walk(decls, func(Declaration, int) bool {
		n++
		return true
	})
	return n
}
