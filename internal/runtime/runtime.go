// Package runtime embeds a Risor VM so that documentability decisions for
// Objective-C cursors can be scripted instead of compiled in.
package runtime

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"
	"github.com/risor-io/risor/parser"

	"github.com/jward/decltree/internal/store"
)

// scriptExt is the extension imports resolve against.
const scriptExt = ".risor"

// Runtime evaluates Risor scripts with host functions for logging and, when
// a Store is attached, read access to previously indexed declarations.
type Runtime struct {
	store      *store.Store
	scriptsDir string
	fsys       fs.FS
	logger     *slog.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS reads scripts and resolves their imports in fsys rather
// than under the scripts directory.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger routes the script-facing log global and predicate failures to
// logger.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// NewRuntime creates a Runtime reading scripts from scriptsDir. s may be
// nil, in which case scripts get no store host functions.
func NewRuntime(s *store.Store, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		store:      s,
		scriptsDir: scriptsDir,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript evaluates the script at path with vars set as globals and
// returns its final value.
func (r *Runtime) RunScript(ctx context.Context, path string, vars map[string]any) (object.Object, error) {
	src, err := r.LoadScript(path)
	if err != nil {
		return nil, err
	}
	return r.eval(ctx, src, path, vars)
}

// RunSource is RunScript for source held in memory.
func (r *Runtime) RunSource(ctx context.Context, source string, vars map[string]any) (object.Object, error) {
	return r.eval(ctx, source, "<inline>", vars)
}

// LoadScript returns the source of the script at path. Relative paths are
// taken under the scripts directory, or inside the runtime FS when one is
// set.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		return r.readFS(path)
	}
	return r.readDisk(path)
}

func (r *Runtime) readFS(path string) (string, error) {
	// fs.FS names never start with a separator.
	name := strings.TrimPrefix(filepath.ToSlash(path), "/")
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", fmt.Errorf("runtime: script %s from fs: %w", name, err)
	}
	return string(data), nil
}

func (r *Runtime) readDisk(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.scriptsDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("runtime: script %s: %w", path, err)
	}
	return string(data), nil
}

func (r *Runtime) eval(ctx context.Context, source, label string, vars map[string]any) (object.Object, error) {
	code, err := r.compile(ctx, source, label, vars)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, code, label, vars)
}

// compile parses and compiles source against the host globals and the
// names in vars. The code can run any number of times, concurrently, as
// long as each run supplies the same global names.
func (r *Runtime) compile(ctx context.Context, source, label string, vars map[string]any) (*compiler.Code, error) {
	cfg := risor.NewConfig(r.options(r.globals(vars))...)
	tree, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("runtime: script %s: %w", label, err)
	}
	code, err := compiler.Compile(tree, cfg.CompilerOpts()...)
	if err != nil {
		return nil, fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return code, nil
}

func (r *Runtime) run(ctx context.Context, code *compiler.Code, label string, vars map[string]any) (object.Object, error) {
	result, err := risor.EvalCode(ctx, code, r.options(r.globals(vars))...)
	if err != nil {
		return nil, fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return result, nil
}

// options sets globals and, when the runtime has a script source, an
// importer. Imported modules see the same globals as the script itself.
func (r *Runtime) options(globals map[string]any) []risor.Option {
	opts := make([]risor.Option, 0, len(globals)+1)
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.importer(slices.Collect(maps.Keys(globals))); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}
	return opts
}

// importer resolves import statements in the runtime FS or the scripts
// directory. Nil when the runtime has neither.
func (r *Runtime) importer(globalNames []string) importer.Importer {
	switch {
	case r.fsys != nil:
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{scriptExt},
		})
	case r.scriptsDir != "":
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{scriptExt},
		})
	}
	return nil
}

// globals merges the host globals with vars. vars win on name clashes.
func (r *Runtime) globals(vars map[string]any) map[string]any {
	g := map[string]any{
		"log": proxy(&logObject{logger: r.logger}),
	}
	if r.store != nil {
		maps.Copy(g, storeFuncs(r.store))
	}
	maps.Copy(g, vars)
	return g
}

func proxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy %T: %v", v, err))
	}
	return p
}
