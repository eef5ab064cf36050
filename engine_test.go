package decltree

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/store"
)

func names[D Declaration](decls []D) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, deref(d.Name()))
	}
	return out
}

func childNames(d Declaration) []string {
	return names(d.Children())
}

func objcUnit(path, class string, n int) Unit {
	return ObjCUnit(path, []*Node{objcInterface(path, class, n)})
}

func swiftUnit(path, name string, n int) Unit {
	return Unit{Path: path, Language: LanguageSwift, Records: swiftRecords(path, name, n)}
}

func TestNew_CreatesStoreAndRuntime(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath)
	require.NoError(t, err)
	defer e.Close()

	require.NotNil(t, e.store)
	require.NotNil(t, e.runtime)
	require.NotNil(t, e.predicate)
	require.NotNil(t, e.Store())

	// Verify the DB is usable (migration ran).
	_, err = e.Store().InsertFile(&store.File{
		Path: "A.h", Language: "objc", Hash: "abc", LastIndexed: time.Now(),
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

func TestNew_MissingPredicateScript(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	_, err := New(dbPath, WithScriptsFS(fstest.MapFS{}, "missing.risor"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "predicate")
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, e.Close())
}

func TestWithLanguages(t *testing.T) {
	e := newTestEngine(t, WithLanguages(LanguageObjC))

	assert.True(t, e.languages[LanguageObjC])
	assert.False(t, e.languages[LanguageSwift])
}

func TestWithWorkers(t *testing.T) {
	assert.Equal(t, 3, newTestEngine(t, WithWorkers(3)).workers)
	assert.Equal(t, 0, newTestEngine(t, WithWorkers(-2)).workers)
}

func TestQuery_ReturnsQueryBuilder(t *testing.T) {
	e := newTestEngine(t)
	require.NotNil(t, e.Query())
}

func TestIndexUnits_Swift(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		require.NoError(t, e.IndexUnits(context.Background(), []Unit{swiftUnit("Point.swift", "Point", 2)}))

		trees, err := e.Query().Declarations("Point.swift")
		require.NoError(t, err)
		require.Len(t, trees, 1)

		point := trees[0]
		assert.Equal(t, LanguageSwift, point.Language())
		assert.Equal(t, decl.SwiftKindStruct, point.Kind())
		assert.Equal(t, []string{"field0", "field1"}, childNames(point))
		require.NotNil(t, point.Children()[0].TypeName())
		assert.Equal(t, "Int", *point.Children()[0].TypeName())
	}
}

func TestIndexUnits_ObjCRejectsPropertyMethods(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		require.NoError(t, e.IndexUnits(context.Background(), []Unit{objcUnit("View.h", "View", 3)}))

		trees, err := e.Query().Declarations("View.h")
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, []string{"value0", "value1", "value2"}, childNames(trees[0]))
		for _, c := range trees[0].Children() {
			assert.Equal(t, decl.ObjCKindProperty, c.Kind())
		}
	}
}

func TestIndexUnits_SkipsFilteredLanguages(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel), WithLanguages(LanguageObjC))
		units := []Unit{swiftUnit("A.swift", "A", 1), objcUnit("B.h", "B", 1)}
		require.NoError(t, e.IndexUnits(context.Background(), units))

		files, err := e.Query().Files()
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "B.h", files[0].Path)
		assert.Equal(t, "objc", files[0].Language)
	}
}

func TestIndexUnits_SkipsUnchangedUnits(t *testing.T) {
	e := newTestEngine(t)
	units := []Unit{objcUnit("View.h", "View", 2)}
	require.NoError(t, e.IndexUnits(context.Background(), units))

	before, err := e.Store().FileByPath("View.h")
	require.NoError(t, err)
	require.NotNil(t, before)

	require.NoError(t, e.IndexUnits(context.Background(), units))
	after, err := e.Store().FileByPath("View.h")
	require.NoError(t, err)
	require.NotNil(t, after)

	assert.Equal(t, before.ID, after.ID, "unchanged unit should not be rewritten")
	assert.Equal(t, before.Hash, after.Hash)
}

func TestIndexUnits_ReplacesChangedUnits(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		require.NoError(t, e.IndexUnits(context.Background(), []Unit{swiftUnit("A.swift", "A", 3)}))
		before, err := e.Store().FileByPath("A.swift")
		require.NoError(t, err)

		require.NoError(t, e.IndexUnits(context.Background(), []Unit{swiftUnit("A.swift", "A", 1)}))
		after, err := e.Store().FileByPath("A.swift")
		require.NoError(t, err)
		assert.NotEqual(t, before.Hash, after.Hash)

		flat, err := e.Query().Flattened("A.swift")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "field0"}, names(flat))

		// Old rows are gone, not just hidden.
		rows, err := e.Store().DeclarationsByUSR("s:A.swiftAV5field2Sivp")
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
}

func TestIndexUnits_UnsupportedLanguageCollectsError(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		units := []Unit{
			{Path: "weird.x", Language: Language(99)},
			objcUnit("B.h", "B", 1),
		}
		err := e.IndexUnits(context.Background(), units)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 error(s)")
		assert.Contains(t, err.Error(), "unsupported language")

		// The remaining unit is still indexed.
		trees, err := e.Query().Declarations("B.h")
		require.NoError(t, err)
		assert.Len(t, trees, 1)
	}
}

func TestIndexUnits_CancelledContext(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := e.IndexUnits(ctx, []Unit{objcUnit("A.h", "A", 1), objcUnit("B.h", "B", 1)})
		require.ErrorIs(t, err, context.Canceled)

		files, err := e.Query().Files()
		require.NoError(t, err)
		assert.Empty(t, files)
	}
}

func TestIndexUnits_ParallelMatchesSerial(t *testing.T) {
	var units []Unit
	for i := range 8 {
		units = append(units,
			swiftUnit(filepathFor("S", i, ".swift"), "S", i+1),
			objcUnit(filepathFor("O", i, ".h"), "O", i+1),
		)
	}

	serial := newTestEngine(t, WithParallel(false))
	parallel := newTestEngine(t, WithParallel(true), WithWorkers(3))
	require.NoError(t, serial.IndexUnits(context.Background(), units))
	require.NoError(t, parallel.IndexUnits(context.Background(), units))

	for _, u := range units {
		want, err := serial.Query().Declarations(u.Path)
		require.NoError(t, err)
		got, err := parallel.Query().Declarations(u.Path)
		require.NoError(t, err)
		assert.Equal(t, store.ComputeTreeHash(declarations(want)), store.ComputeTreeHash(declarations(got)), u.Path)
	}
}

func filepathFor(prefix string, i int, ext string) string {
	return filepath.Join("src", prefix+string(rune('a'+i))+ext)
}

func TestLastIndexed(t *testing.T) {
	e := newTestEngine(t)
	_, ok := e.LastIndexed()
	assert.False(t, ok)

	units := []Unit{objcUnit("A.h", "A", 1)}
	require.NoError(t, e.IndexUnits(context.Background(), units))
	first, ok := e.LastIndexed()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), first, time.Minute)

	// Nothing written, nothing recorded.
	require.NoError(t, e.IndexUnits(context.Background(), units))
	second, ok := e.LastIndexed()
	require.True(t, ok)
	assert.True(t, first.Equal(second))
}

func TestWithLogger_LogsIndexedUnits(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := newTestEngine(t, WithLogger(logger), WithParallel(false))

	require.NoError(t, e.IndexUnits(context.Background(), []Unit{objcUnit("A.h", "A", 2)}))
	out := buf.String()
	assert.Contains(t, out, "indexed unit")
	assert.Contains(t, out, "path=A.h")
	assert.Contains(t, out, "language=objc")
	assert.Contains(t, out, "declarations=3")
}

func TestWrite_InsertFailureLogsCleanupError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := newTestEngine(t, WithLogger(logger), WithParallel(false))

	b, err := e.build(objcUnit("A.h", "A", 1))
	require.NoError(t, err)

	// Closing the store mid-write makes the cleanup delete fail too.
	_, err = e.write(b, func(int64) error {
		require.NoError(t, e.store.Close())
		return errors.New("insert failed")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert declarations: insert failed")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "failed to drop half-written unit")
	assert.Contains(t, out, "path=A.h")
	assert.Contains(t, out, "err=")
}

func TestWithPredicate(t *testing.T) {
	none := func(Cursor) bool { return false }
	e := newTestEngine(t, WithPredicate(none))
	require.NoError(t, e.IndexUnits(context.Background(), []Unit{objcUnit("A.h", "A", 2)}))

	trees, err := e.Query().Declarations("A.h")
	require.NoError(t, err)
	assert.Empty(t, trees)
}

func TestWithScriptsFS(t *testing.T) {
	fsys := fstest.MapFS{
		"methods.risor": &fstest.MapFile{
			Data: []byte(`kind != "sourcekitten.source.lang.objc.decl.property"`),
		},
	}
	e := newTestEngine(t, WithScriptsFS(fsys, "methods.risor"))
	require.NoError(t, e.IndexUnits(context.Background(), []Unit{objcUnit("A.h", "A", 1)}))

	trees, err := e.Query().Declarations("A.h")
	require.NoError(t, err)
	require.Len(t, trees, 1)
	// Without the property, its accessors are no longer implicit.
	assert.Equal(t, []string{"value0", "setValue0:"}, childNames(trees[0]))
}

func TestPredicateOptions_LastWins(t *testing.T) {
	fsys := fstest.MapFS{"all.risor": &fstest.MapFile{Data: []byte(`true`)}}
	none := func(Cursor) bool { return false }

	e := newTestEngine(t, WithPredicate(none), WithScriptsFS(fsys, "all.risor"))
	assert.Equal(t, "all.risor", e.predicateScript)
	assert.True(t, e.predicate(objcInterface("A.h", "A", 0)))

	e = newTestEngine(t, WithScriptsFS(fsys, "all.risor"), WithPredicate(none))
	assert.False(t, e.predicate(objcInterface("A.h", "A", 0)))
}

func TestNewFromConfig(t *testing.T) {
	cfg := &Config{
		Database:  filepath.Join(t.TempDir(), "cfg.db"),
		Parallel:  false,
		Workers:   2,
		Languages: []string{"swift"},
	}
	e, err := NewFromConfig(cfg)
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.useParallel)
	assert.Equal(t, 2, e.workers)
	assert.True(t, e.languages[LanguageSwift])
	assert.False(t, e.languages[LanguageObjC])
}

func TestNewFromConfig_OptionsOverride(t *testing.T) {
	cfg := &Config{Database: filepath.Join(t.TempDir(), "cfg.db"), Parallel: false}
	e, err := NewFromConfig(cfg, WithParallel(true))
	require.NoError(t, err)
	defer e.Close()
	assert.True(t, e.useParallel)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := NewFromConfig(&Config{Database: filepath.Join(t.TempDir(), "x.db"), Languages: []string{"cobol"}})
	require.Error(t, err)

	_, err = NewFromConfig(&Config{})
	require.Error(t, err)
}

func TestNewQueryBuilder(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.IndexUnits(context.Background(), []Unit{objcUnit("A.h", "A", 1)}))

	q := NewQueryBuilder(e.Store())
	files, err := q.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
}
