package decltree

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/store"
)

func newTestQueryBuilder(t *testing.T) (*QueryBuilder, *store.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return &QueryBuilder{store: s}, s
}

func strp(s string) *string { return &s }

func span(file string, line, start, end uint32) (*SourceLocation, *Extent) {
	l := SourceLocation{File: file, Line: line, Column: 1, Offset: start}
	return &l, &Extent{Start: l, End: SourceLocation{File: file, Line: line, Column: 1, Offset: end}}
}

// insertSwift stores decls as the unit at path.
func insertSwift(t *testing.T, s *store.Store, path string, decls ...*SwiftDeclaration) {
	t.Helper()
	id, err := s.InsertFile(&store.File{
		Path: path, Language: "swift", Hash: store.ComputeTreeHash(decls), LastIndexed: time.Now(),
	})
	require.NoError(t, err)
	_, err = store.InsertTree(s, id, decls)
	require.NoError(t, err)
}

// shapeTree is class Shape { func area() { var scale } } followed by a
// free function, laid out as
//
//	Shape   [0, 200]
//	area()  [50, 100]
//	scale   [60, 70]
//	main()  [210, 260]
func shapeTree() []*SwiftDeclaration {
	l, x := span("Shape.swift", 5, 60, 70)
	scale := decl.NewSwiftDeclaration(decl.SwiftKindVarLocal, decl.Attrs{
		Name: strp("scale"), USR: strp("s:5Shape4areaSdyF5scaleL_Sdvp"), Location: l, Extent: x,
	}, nil)
	l, x = span("Shape.swift", 4, 50, 100)
	area := decl.NewSwiftDeclaration(decl.SwiftKindMethodInstance, decl.Attrs{
		Name: strp("area()"), USR: strp("s:5ShapeC4areaSdyF"), Location: l, Extent: x,
	}, []*SwiftDeclaration{scale})
	l, x = span("Shape.swift", 1, 0, 200)
	shape := decl.NewSwiftDeclaration(decl.SwiftKindClass, decl.Attrs{
		Name: strp("Shape"), USR: strp("s:5ShapeC"), Location: l, Extent: x,
	}, []*SwiftDeclaration{area})
	l, x = span("Shape.swift", 12, 210, 260)
	run := decl.NewSwiftDeclaration(decl.SwiftKindFunctionFree, decl.Attrs{
		Name: strp("main()"), USR: strp("s:4mainyyF"), Location: l, Extent: x,
	}, nil)
	return []*SwiftDeclaration{shape, run}
}

func TestDeclarations_ReturnsTrees(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	trees, err := q.Declarations("Shape.swift")
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, []string{"Shape", "main()"}, names(trees))
	assert.Equal(t, []string{"area()"}, childNames(trees[0]))
	assert.Equal(t, []string{"scale"}, childNames(trees[0].Children()[0]))

	for i, want := range shapeTree() {
		assert.True(t, Equal(want, trees[i]))
	}
}

func TestDeclarations_UnknownPath(t *testing.T) {
	q, _ := newTestQueryBuilder(t)

	trees, err := q.Declarations("missing.swift")
	require.NoError(t, err)
	assert.Nil(t, trees)
}

func TestFlattened_SourceOrder(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	// Stored out of source order.
	trees := shapeTree()
	insertSwift(t, s, "Shape.swift", trees[1], trees[0])

	flat, err := q.Flattened("Shape.swift")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape", "area()", "scale", "main()"}, names(flat))
}

func TestByUSR_AcrossFiles(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	l, x := span("Shape+Area.swift", 1, 0, 40)
	ext := decl.NewSwiftDeclaration(decl.SwiftKindExtensionClass, decl.Attrs{
		Name: strp("Shape"), USR: strp("s:5ShapeC"), Location: l, Extent: x,
	}, nil)
	insertSwift(t, s, "Shape+Area.swift", ext)

	found, err := q.ByUSR("s:5ShapeC")
	require.NoError(t, err)
	require.Len(t, found, 2)

	kinds := []Kind{found[0].Kind(), found[1].Kind()}
	assert.ElementsMatch(t, []Kind{decl.SwiftKindClass, decl.SwiftKindExtensionClass}, kinds)
	for _, d := range found {
		if d.Kind() == decl.SwiftKindClass {
			assert.Equal(t, []string{"area()"}, childNames(d), "subtree should come with the match")
		}
	}
}

func TestByUSR_NoMatch(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	found, err := q.ByUSR("s:nothing")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDeclarationAt_Innermost(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	tests := []struct {
		offset uint32
		want   string
	}{
		{offset: 0, want: "Shape"},
		{offset: 20, want: "Shape"},
		{offset: 50, want: "area()"},
		{offset: 65, want: "scale"},
		{offset: 100, want: "area()"},
		{offset: 150, want: "Shape"},
		{offset: 230, want: "main()"},
	}
	for _, tt := range tests {
		d, err := q.DeclarationAt("Shape.swift", tt.offset)
		require.NoError(t, err)
		require.NotNil(t, d, "offset %d", tt.offset)
		assert.Equal(t, tt.want, deref(d.Name()), "offset %d", tt.offset)
	}
}

func TestDeclarationAt_IncludesSubtree(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	d, err := q.DeclarationAt("Shape.swift", 55)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "area()", deref(d.Name()))
	assert.Equal(t, []string{"scale"}, childNames(d))
}

func TestDeclarationAt_NoDeclaration(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	d, err := q.DeclarationAt("Shape.swift", 205)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = q.DeclarationAt("Other.swift", 10)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestEnclosing_OutermostFirst(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "Shape.swift", shapeTree()...)

	chain, err := q.Enclosing("Shape.swift", 65)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape", "area()", "scale"}, names(chain))
	for _, d := range chain {
		assert.Empty(t, d.Children())
	}
}

func TestFiles_OrderedByPath(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	insertSwift(t, s, "b.swift")
	insertSwift(t, s, "a.swift")

	files, err := q.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.swift", files[0].Path)
	assert.Equal(t, "b.swift", files[1].Path)
}
