package decl

import (
	"cmp"
	"fmt"
)

// SourceLocation is a position in a source file. Ordering uses File then
// Offset; Line and Column are carried for display and for callers that key
// on them.
type SourceLocation struct {
	File   string
	Line   uint32
	Column uint32
	Offset uint32
}

// NewSourceLocation builds a location from the fields a front end supplied.
// It returns false unless all four are present, so a location is never
// partially populated.
func NewSourceLocation(file *string, line, column, offset *uint32) (SourceLocation, bool) {
	if file == nil || line == nil || column == nil || offset == nil {
		return SourceLocation{}, false
	}
	return SourceLocation{File: *file, Line: *line, Column: *column, Offset: *offset}, true
}

// Compare orders a and b by file path, then byte offset.
func Compare(a, b SourceLocation) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// Less reports whether a sorts strictly before b.
func (l SourceLocation) Less(other SourceLocation) bool {
	return Compare(l, other) < 0
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Extent is the full span of a declaration body.
type Extent struct {
	Start SourceLocation
	End   SourceLocation
}

// Contains reports whether loc lies within the extent, inclusive of both ends.
func (e Extent) Contains(loc SourceLocation) bool {
	if loc.File != e.Start.File {
		return false
	}
	return loc.Offset >= e.Start.Offset && loc.Offset <= e.End.Offset
}

// Len returns the extent's size in bytes.
func (e Extent) Len() uint32 {
	if e.End.Offset < e.Start.Offset {
		return 0
	}
	return e.End.Offset - e.Start.Offset
}

func equalLocations(a, b *SourceLocation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
