// Package objc builds declaration trees from clang cursors describing
// Objective-C sources.
package objc

import "github.com/jward/decltree/internal/decl"

// Cursor is the subset of a clang cursor the builder reads. String accessors
// return "" when the front end has no value.
type Cursor interface {
	Children() []Cursor
	// ShouldDocument is the front end's own documentability decision, used
	// by DefaultPredicate.
	ShouldDocument() bool
	Kind() (decl.ObjCKind, bool)
	Location() (decl.SourceLocation, bool)
	Extent() (decl.Extent, bool)
	Name() string
	USR() string
	Declaration() string
}

// Predicate decides whether a cursor becomes a declaration. Rejection is a
// normal omission, not an error.
type Predicate func(Cursor) bool

// DefaultPredicate defers to the cursor's own ShouldDocument.
func DefaultPredicate(c Cursor) bool { return c.ShouldDocument() }
