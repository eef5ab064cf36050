package decltree

import (
	"github.com/jward/decltree/internal/config"
	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/objc"
	"github.com/jward/decltree/internal/sourcekit"
	"github.com/jward/decltree/internal/store"
)

// Public type aliases for internal types used in the Engine and QueryBuilder
// APIs. These are Go type aliases (=), identical to the internal types at
// compile time, so no conversion is needed.

type Store = store.Store
type File = store.File
type DeclarationRow = store.Declaration
type Config = config.Config

type Declaration = decl.Declaration
type SwiftDeclaration = decl.SwiftDeclaration
type ObjCDeclaration = decl.ObjCDeclaration
type Unified = decl.Unified
type Attrs = decl.Attrs
type SourceLocation = decl.SourceLocation
type Extent = decl.Extent
type Language = decl.Language
type Kind = decl.Kind
type SwiftKind = decl.SwiftKind
type ObjCKind = decl.ObjCKind
type Accessibility = decl.Accessibility
type Accessors = decl.Accessors
type PreconditionError = decl.PreconditionError

type Record = sourcekit.Record
type Cursor = objc.Cursor
type Predicate = objc.Predicate
type Node = objc.Node

const (
	LanguageSwift = decl.LanguageSwift
	LanguageObjC  = decl.LanguageObjC
)

// ErrPrecondition matches every accessor synthesis precondition failure.
var ErrPrecondition = decl.ErrPrecondition
