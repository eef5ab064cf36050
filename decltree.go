package decltree

import (
	"io"

	"github.com/jward/decltree/internal/config"
	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/objc"
	"github.com/jward/decltree/internal/sourcekit"
)

// BuildSwift builds the declaration for one SourceKit structure record.
func BuildSwift(r Record) *SwiftDeclaration { return sourcekit.Build(r) }

// BuildSwiftFile builds the top-level declarations of a SourceKit file
// structure dump.
func BuildSwiftFile(r Record) []*SwiftDeclaration { return sourcekit.BuildFile(r) }

// DecodeSwift reads a SourceKit structure dump in JSON form.
func DecodeSwift(rd io.Reader) (Record, error) { return sourcekit.Decode(rd) }

// BuildObjC builds the declaration for a cursor. A nil pred uses
// DefaultPredicate. ok is false when pred rejects the cursor.
func BuildObjC(c Cursor, pred Predicate) (d *ObjCDeclaration, ok bool) { return objc.Build(c, pred) }

// DefaultPredicate documents what the cursor's front end would document.
func DefaultPredicate(c Cursor) bool { return objc.DefaultPredicate(c) }

// AccessorUSRs returns the USRs of the getter and setter clang synthesizes
// for an Objective-C property declaration.
func AccessorUSRs(d Declaration) (Accessors, error) { return decl.AccessorUSRs(d) }

// NewUnified copies any declaration into the language-neutral form.
func NewUnified(d Declaration) *Unified { return decl.NewUnified(d) }

// Equal reports whether a and b have the same USR and location.
func Equal(a, b Declaration) bool { return decl.Equal(a, b) }

// Hash is consistent with Equal.
func Hash(d Declaration) uint64 { return decl.Hash(d) }

// Less orders declarations by location: file, then offset.
func Less(a, b Declaration) bool { return decl.Less(a, b) }

// Sort stably sorts decls into source order.
func Sort[D Declaration](decls []D) { decl.Sort(decls) }

// Flatten returns every declaration in the trees in source order.
func Flatten[D Declaration](decls []D) []Declaration { return decl.Flatten(decls) }

// Unique drops later duplicates under Equal.
func Unique[D Declaration](decls []D) []D { return decl.Unique(decls) }

// RejectPropertyMethods drops members that are synthesized accessors of a
// property among siblings.
func RejectPropertyMethods[D Declaration](siblings []D) []D {
	return decl.RejectPropertyMethods(siblings)
}

// LoadConfig loads decltree.yaml from dir, or defaults when dir has none.
// Environment variables prefixed DECLTREE_ override the file.
func LoadConfig(dir string) (*Config, error) { return config.LoadFromDir(dir) }
