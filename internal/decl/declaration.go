// Package decl defines the language-neutral declaration model shared by the
// Swift and Objective-C tree builders: source locations, per-language kind
// vocabularies, the Declaration capability interface and its type-erased
// Unified form, and the implicit accessor filtering applied to Objective-C
// sibling lists.
package decl

import "hash/fnv"

// Attrs holds the optional attributes every declaration carries. A nil
// pointer means the producing front end did not supply the value.
type Attrs struct {
	Location             *SourceLocation
	Extent               *Extent
	Name                 *string
	TypeName             *string
	USR                  *string
	DeclarationText      *string
	DocumentationComment *string
	Accessibility        *Accessibility
}

// Declaration is the shape every declaration exposes regardless of which
// front end produced it. The set of implementations is closed:
// *SwiftDeclaration, *ObjCDeclaration and *Unified.
type Declaration interface {
	Language() Language
	// Kind returns nil when the front end reported no recognizable kind.
	Kind() Kind
	Location() *SourceLocation
	Extent() *Extent
	Name() *string
	TypeName() *string
	USR() *string
	DeclarationText() *string
	DocumentationComment() *string
	Children() []Declaration
	Accessibility() *Accessibility

	attributes() Attrs
}

// SwiftDeclaration is a node built from a SourceKit dictionary.
type SwiftDeclaration struct {
	kind     SwiftKind
	attrs    Attrs
	children []*SwiftDeclaration
}

// NewSwiftDeclaration assembles a Swift node. An empty kind means unknown.
func NewSwiftDeclaration(kind SwiftKind, attrs Attrs, children []*SwiftDeclaration) *SwiftDeclaration {
	return &SwiftDeclaration{kind: kind, attrs: attrs, children: children}
}

func (d *SwiftDeclaration) Language() Language { return LanguageSwift }

func (d *SwiftDeclaration) Kind() Kind {
	if d.kind == "" {
		return nil
	}
	return d.kind
}

// SwiftKind returns the typed kind, or "" when unknown.
func (d *SwiftDeclaration) SwiftKind() SwiftKind { return d.kind }

func (d *SwiftDeclaration) Location() *SourceLocation          { return d.attrs.Location }
func (d *SwiftDeclaration) Extent() *Extent                    { return d.attrs.Extent }
func (d *SwiftDeclaration) Name() *string                      { return d.attrs.Name }
func (d *SwiftDeclaration) TypeName() *string                  { return d.attrs.TypeName }
func (d *SwiftDeclaration) USR() *string                       { return d.attrs.USR }
func (d *SwiftDeclaration) DeclarationText() *string           { return d.attrs.DeclarationText }
func (d *SwiftDeclaration) DocumentationComment() *string      { return d.attrs.DocumentationComment }
func (d *SwiftDeclaration) Accessibility() *Accessibility      { return d.attrs.Accessibility }
func (d *SwiftDeclaration) attributes() Attrs                  { return d.attrs }
func (d *SwiftDeclaration) Children() []Declaration            { return upcast(d.children) }
func (d *SwiftDeclaration) SwiftChildren() []*SwiftDeclaration { return d.children }

// ObjCDeclaration is a node built from a clang cursor.
type ObjCDeclaration struct {
	kind     ObjCKind
	attrs    Attrs
	children []*ObjCDeclaration
}

// NewObjCDeclaration assembles an Objective-C node. An empty kind means
// unknown. TypeName and DocumentationComment are dropped: the cursor
// protocol does not expose them reliably.
func NewObjCDeclaration(kind ObjCKind, attrs Attrs, children []*ObjCDeclaration) *ObjCDeclaration {
	attrs.TypeName = nil
	attrs.DocumentationComment = nil
	return &ObjCDeclaration{kind: kind, attrs: attrs, children: children}
}

func (d *ObjCDeclaration) Language() Language { return LanguageObjC }

func (d *ObjCDeclaration) Kind() Kind {
	if d.kind == "" {
		return nil
	}
	return d.kind
}

// ObjCKind returns the typed kind, or "" when unknown.
func (d *ObjCDeclaration) ObjCKind() ObjCKind { return d.kind }

func (d *ObjCDeclaration) Location() *SourceLocation        { return d.attrs.Location }
func (d *ObjCDeclaration) Extent() *Extent                  { return d.attrs.Extent }
func (d *ObjCDeclaration) Name() *string                    { return d.attrs.Name }
func (d *ObjCDeclaration) TypeName() *string                { return nil }
func (d *ObjCDeclaration) USR() *string                     { return d.attrs.USR }
func (d *ObjCDeclaration) DeclarationText() *string         { return d.attrs.DeclarationText }
func (d *ObjCDeclaration) DocumentationComment() *string    { return nil }
func (d *ObjCDeclaration) Accessibility() *Accessibility    { return d.attrs.Accessibility }
func (d *ObjCDeclaration) attributes() Attrs                { return d.attrs }
func (d *ObjCDeclaration) Children() []Declaration          { return upcast(d.children) }
func (d *ObjCDeclaration) ObjCChildren() []*ObjCDeclaration { return d.children }

// Unified is the type-erased declaration. It holds a copy of any
// Declaration's fields so that mixed-language sets can be sorted, hashed
// and compared without knowing which front end produced each element.
type Unified struct {
	language Language
	kind     Kind
	attrs    Attrs
	children []Declaration
}

// NewUnified copies every field of d. It never fails and derives nothing:
// children are carried over as the same values d returns.
func NewUnified(d Declaration) *Unified {
	return &Unified{
		language: d.Language(),
		kind:     d.Kind(),
		attrs:    d.attributes(),
		children: d.Children(),
	}
}

// MakeUnified assembles a Unified directly, for callers rebuilding trees
// from persisted rows.
func MakeUnified(lang Language, kind Kind, attrs Attrs, children []Declaration) *Unified {
	return &Unified{language: lang, kind: kind, attrs: attrs, children: children}
}

func (u *Unified) Language() Language            { return u.language }
func (u *Unified) Kind() Kind                    { return u.kind }
func (u *Unified) Location() *SourceLocation     { return u.attrs.Location }
func (u *Unified) Extent() *Extent               { return u.attrs.Extent }
func (u *Unified) Name() *string                 { return u.attrs.Name }
func (u *Unified) TypeName() *string             { return u.attrs.TypeName }
func (u *Unified) USR() *string                  { return u.attrs.USR }
func (u *Unified) DeclarationText() *string      { return u.attrs.DeclarationText }
func (u *Unified) DocumentationComment() *string { return u.attrs.DocumentationComment }
func (u *Unified) Accessibility() *Accessibility { return u.attrs.Accessibility }
func (u *Unified) Children() []Declaration       { return u.children }
func (u *Unified) attributes() Attrs             { return u.attrs }

// Unify converts a slice of declarations to their unified form.
func Unify[D Declaration](decls []D) []*Unified {
	out := make([]*Unified, len(decls))
	for i, d := range decls {
		out[i] = NewUnified(d)
	}
	return out
}

func upcast[D Declaration](in []D) []Declaration {
	if in == nil {
		return nil
	}
	out := make([]Declaration, len(in))
	for i, d := range in {
		out[i] = d
	}
	return out
}

// Key is the comparable identity of a declaration: USR and location
// together. Two declarations are equal exactly when their keys are.
type Key struct {
	USR         string
	HasUSR      bool
	Location    SourceLocation
	HasLocation bool
}

// KeyOf returns d's identity key.
func KeyOf(d Declaration) Key {
	var k Key
	if usr := d.USR(); usr != nil {
		k.USR, k.HasUSR = *usr, true
	}
	if loc := d.Location(); loc != nil {
		k.Location, k.HasLocation = *loc, true
	}
	return k
}

// Equal reports whether a and b have the same USR and the same location.
// Neither field alone is sufficient.
func Equal(a, b Declaration) bool {
	return equalStrings(a.USR(), b.USR()) && equalLocations(a.Location(), b.Location())
}

// Hash returns the FNV-1a hash of d's USR, or 0 when d has none. Equal
// declarations always hash equally.
func Hash(d Declaration) uint64 {
	usr := d.USR()
	if usr == nil {
		return 0
	}
	h := fnv.New64a()
	h.Write([]byte(*usr))
	return h.Sum64()
}

// Less orders declarations by location only. Declarations without a
// location sort before those with one.
func Less(a, b Declaration) bool {
	la, lb := a.Location(), b.Location()
	switch {
	case la == nil:
		return lb != nil
	case lb == nil:
		return false
	}
	return Compare(*la, *lb) < 0
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
