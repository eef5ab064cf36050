package store

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/jward/decltree/internal/decl"
)

// ComputeTreeHash computes a deterministic hash over every field of every
// declaration in decls, including tree shape and sibling order. Two builds of
// the same front-end output hash equally, so unchanged units can be skipped.
func ComputeTreeHash[D decl.Declaration](decls []D) string {
	h := sha256.New()
	decl.Walk(decls, func(d decl.Declaration, depth int) bool {
		hashDeclaration(h, d, depth)
		return true
	})
	return fmt.Sprintf("%x", h.Sum(nil))
}

func hashDeclaration(w io.Writer, d decl.Declaration, depth int) {
	fmt.Fprintf(w, "depth:%d\n", depth)
	fmt.Fprintf(w, "language:%s\n", d.Language())
	if k := d.Kind(); k != nil {
		fmt.Fprintf(w, "kind:%s\n", k)
	}
	writeOptional(w, "name", d.Name())
	writeOptional(w, "typename", d.TypeName())
	writeOptional(w, "usr", d.USR())
	writeOptional(w, "declaration", d.DeclarationText())
	writeOptional(w, "doc", d.DocumentationComment())
	if a := d.Accessibility(); a != nil {
		fmt.Fprintf(w, "accessibility:%s\n", *a)
	}
	if l := d.Location(); l != nil {
		fmt.Fprintf(w, "location:%q:%d:%d:%d\n", l.File, l.Line, l.Column, l.Offset)
	}
	if e := d.Extent(); e != nil {
		fmt.Fprintf(w, "extent:%q:%d:%d:%d-%d:%d:%d\n", e.Start.File,
			e.Start.Line, e.Start.Column, e.Start.Offset,
			e.End.Line, e.End.Column, e.End.Offset)
	}
	fmt.Fprintf(w, "children:%d\n", len(d.Children()))
}

func writeOptional(w io.Writer, label string, v *string) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "%s:%q\n", label, *v)
}
