package objc

import "github.com/jward/decltree/internal/decl"

// Build converts c and its documentable descendants into a declaration tree.
// It returns false when pred rejects c. Children keep the cursor's order,
// minus the accessor methods clang synthesizes for properties.
func Build(c Cursor, pred Predicate) (*decl.ObjCDeclaration, bool) {
	if pred == nil {
		pred = DefaultPredicate
	}
	if !pred(c) {
		return nil, false
	}

	var attrs decl.Attrs
	if l, ok := c.Location(); ok {
		attrs.Location = &l
	}
	if e, ok := c.Extent(); ok {
		attrs.Extent = &e
	}
	attrs.Name = optional(c.Name())
	attrs.USR = optional(c.USR())
	attrs.DeclarationText = optional(c.Declaration())

	kind, _ := c.Kind()
	children := BuildAll(c.Children(), pred)
	return decl.NewObjCDeclaration(kind, attrs, decl.RejectPropertyMethods(children)), true
}

// BuildAll builds every cursor in cursors, skipping rejected ones. The
// implicit accessor filter is not applied across the returned slice; Build
// applies it to each node's children.
func BuildAll(cursors []Cursor, pred Predicate) []*decl.ObjCDeclaration {
	var out []*decl.ObjCDeclaration
	for _, c := range cursors {
		if d, ok := Build(c, pred); ok {
			out = append(out, d)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
