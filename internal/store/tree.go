package store

import (
	"fmt"
	"sort"

	"github.com/jward/decltree/internal/decl"
)

// InsertTree writes decls and their descendants for fileID through ds.
// Parents are inserted before their children, so child rows always carry
// their parent's (possibly batched) ID.
func InsertTree[D decl.Declaration](ds DataStore, fileID int64, decls []D) (int, error) {
	count := 0
	var insert func(d decl.Declaration, parent *int64, ordinal int) error
	insert = func(d decl.Declaration, parent *int64, ordinal int) error {
		row := RowFor(d)
		row.FileID = fileID
		row.ParentID = parent
		row.Ordinal = ordinal
		id, err := ds.InsertDeclaration(row)
		if err != nil {
			return err
		}
		count++
		for i, c := range d.Children() {
			if err := insert(c, &id, i); err != nil {
				return err
			}
		}
		return nil
	}
	for i, d := range decls {
		if err := insert(d, nil, i); err != nil {
			return count, fmt.Errorf("insert tree: %w", err)
		}
	}
	return count, nil
}

// RowFor converts a declaration to its row form. File, parent and ordinal
// are left for the caller.
func RowFor(d decl.Declaration) *Declaration {
	row := &Declaration{
		Language:        d.Language().String(),
		Name:            d.Name(),
		TypeName:        d.TypeName(),
		USR:             d.USR(),
		DeclarationText: d.DeclarationText(),
		DocComment:      d.DocumentationComment(),
	}
	if k := d.Kind(); k != nil {
		s := k.String()
		row.Kind = &s
	}
	if a := d.Accessibility(); a != nil {
		s := string(*a)
		row.Accessibility = &s
	}
	if l := d.Location(); l != nil {
		row.LocFile = &l.File
		row.LocLine = ptrInt64(l.Line)
		row.LocColumn = ptrInt64(l.Column)
		row.LocOffset = ptrInt64(l.Offset)
	}
	if e := d.Extent(); e != nil {
		row.ExtentFile = &e.Start.File
		row.ExtentStartLine = ptrInt64(e.Start.Line)
		row.ExtentStartColumn = ptrInt64(e.Start.Column)
		row.ExtentStartOffset = ptrInt64(e.Start.Offset)
		row.ExtentEndLine = ptrInt64(e.End.Line)
		row.ExtentEndColumn = ptrInt64(e.End.Column)
		row.ExtentEndOffset = ptrInt64(e.End.Offset)
	}
	return row
}

// Unified converts a row back to a declaration with the given children.
// Kinds outside the row's language vocabulary read back as unknown.
func (d *Declaration) Unified(children []decl.Declaration) (*decl.Unified, error) {
	lang, ok := decl.ParseLanguage(d.Language)
	if !ok {
		return nil, fmt.Errorf("declaration %d: unknown language %q", d.ID, d.Language)
	}
	var kind decl.Kind
	if d.Kind != nil {
		kind, _ = decl.ParseKind(lang, *d.Kind)
	}

	attrs := decl.Attrs{
		Name:                 d.Name,
		TypeName:             d.TypeName,
		USR:                  d.USR,
		DeclarationText:      d.DeclarationText,
		DocumentationComment: d.DocComment,
	}
	if d.Accessibility != nil {
		if a, ok := decl.ParseAccessibility(*d.Accessibility); ok {
			attrs.Accessibility = &a
		}
	}
	if d.LocFile != nil && d.LocOffset != nil {
		attrs.Location = &decl.SourceLocation{
			File:   *d.LocFile,
			Line:   derefUint32(d.LocLine),
			Column: derefUint32(d.LocColumn),
			Offset: derefUint32(d.LocOffset),
		}
	}
	if d.ExtentFile != nil && d.ExtentStartOffset != nil && d.ExtentEndOffset != nil {
		attrs.Extent = &decl.Extent{
			Start: decl.SourceLocation{
				File:   *d.ExtentFile,
				Line:   derefUint32(d.ExtentStartLine),
				Column: derefUint32(d.ExtentStartColumn),
				Offset: derefUint32(d.ExtentStartOffset),
			},
			End: decl.SourceLocation{
				File:   *d.ExtentFile,
				Line:   derefUint32(d.ExtentEndLine),
				Column: derefUint32(d.ExtentEndColumn),
				Offset: derefUint32(d.ExtentEndOffset),
			},
		}
	}
	return decl.MakeUnified(lang, kind, attrs, children), nil
}

// LoadTree rebuilds the declaration trees stored for fileID.
func (s *Store) LoadTree(fileID int64) ([]*decl.Unified, error) {
	rows, err := s.DeclarationsByFile(fileID)
	if err != nil {
		return nil, err
	}
	return assembleTree(rows)
}

// LoadSubtree rebuilds the declaration stored under id together with its
// descendants. Returns nil when no such row exists.
func (s *Store) LoadSubtree(id int64) (*decl.Unified, error) {
	rows, err := s.queryDeclarations("load subtree",
		`WITH RECURSIVE subtree(id) AS (
		   SELECT id FROM declarations WHERE id = ?
		   UNION ALL
		   SELECT d.id FROM declarations d JOIN subtree ON d.parent_id = subtree.id
		 )
		 SELECT `+declarationColumns+` FROM declarations
		 WHERE id IN (SELECT id FROM subtree) ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	roots, err := assembleTree(rows)
	if err != nil {
		return nil, err
	}
	return roots[0], nil
}

// assembleTree links rows into trees. Rows whose parent is missing from the
// set are treated as roots.
func assembleTree(rows []*Declaration) ([]*decl.Unified, error) {
	present := make(map[int64]bool, len(rows))
	for _, r := range rows {
		present[r.ID] = true
	}
	byParent := make(map[int64][]*Declaration)
	for _, r := range rows {
		var parent int64
		if r.ParentID != nil && present[*r.ParentID] {
			parent = *r.ParentID
		}
		byParent[parent] = append(byParent[parent], r)
	}
	for _, siblings := range byParent {
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Ordinal < siblings[j].Ordinal
		})
	}

	var build func(r *Declaration) (*decl.Unified, error)
	build = func(r *Declaration) (*decl.Unified, error) {
		var children []decl.Declaration
		for _, c := range byParent[r.ID] {
			u, err := build(c)
			if err != nil {
				return nil, err
			}
			children = append(children, u)
		}
		return r.Unified(children)
	}

	var roots []*decl.Unified
	for _, r := range byParent[0] {
		u, err := build(r)
		if err != nil {
			return nil, fmt.Errorf("load tree: %w", err)
		}
		roots = append(roots, u)
	}
	return roots, nil
}
