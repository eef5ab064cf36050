package decltree

import (
	"fmt"

	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/store"
)

// QueryBuilder provides read access to indexed declaration trees.
type QueryBuilder struct {
	store *store.Store
}

// NewQueryBuilder creates a QueryBuilder over an existing Store, for callers
// that opened the database without an Engine.
func NewQueryBuilder(s *Store) *QueryBuilder {
	return &QueryBuilder{store: s}
}

// Files returns every indexed file, ordered by path.
func (q *QueryBuilder) Files() ([]*File, error) {
	files, err := q.store.Files()
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	return files, nil
}

// Declarations returns the declaration trees stored for the unit at path,
// in the order the front end produced them. Returns nil for unknown paths.
func (q *QueryBuilder) Declarations(path string) ([]*Unified, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("declarations: lookup file: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	trees, err := q.store.LoadTree(f.ID)
	if err != nil {
		return nil, fmt.Errorf("declarations: %w", err)
	}
	return trees, nil
}

// Flattened returns every declaration stored for the unit at path in
// source order.
func (q *QueryBuilder) Flattened(path string) ([]Declaration, error) {
	trees, err := q.Declarations(path)
	if err != nil {
		return nil, err
	}
	return decl.Flatten(trees), nil
}

// ByUSR returns every stored declaration with the given USR, with its
// subtree, ordered by location.
func (q *QueryBuilder) ByUSR(usr string) ([]*Unified, error) {
	rows, err := q.store.DeclarationsByUSR(usr)
	if err != nil {
		return nil, fmt.Errorf("by usr: %w", err)
	}
	return q.subtrees("by usr", rows)
}

// DeclarationAt returns the innermost declaration whose extent in file
// contains offset, with its subtree. file is the path as recorded in
// locations. Returns nil when no extent contains offset.
func (q *QueryBuilder) DeclarationAt(file string, offset uint32) (*Unified, error) {
	rows, err := q.store.DeclarationsContaining(file, offset)
	if err != nil {
		return nil, fmt.Errorf("declaration at: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	d, err := q.store.LoadSubtree(rows[len(rows)-1].ID)
	if err != nil {
		return nil, fmt.Errorf("declaration at: %w", err)
	}
	return d, nil
}

// Enclosing returns the declarations whose extent in file contains offset,
// outermost first, without their subtrees.
func (q *QueryBuilder) Enclosing(file string, offset uint32) ([]*Unified, error) {
	rows, err := q.store.DeclarationsContaining(file, offset)
	if err != nil {
		return nil, fmt.Errorf("enclosing: %w", err)
	}
	out := make([]*Unified, 0, len(rows))
	for _, r := range rows {
		u, err := r.Unified(nil)
		if err != nil {
			return nil, fmt.Errorf("enclosing: %w", err)
		}
		out = append(out, u)
	}
	return out, nil
}

func (q *QueryBuilder) subtrees(op string, rows []*store.Declaration) ([]*Unified, error) {
	out := make([]*Unified, 0, len(rows))
	for _, r := range rows {
		d, err := q.store.LoadSubtree(r.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}
