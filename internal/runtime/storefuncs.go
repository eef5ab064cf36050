package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/decltree/internal/store"
)

// Store host functions give scripts read-only access to what earlier runs
// indexed. Rows reach scripts as maps of primitives; absent fields are nil.
//
//	declarations_by_usr(usr)  list of declaration maps
//	indexed_files()           list of {id, path, language, hash}
//	db_query(sql, args...)    list of column -> value maps, SELECT only
func storeFuncs(s *store.Store) map[string]any {
	return map[string]any{
		"declarations_by_usr": hostFunc("declarations_by_usr", func(_ context.Context, args []object.Object) (object.Object, error) {
			if err := wantArgs(args, 1); err != nil {
				return nil, err
			}
			usr, err := toString(args[0])
			if err != nil {
				return nil, err
			}
			rows, err := s.DeclarationsByUSR(usr)
			if err != nil {
				return nil, err
			}
			return declarationList(rows), nil
		}),
		"indexed_files": hostFunc("indexed_files", func(_ context.Context, args []object.Object) (object.Object, error) {
			if err := wantArgs(args, 0); err != nil {
				return nil, err
			}
			files, err := s.Files()
			if err != nil {
				return nil, err
			}
			return fileList(files), nil
		}),
		"db_query": hostFunc("db_query", func(ctx context.Context, args []object.Object) (object.Object, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("expected at least 1 argument (sql), got 0")
			}
			query, err := toString(args[0])
			if err != nil {
				return nil, err
			}
			if !isSelect(query) {
				return nil, fmt.Errorf("only SELECT queries are allowed")
			}
			var result object.Object
			err = s.QueryReadOnly(ctx, func(rows *sql.Rows) error {
				var err error
				result, err = rowList(rows)
				return err
			}, query, bindArgs(args[1:])...)
			if err != nil {
				return nil, err
			}
			return result, nil
		}),
	}
}

// hostFunc adapts fn to a Risor builtin. Errors surface in the script
// prefixed with name.
func hostFunc(name string, fn func(context.Context, []object.Object) (object.Object, error)) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		result, err := fn(ctx, args)
		if err != nil {
			return object.Errorf("%s: %v", name, err)
		}
		return result
	})
}

func wantArgs(args []object.Object, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}

// bindArgs converts script values to SQL parameters. Values with no SQL
// counterpart bind as their string form.
func bindArgs(args []object.Object) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case *object.Int:
			out = append(out, v.Value())
		case *object.Float:
			out = append(out, v.Value())
		case *object.String:
			out = append(out, v.Value())
		case *object.Bool:
			out = append(out, v.Value())
		case *object.NilType:
			out = append(out, nil)
		default:
			out = append(out, arg.Inspect())
		}
	}
	return out
}

func rowList(rows *sql.Rows) (object.Object, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	out := []object.Object{}
	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		m := make(map[string]object.Object, len(cols))
		for i, col := range cols {
			m[col] = sqlObject(values[i])
		}
		out = append(out, object.NewMap(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return object.NewList(out), nil
}

func sqlObject(v any) object.Object {
	switch val := v.(type) {
	case nil:
		return object.Nil
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	}
	return object.NewString(fmt.Sprint(v))
}

func optionalString(v *string) object.Object {
	if v == nil {
		return object.Nil
	}
	return object.NewString(*v)
}

func optionalInt(v *int64) object.Object {
	if v == nil {
		return object.Nil
	}
	return object.NewInt(*v)
}

func fileList(files []*store.File) object.Object {
	out := make([]object.Object, 0, len(files))
	for _, f := range files {
		out = append(out, object.NewMap(map[string]object.Object{
			"id":       object.NewInt(f.ID),
			"path":     object.NewString(f.Path),
			"language": object.NewString(f.Language),
			"hash":     object.NewString(f.Hash),
		}))
	}
	return object.NewList(out)
}

func declarationList(rows []*store.Declaration) object.Object {
	out := make([]object.Object, 0, len(rows))
	for _, d := range rows {
		out = append(out, object.NewMap(map[string]object.Object{
			"id":          object.NewInt(d.ID),
			"file_id":     object.NewInt(d.FileID),
			"parent_id":   optionalInt(d.ParentID),
			"language":    object.NewString(d.Language),
			"kind":        optionalString(d.Kind),
			"name":        optionalString(d.Name),
			"usr":         optionalString(d.USR),
			"declaration": optionalString(d.DeclarationText),
			"file":        optionalString(d.LocFile),
			"line":        optionalInt(d.LocLine),
			"offset":      optionalInt(d.LocOffset),
		}))
	}
	return object.NewList(out)
}
