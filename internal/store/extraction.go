package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, language, hash, last_indexed) VALUES (?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, language, hash, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT id, path, language, hash, last_indexed FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// --- Declaration operations ---

const declarationColumns = `id, file_id, parent_id, ordinal, language, kind, name, type_name, usr,
	declaration_text, doc_comment, accessibility,
	loc_file, loc_line, loc_column, loc_offset,
	extent_file, extent_start_line, extent_start_column, extent_start_offset,
	extent_end_line, extent_end_column, extent_end_offset`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertDeclaration(ex execer, d *Declaration) (int64, error) {
	res, err := ex.Exec(
		`INSERT INTO declarations (file_id, parent_id, ordinal, language, kind, name, type_name, usr,
			declaration_text, doc_comment, accessibility,
			loc_file, loc_line, loc_column, loc_offset,
			extent_file, extent_start_line, extent_start_column, extent_start_offset,
			extent_end_line, extent_end_column, extent_end_offset)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.FileID, d.ParentID, d.Ordinal, d.Language, d.Kind, d.Name, d.TypeName, d.USR,
		d.DeclarationText, d.DocComment, d.Accessibility,
		d.LocFile, d.LocLine, d.LocColumn, d.LocOffset,
		d.ExtentFile, d.ExtentStartLine, d.ExtentStartColumn, d.ExtentStartOffset,
		d.ExtentEndLine, d.ExtentEndColumn, d.ExtentEndOffset,
	)
	if err != nil {
		return 0, fmt.Errorf("insert declaration: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (s *Store) InsertDeclaration(d *Declaration) (int64, error) {
	id, err := insertDeclaration(s.db, d)
	if err != nil {
		return 0, err
	}
	d.ID = id
	return id, nil
}

func scanDeclaration(scanner interface{ Scan(...any) error }) (*Declaration, error) {
	d := &Declaration{}
	err := scanner.Scan(
		&d.ID, &d.FileID, &d.ParentID, &d.Ordinal, &d.Language, &d.Kind, &d.Name, &d.TypeName, &d.USR,
		&d.DeclarationText, &d.DocComment, &d.Accessibility,
		&d.LocFile, &d.LocLine, &d.LocColumn, &d.LocOffset,
		&d.ExtentFile, &d.ExtentStartLine, &d.ExtentStartColumn, &d.ExtentStartOffset,
		&d.ExtentEndLine, &d.ExtentEndColumn, &d.ExtentEndOffset,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) queryDeclarations(op, query string, args ...any) ([]*Declaration, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*Declaration
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeclarationsByFile returns a file's declaration rows, parents before
// children and siblings in ordinal order.
func (s *Store) DeclarationsByFile(fileID int64) ([]*Declaration, error) {
	return s.queryDeclarations("declarations by file",
		"SELECT "+declarationColumns+" FROM declarations WHERE file_id = ? ORDER BY id", fileID)
}

// DeclarationsByUSR returns every row carrying usr, across files.
func (s *Store) DeclarationsByUSR(usr string) ([]*Declaration, error) {
	return s.queryDeclarations("declarations by usr",
		"SELECT "+declarationColumns+" FROM declarations WHERE usr = ? ORDER BY loc_file, loc_offset, id", usr)
}

// DeclarationsContaining returns the rows in file whose extent covers offset,
// outermost first.
func (s *Store) DeclarationsContaining(file string, offset uint32) ([]*Declaration, error) {
	return s.queryDeclarations("declarations containing",
		"SELECT "+declarationColumns+` FROM declarations
		 WHERE extent_file = ? AND extent_start_offset <= ? AND extent_end_offset >= ?
		 ORDER BY extent_start_offset, extent_end_offset DESC, id`,
		file, offset, offset)
}
