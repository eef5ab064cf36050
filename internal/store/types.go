package store

import "time"

// File is one indexed unit: the declarations a front end reported for a
// single source file.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LastIndexed time.Time
}

// Declaration is the row form of one declaration. Pointer fields are NULL
// when the front end did not supply the value.
type Declaration struct {
	ID              int64
	FileID          int64
	ParentID        *int64
	Ordinal         int
	Language        string
	Kind            *string
	Name            *string
	TypeName        *string
	USR             *string
	DeclarationText *string
	DocComment      *string
	Accessibility   *string

	LocFile   *string
	LocLine   *int64
	LocColumn *int64
	LocOffset *int64

	ExtentFile        *string
	ExtentStartLine   *int64
	ExtentStartColumn *int64
	ExtentStartOffset *int64
	ExtentEndLine     *int64
	ExtentEndColumn   *int64
	ExtentEndOffset   *int64
}
