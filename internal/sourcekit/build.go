package sourcekit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jward/decltree/internal/decl"
)

// Build converts a SourceKit dictionary and its key.substructure into a
// declaration tree. A missing or malformed field only leaves the fields that
// depend on it absent; Build never fails.
func Build(r Record) *decl.SwiftDeclaration {
	var attrs decl.Attrs

	file := getString(r, KeyDocFile)
	line := getUint32(r, KeyDocLine)
	column := getUint32(r, KeyDocColumn)
	if file != nil && line != nil && column != nil {
		if l, ok := decl.NewSourceLocation(file, line, column, getUint32(r, KeyOffset)); ok {
			attrs.Location = &l
		}
		start := getUint32(r, KeyParsedScopeStart)
		end := getUint32(r, KeyParsedScopeEnd)
		if start != nil && end != nil {
			attrs.Extent = &decl.Extent{
				Start: decl.SourceLocation{File: *file, Line: *line, Column: *column, Offset: *start},
				End:   decl.SourceLocation{File: *file, Line: *line, Column: *column, Offset: *end},
			}
		}
	}

	attrs.Name = getString(r, KeyName)
	attrs.TypeName = getString(r, KeyTypeName)
	attrs.USR = getString(r, KeyUSR)
	attrs.DeclarationText = getString(r, KeyParsedDeclaration)
	attrs.DocumentationComment = getString(r, KeyDocComment)
	if raw := getString(r, KeyAccessibility); raw != nil {
		if a, ok := decl.ParseAccessibility(*raw); ok {
			attrs.Accessibility = &a
		}
	}

	var kind decl.SwiftKind
	if raw := getString(r, KeyKind); raw != nil {
		if k, ok := decl.ParseSwiftKind(*raw); ok {
			kind = k
		}
	}

	return decl.NewSwiftDeclaration(kind, attrs, BuildAll(getSubstructure(r)))
}

// BuildAll builds every record in records, in order.
func BuildAll(records []Record) []*decl.SwiftDeclaration {
	if len(records) == 0 {
		return nil
	}
	out := make([]*decl.SwiftDeclaration, len(records))
	for i, r := range records {
		out[i] = Build(r)
	}
	return out
}

// BuildFile builds the top-level declarations of a structure dump. SourceKit
// describes a file as a record with no kind of its own whose substructure
// holds the file's declarations.
func BuildFile(r Record) []*decl.SwiftDeclaration {
	return BuildAll(FileRecords(r))
}

// FileRecords returns the top-level declaration records of a structure
// dump: r itself when it has a kind, its substructure otherwise.
func FileRecords(r Record) []Record {
	if _, ok := r[KeyKind]; ok {
		return []Record{r}
	}
	return getSubstructure(r)
}

// Decode reads one JSON-encoded structure dump. Numbers are kept as
// json.Number so offsets round-trip exactly.
func Decode(rd io.Reader) (Record, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("sourcekit: decode: %w", err)
	}
	return r, nil
}
