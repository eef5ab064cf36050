package objc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jward/decltree/internal/decl"
)

// cursorKinds maps libclang cursor kind spellings to declaration kinds.
var cursorKinds = map[string]decl.ObjCKind{
	"ObjCCategoryDecl":       decl.ObjCKindCategory,
	"ObjCInterfaceDecl":      decl.ObjCKindClass,
	"ObjCImplementationDecl": decl.ObjCKindClass,
	"ObjCProtocolDecl":       decl.ObjCKindProtocol,
	"ObjCPropertyDecl":       decl.ObjCKindProperty,
	"ObjCIvarDecl":           decl.ObjCKindIvar,
	"ObjCInstanceMethodDecl": decl.ObjCKindMethodInstance,
	"ObjCClassMethodDecl":    decl.ObjCKindMethodClass,
	"EnumDecl":               decl.ObjCKindEnum,
	"EnumConstantDecl":       decl.ObjCKindEnumCase,
	"TypedefDecl":            decl.ObjCKindTypedef,
	"FunctionDecl":           decl.ObjCKindFunction,
	"VarDecl":                decl.ObjCKindConstant,
	"StructDecl":             decl.ObjCKindStruct,
	"FieldDecl":              decl.ObjCKindField,
	"ModuleImport":           decl.ObjCKindModuleImport,
}

// KindForCursorKind returns the declaration kind for a libclang cursor kind
// spelling such as "ObjCPropertyDecl".
func KindForCursorKind(spelling string) (decl.ObjCKind, bool) {
	k, ok := cursorKinds[spelling]
	return k, ok
}

// Node is a materialized cursor: a front end that has already walked the
// translation unit hands over a tree of Nodes instead of live cursors.
type Node struct {
	CursorKind      string  `json:"kind"`
	File            string  `json:"file,omitempty"`
	Line            uint32  `json:"line,omitempty"`
	Column          uint32  `json:"column,omitempty"`
	Offset          uint32  `json:"offset,omitempty"`
	EndLine         uint32  `json:"end_line,omitempty"`
	EndColumn       uint32  `json:"end_column,omitempty"`
	EndOffset       uint32  `json:"end_offset,omitempty"`
	Spelling        string  `json:"spelling,omitempty"`
	USRString       string  `json:"usr,omitempty"`
	DeclarationText string  `json:"declaration,omitempty"`
	InSystemHeader  bool    `json:"system_header,omitempty"`
	Nodes           []*Node `json:"children,omitempty"`
}

var _ Cursor = (*Node)(nil)

func (n *Node) Children() []Cursor { return Cursors(n.Nodes) }

// ShouldDocument rejects cursors from system headers or without a file, and
// kinds outside the declaration vocabulary. Names are not checked; the
// default predicate script rejects unnamed cursors.
func (n *Node) ShouldDocument() bool {
	if n.InSystemHeader || n.File == "" {
		return false
	}
	_, ok := n.Kind()
	return ok
}

func (n *Node) Kind() (decl.ObjCKind, bool) { return KindForCursorKind(n.CursorKind) }

func (n *Node) Location() (decl.SourceLocation, bool) {
	if n.File == "" {
		return decl.SourceLocation{}, false
	}
	return decl.SourceLocation{File: n.File, Line: n.Line, Column: n.Column, Offset: n.Offset}, true
}

func (n *Node) Extent() (decl.Extent, bool) {
	if n.File == "" || n.EndOffset < n.Offset {
		return decl.Extent{}, false
	}
	return decl.Extent{
		Start: decl.SourceLocation{File: n.File, Line: n.Line, Column: n.Column, Offset: n.Offset},
		End:   decl.SourceLocation{File: n.File, Line: n.EndLine, Column: n.EndColumn, Offset: n.EndOffset},
	}, true
}

func (n *Node) Name() string        { return n.Spelling }
func (n *Node) USR() string         { return n.USRString }
func (n *Node) Declaration() string { return n.DeclarationText }

// Cursors adapts nodes to the Cursor interface. Nil nodes, which a dump
// yields for null entries, are skipped.
func Cursors(nodes []*Node) []Cursor {
	out := make([]Cursor, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// DecodeNodes reads a JSON array of Nodes, the form a cursor dump is
// handed over in.
func DecodeNodes(rd io.Reader) ([]*Node, error) {
	var nodes []*Node
	if err := json.NewDecoder(rd).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("objc: decode nodes: %w", err)
	}
	return nodes, nil
}
