package decltree

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/decltree/internal/decl"
	"github.com/jward/decltree/internal/sourcekit"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// swiftRecords describes a struct with n instance vars in file, each
// declared on its own line.
func swiftRecords(file, name string, n int) []Record {
	members := make([]any, 0, n)
	for i := range n {
		offset := 20 + i*20
		members = append(members, map[string]any{
			sourcekit.KeyKind:              string(decl.SwiftKindVarInstance),
			sourcekit.KeyName:              fmt.Sprintf("field%d", i),
			sourcekit.KeyTypeName:          "Int",
			sourcekit.KeyUSR:               fmt.Sprintf("s:%s%sV5field%dSivp", file, name, i),
			sourcekit.KeyDocFile:           file,
			sourcekit.KeyDocLine:           int64(i + 2),
			sourcekit.KeyDocColumn:         int64(9),
			sourcekit.KeyOffset:            int64(offset),
			sourcekit.KeyParsedScopeStart:  int64(offset - 4),
			sourcekit.KeyParsedScopeEnd:    int64(offset + 14),
			sourcekit.KeyParsedDeclaration: fmt.Sprintf("var field%d: Int", i),
		})
	}
	return []Record{{
		sourcekit.KeyKind:             string(decl.SwiftKindStruct),
		sourcekit.KeyName:             name,
		sourcekit.KeyUSR:              fmt.Sprintf("s:%s%sV", file, name),
		sourcekit.KeyDocFile:          file,
		sourcekit.KeyDocLine:          int64(1),
		sourcekit.KeyDocColumn:        int64(8),
		sourcekit.KeyOffset:           int64(7),
		sourcekit.KeyParsedScopeStart: int64(0),
		sourcekit.KeyParsedScopeEnd:   int64(20 + n*20),
		sourcekit.KeySubstructure:     members,
	}}
}

// objcInterface describes an interface in file with n properties, each
// followed by the getter and setter clang synthesizes for it.
func objcInterface(file, class string, n int) *Node {
	root := &Node{
		CursorKind: "ObjCInterfaceDecl",
		File:       file,
		Line:       1,
		Column:     12,
		Offset:     11,
		EndLine:    uint32(n + 2),
		EndColumn:  5,
		EndOffset:  uint32(40 + n*40),
		Spelling:   class,
		USRString:  "c:objc(cs)" + class,
	}
	for i := range n {
		name := fmt.Sprintf("value%d", i)
		setter := fmt.Sprintf("setValue%d:", i)
		line := uint32(i + 2)
		offset := uint32(40 + i*40)
		usr := "c:objc(cs)" + class
		root.Nodes = append(root.Nodes,
			&Node{
				CursorKind:      "ObjCPropertyDecl",
				File:            file,
				Line:            line,
				Column:          20,
				Offset:          offset,
				EndLine:         line,
				EndColumn:       35,
				EndOffset:       offset + 15,
				Spelling:        name,
				USRString:       usr + "(py)" + name,
				DeclarationText: "@property (nonatomic) int " + name,
			},
			accessorNode(file, line, offset, name, usr+"(im)"+name),
			accessorNode(file, line, offset, setter, usr+"(im)"+setter),
		)
	}
	return root
}

func accessorNode(file string, line, offset uint32, name, usr string) *Node {
	return &Node{
		CursorKind: "ObjCInstanceMethodDecl",
		File:       file,
		Line:       line,
		Column:     20,
		Offset:     offset,
		Spelling:   name,
		USRString:  usr,
	}
}
