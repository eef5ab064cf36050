package decl

func ptr[T any](v T) *T { return &v }

func loc(file string, line, col, offset uint32) *SourceLocation {
	return &SourceLocation{File: file, Line: line, Column: col, Offset: offset}
}

// objcProperty builds a property node the way the cursor builder would.
func objcProperty(usr, text string) *ObjCDeclaration {
	return NewObjCDeclaration(ObjCKindProperty, Attrs{
		USR:             ptr(usr),
		DeclarationText: ptr(text),
	}, nil)
}

func objcMethod(usr string) *ObjCDeclaration {
	return NewObjCDeclaration(ObjCKindMethodInstance, Attrs{USR: ptr(usr)}, nil)
}
