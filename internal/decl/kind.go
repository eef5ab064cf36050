package decl

import "fmt"

// Language identifies which front end produced a declaration.
type Language int

const (
	LanguageSwift Language = iota
	LanguageObjC
)

func (l Language) String() string {
	switch l {
	case LanguageSwift:
		return "swift"
	case LanguageObjC:
		return "objc"
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// ParseLanguage is the inverse of Language.String.
func ParseLanguage(s string) (Language, bool) {
	switch s {
	case "swift":
		return LanguageSwift, true
	case "objc":
		return LanguageObjC, true
	}
	return 0, false
}

// Kind classifies a declaration within its language's vocabulary. The two
// vocabularies are disjoint; a Kind always reports the language it belongs to.
type Kind interface {
	Language() Language
	String() string
	kind()
}

// SwiftKind is a Swift declaration kind, using SourceKit's raw values.
type SwiftKind string

const (
	SwiftKindAssociatedType      SwiftKind = "source.lang.swift.decl.associatedtype"
	SwiftKindClass               SwiftKind = "source.lang.swift.decl.class"
	SwiftKindEnum                SwiftKind = "source.lang.swift.decl.enum"
	SwiftKindEnumCase            SwiftKind = "source.lang.swift.decl.enumcase"
	SwiftKindEnumElement         SwiftKind = "source.lang.swift.decl.enumelement"
	SwiftKindExtension           SwiftKind = "source.lang.swift.decl.extension"
	SwiftKindExtensionClass      SwiftKind = "source.lang.swift.decl.extension.class"
	SwiftKindExtensionEnum       SwiftKind = "source.lang.swift.decl.extension.enum"
	SwiftKindExtensionProtocol   SwiftKind = "source.lang.swift.decl.extension.protocol"
	SwiftKindExtensionStruct     SwiftKind = "source.lang.swift.decl.extension.struct"
	SwiftKindAccessorAddress     SwiftKind = "source.lang.swift.decl.function.accessor.address"
	SwiftKindAccessorDidSet      SwiftKind = "source.lang.swift.decl.function.accessor.didset"
	SwiftKindAccessorGetter      SwiftKind = "source.lang.swift.decl.function.accessor.getter"
	SwiftKindAccessorMutableAddr SwiftKind = "source.lang.swift.decl.function.accessor.mutableaddress"
	SwiftKindAccessorSetter      SwiftKind = "source.lang.swift.decl.function.accessor.setter"
	SwiftKindAccessorWillSet     SwiftKind = "source.lang.swift.decl.function.accessor.willset"
	SwiftKindConstructor         SwiftKind = "source.lang.swift.decl.function.constructor"
	SwiftKindDestructor          SwiftKind = "source.lang.swift.decl.function.destructor"
	SwiftKindFunctionFree        SwiftKind = "source.lang.swift.decl.function.free"
	SwiftKindMethodClass         SwiftKind = "source.lang.swift.decl.function.method.class"
	SwiftKindMethodInstance      SwiftKind = "source.lang.swift.decl.function.method.instance"
	SwiftKindMethodStatic        SwiftKind = "source.lang.swift.decl.function.method.static"
	SwiftKindOperator            SwiftKind = "source.lang.swift.decl.function.operator"
	SwiftKindSubscript           SwiftKind = "source.lang.swift.decl.function.subscript"
	SwiftKindGenericTypeParam    SwiftKind = "source.lang.swift.decl.generic_type_param"
	SwiftKindModule              SwiftKind = "source.lang.swift.decl.module"
	SwiftKindProtocol            SwiftKind = "source.lang.swift.decl.protocol"
	SwiftKindStruct              SwiftKind = "source.lang.swift.decl.struct"
	SwiftKindTypeAlias           SwiftKind = "source.lang.swift.decl.typealias"
	SwiftKindVarClass            SwiftKind = "source.lang.swift.decl.var.class"
	SwiftKindVarGlobal           SwiftKind = "source.lang.swift.decl.var.global"
	SwiftKindVarInstance         SwiftKind = "source.lang.swift.decl.var.instance"
	SwiftKindVarLocal            SwiftKind = "source.lang.swift.decl.var.local"
	SwiftKindVarParameter        SwiftKind = "source.lang.swift.decl.var.parameter"
	SwiftKindVarStatic           SwiftKind = "source.lang.swift.decl.var.static"
)

var swiftKinds = map[SwiftKind]bool{
	SwiftKindAssociatedType: true, SwiftKindClass: true, SwiftKindEnum: true,
	SwiftKindEnumCase: true, SwiftKindEnumElement: true, SwiftKindExtension: true,
	SwiftKindExtensionClass: true, SwiftKindExtensionEnum: true,
	SwiftKindExtensionProtocol: true, SwiftKindExtensionStruct: true,
	SwiftKindAccessorAddress: true, SwiftKindAccessorDidSet: true,
	SwiftKindAccessorGetter: true, SwiftKindAccessorMutableAddr: true,
	SwiftKindAccessorSetter: true, SwiftKindAccessorWillSet: true,
	SwiftKindConstructor: true, SwiftKindDestructor: true, SwiftKindFunctionFree: true,
	SwiftKindMethodClass: true, SwiftKindMethodInstance: true, SwiftKindMethodStatic: true,
	SwiftKindOperator: true, SwiftKindSubscript: true, SwiftKindGenericTypeParam: true,
	SwiftKindModule: true, SwiftKindProtocol: true, SwiftKindStruct: true,
	SwiftKindTypeAlias: true, SwiftKindVarClass: true, SwiftKindVarGlobal: true,
	SwiftKindVarInstance: true, SwiftKindVarLocal: true, SwiftKindVarParameter: true,
	SwiftKindVarStatic: true,
}

// ParseSwiftKind returns the SwiftKind for a SourceKit kind string.
func ParseSwiftKind(raw string) (SwiftKind, bool) {
	k := SwiftKind(raw)
	return k, swiftKinds[k]
}

func (SwiftKind) Language() Language { return LanguageSwift }
func (k SwiftKind) String() string   { return string(k) }
func (SwiftKind) kind()              {}

// ObjCKind is an Objective-C declaration kind.
type ObjCKind string

const (
	ObjCKindCategory       ObjCKind = "sourcekitten.source.lang.objc.decl.category"
	ObjCKindClass          ObjCKind = "sourcekitten.source.lang.objc.decl.class"
	ObjCKindConstant       ObjCKind = "sourcekitten.source.lang.objc.decl.constant"
	ObjCKindEnum           ObjCKind = "sourcekitten.source.lang.objc.decl.enum"
	ObjCKindEnumCase       ObjCKind = "sourcekitten.source.lang.objc.decl.enumcase"
	ObjCKindInitializer    ObjCKind = "sourcekitten.source.lang.objc.decl.initializer"
	ObjCKindMethodClass    ObjCKind = "sourcekitten.source.lang.objc.decl.method.class"
	ObjCKindMethodInstance ObjCKind = "sourcekitten.source.lang.objc.decl.method.instance"
	ObjCKindProperty       ObjCKind = "sourcekitten.source.lang.objc.decl.property"
	ObjCKindProtocol       ObjCKind = "sourcekitten.source.lang.objc.decl.protocol"
	ObjCKindTypedef        ObjCKind = "sourcekitten.source.lang.objc.decl.typedef"
	ObjCKindFunction       ObjCKind = "sourcekitten.source.lang.objc.decl.function"
	ObjCKindMark           ObjCKind = "sourcekitten.source.lang.objc.mark"
	ObjCKindStruct         ObjCKind = "sourcekitten.source.lang.objc.decl.struct"
	ObjCKindField          ObjCKind = "sourcekitten.source.lang.objc.decl.field"
	ObjCKindIvar           ObjCKind = "sourcekitten.source.lang.objc.decl.ivar"
	ObjCKindModuleImport   ObjCKind = "sourcekitten.source.lang.objc.module.import"
)

var objcKinds = map[ObjCKind]bool{
	ObjCKindCategory: true, ObjCKindClass: true, ObjCKindConstant: true,
	ObjCKindEnum: true, ObjCKindEnumCase: true, ObjCKindInitializer: true,
	ObjCKindMethodClass: true, ObjCKindMethodInstance: true, ObjCKindProperty: true,
	ObjCKindProtocol: true, ObjCKindTypedef: true, ObjCKindFunction: true,
	ObjCKindMark: true, ObjCKindStruct: true, ObjCKindField: true,
	ObjCKindIvar: true, ObjCKindModuleImport: true,
}

// ParseObjCKind returns the ObjCKind for a raw kind string.
func ParseObjCKind(raw string) (ObjCKind, bool) {
	k := ObjCKind(raw)
	return k, objcKinds[k]
}

func (ObjCKind) Language() Language { return LanguageObjC }
func (k ObjCKind) String() string   { return string(k) }
func (ObjCKind) kind()              {}

// ParseKind resolves a raw kind string within lang's vocabulary.
func ParseKind(lang Language, raw string) (Kind, bool) {
	switch lang {
	case LanguageSwift:
		if k, ok := ParseSwiftKind(raw); ok {
			return k, true
		}
	case LanguageObjC:
		if k, ok := ParseObjCKind(raw); ok {
			return k, true
		}
	}
	return nil, false
}

// IsProperty reports whether k is an Objective-C property. Swift properties
// are vars and never have synthesized accessor nodes.
func IsProperty(k Kind) bool {
	objc, _ := k.(ObjCKind)
	return objc == ObjCKindProperty
}

// Accessibility is a declaration's visibility as reported by the front end.
type Accessibility string

const (
	AccessibilityPrivate     Accessibility = "source.lang.swift.accessibility.private"
	AccessibilityFilePrivate Accessibility = "source.lang.swift.accessibility.fileprivate"
	AccessibilityInternal    Accessibility = "source.lang.swift.accessibility.internal"
	AccessibilityPublic      Accessibility = "source.lang.swift.accessibility.public"
	AccessibilityOpen        Accessibility = "source.lang.swift.accessibility.open"
)

// ParseAccessibility returns the Accessibility for a raw SourceKit string.
func ParseAccessibility(raw string) (Accessibility, bool) {
	switch a := Accessibility(raw); a {
	case AccessibilityPrivate, AccessibilityFilePrivate, AccessibilityInternal,
		AccessibilityPublic, AccessibilityOpen:
		return a, true
	}
	return "", false
}
