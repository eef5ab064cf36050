// Package decltree normalizes declaration trees from two front ends into one
// model: Swift structure records as produced by SourceKit (key.* maps) and
// Objective-C clang cursors.
//
// # Model
//
// Every node satisfies [Declaration]. [SwiftDeclaration] and
// [ObjCDeclaration] are what the builders return; [Unified] is a
// language-neutral copy made with [NewUnified] and what the Store hands back.
// Declarations are equal when their USR and location are equal ([Equal]),
// and ordered by file then offset ([Less], [Sort]).
//
// Objective-C properties make clang synthesize getter and setter methods
// that the cursor walk reports as ordinary members. The builder drops them
// ([RejectPropertyMethods]) after computing their USRs with
// [AccessorUSRs].
//
// # Usage
//
// The builders are pure and can be used without a database:
//
//	root, err := decltree.DecodeSwift(f)
//	decls := decltree.BuildSwiftFile(root)
//
// An [Engine] persists trees to SQLite and answers queries:
//
//	e, err := decltree.New("decltree.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	err = e.IndexUnits(ctx, []decltree.Unit{
//		{Path: "Foo.swift", Language: decltree.LanguageSwift, Records: records},
//		{Path: "Foo.h", Language: decltree.LanguageObjC, Cursors: cursors},
//	})
//
//	q := e.Query()
//	d, err := q.DeclarationAt("Foo.h", 120)
//
// # Scripts
//
// Which Objective-C cursors are documented is decided by a Risor script.
// The default lives in the scripts package; [WithPredicateScript] and
// [WithPredicate] replace it. See the internal/runtime package for the
// globals exposed to scripts.
package decltree
