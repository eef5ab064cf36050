// Package sourcekit builds declaration trees from SourceKit structure
// dictionaries describing Swift sources.
package sourcekit

import (
	"encoding/json"
	"math"
)

// Record is one SourceKit dictionary. Values are whatever the transport
// produced: strings, integers of any width, float64 or json.Number for
// numbers, and []any or []Record for key.substructure.
type Record = map[string]any

// Dictionary keys read by Build.
const (
	KeyKind              = "key.kind"
	KeyDocFile           = "key.doc.file"
	KeyDocLine           = "key.doc.line"
	KeyDocColumn         = "key.doc.column"
	KeyOffset            = "key.offset"
	KeyParsedScopeStart  = "key.parsed_scope.start"
	KeyParsedScopeEnd    = "key.parsed_scope.end"
	KeyName              = "key.name"
	KeyTypeName          = "key.typename"
	KeyUSR               = "key.usr"
	KeyParsedDeclaration = "key.parsed_declaration"
	KeySubstructure      = "key.substructure"
	KeyAccessibility     = "key.accessibility"
	KeyDocComment        = "key.doc.comment"
)

func getString(r Record, key string) *string {
	s, ok := r[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// getUint32 reads a non-negative integer that fits in 32 bits. Anything
// else, including fractional numbers, reads as absent.
func getUint32(r Record, key string) *uint32 {
	var n int64
	switch v := r[key].(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint32:
		return &v
	case uint64:
		if v > math.MaxUint32 {
			return nil
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		n = int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	if n < 0 || n > math.MaxUint32 {
		return nil
	}
	u := uint32(n)
	return &u
}

func getSubstructure(r Record) []Record {
	switch v := r[KeySubstructure].(type) {
	case []Record:
		return v
	case []any:
		out := make([]Record, 0, len(v))
		for _, item := range v {
			if m, ok := item.(Record); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
