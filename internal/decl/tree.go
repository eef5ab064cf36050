package decl

import "slices"

// Sort orders decls by location in place. The sort is stable: declarations
// sharing a file and offset, such as a property and an accessor reported at
// the same coordinates, keep the order the tree builder produced them in.
func Sort[D Declaration](decls []D) {
	slices.SortStableFunc(decls, func(a, b D) int {
		switch {
		case Less(a, b):
			return -1
		case Less(b, a):
			return 1
		}
		return 0
	})
}

// Walk visits every declaration depth-first, parents before children.
// Returning false from fn skips the declaration's subtree.
func Walk[D Declaration](decls []D, fn func(d Declaration, depth int) bool) {
	for _, d := range decls {
		walk(d, 0, fn)
	}
}

func walk(d Declaration, depth int, fn func(Declaration, int) bool) {
	if !fn(d, depth) {
		return
	}
	for _, c := range d.Children() {
		walk(c, depth+1, fn)
	}
}

// Flatten returns every declaration in the trees rooted at decls, in
// source-text order.
func Flatten[D Declaration](decls []D) []Declaration {
	var out []Declaration
	Walk(decls, func(d Declaration, _ int) bool {
		out = append(out, d)
		return true
	})
	Sort(out)
	return out
}

// Unique drops declarations equal to an earlier element. Order is preserved.
func Unique[D Declaration](decls []D) []D {
	seen := make(map[Key]struct{}, len(decls))
	out := make([]D, 0, len(decls))
	for _, d := range decls {
		k := KeyOf(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}
