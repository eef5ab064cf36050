package decl

// RejectPropertyMethods removes the accessor methods clang synthesizes for
// the properties in a sibling list. The cursor protocol reports each
// implicit getter and setter as its own method node next to the property,
// so without this pass every property would appear twice.
//
// The result is a new slice in the original order. Properties whose
// accessors cannot be derived contribute nothing, and siblings without a
// USR are always kept. Applying the filter to its own output is a no-op.
func RejectPropertyMethods[D Declaration](siblings []D) []D {
	implicit := make(map[string]struct{})
	for _, d := range siblings {
		if k := d.Kind(); k == nil || !IsProperty(k) {
			continue
		}
		acc, err := AccessorUSRs(d)
		if err != nil {
			continue
		}
		implicit[acc.Getter] = struct{}{}
		implicit[acc.Setter] = struct{}{}
	}

	out := make([]D, 0, len(siblings))
	for _, d := range siblings {
		if usr := d.USR(); usr != nil {
			if _, ok := implicit[*usr]; ok {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}
