package decl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrPrecondition is matched by every *PreconditionError.
var ErrPrecondition = errors.New("accessor synthesis precondition violated")

// Violation names the precondition AccessorUSRs found unmet.
type Violation int

const (
	NotProperty Violation = iota + 1
	MissingUSR
	MissingDeclarationText
	MissingPropertyMarker
	MissingPropertyName
)

func (v Violation) String() string {
	switch v {
	case NotProperty:
		return "not a property"
	case MissingUSR:
		return "missing usr"
	case MissingDeclarationText:
		return "missing declaration text"
	case MissingPropertyMarker:
		return "usr has no property marker"
	case MissingPropertyName:
		return "usr has no property name"
	}
	return fmt.Sprintf("Violation(%d)", int(v))
}

// PreconditionError is returned when accessor synthesis is asked for on a
// declaration that cannot own implicit accessors.
type PreconditionError struct {
	Violation Violation
	USR       string
}

func (e *PreconditionError) Error() string {
	if e.USR == "" {
		return "decl: accessor usrs: " + e.Violation.String()
	}
	return fmt.Sprintf("decl: accessor usrs for %s: %s", e.USR, e.Violation)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// Accessors is the pair of identifiers implicitly owned by a property.
type Accessors struct {
	Getter string
	Setter string
}

// propertyMarkers maps the USR marker of a property to the marker of the
// methods clang synthesizes for it. Class properties come first so that
// "(cpy)" is never mistaken for an instance marker.
var propertyMarkers = []struct {
	property, method string
}{
	{"(cpy)", "(cm)"},
	{"(py)", "(im)"},
}

var (
	getterAttrRe = regexp.MustCompile(`getter\s*=\s*(\w+)`)
	setterAttrRe = regexp.MustCompile(`setter\s*=\s*(\w+:)`)
)

// AccessorUSRs derives the USRs of the getter and setter clang synthesizes
// for an Objective-C property. Explicit getter= and setter= attributes in the
// declaration text take precedence; the first match of each wins.
func AccessorUSRs(d Declaration) (Accessors, error) {
	if d.Kind() == nil || !IsProperty(d.Kind()) {
		var usr string
		if p := d.USR(); p != nil {
			usr = *p
		}
		return Accessors{}, &PreconditionError{Violation: NotProperty, USR: usr}
	}
	if d.USR() == nil {
		return Accessors{}, &PreconditionError{Violation: MissingUSR}
	}
	usr := *d.USR()
	if d.DeclarationText() == nil {
		return Accessors{}, &PreconditionError{Violation: MissingDeclarationText, USR: usr}
	}
	text := *d.DeclarationText()

	markerAt, propMarker, methodMarker := -1, "", ""
	for _, m := range propertyMarkers {
		if i := strings.Index(usr, m.property); i >= 0 {
			markerAt, propMarker, methodMarker = i, m.property, m.method
			break
		}
	}
	if markerAt < 0 {
		return Accessors{}, &PreconditionError{Violation: MissingPropertyMarker, USR: usr}
	}
	prefix := usr[:markerAt]
	name := usr[markerAt+len(propMarker):]
	if name == "" {
		return Accessors{}, &PreconditionError{Violation: MissingPropertyName, USR: usr}
	}

	var acc Accessors
	if m := getterAttrRe.FindStringSubmatch(text); m != nil {
		acc.Getter = prefix + methodMarker + m[1]
	} else {
		acc.Getter = prefix + methodMarker + name
	}
	if m := setterAttrRe.FindStringSubmatch(text); m != nil {
		acc.Setter = prefix + methodMarker + m[1]
	} else {
		acc.Setter = prefix + methodMarker + "set" + capitalizeFirst(name) + ":"
	}
	return acc, nil
}

// capitalizeFirst upper-cases the first character of s and leaves the rest
// untouched. Casers carry state, so each call gets its own.
func capitalizeFirst(s string) string {
	upper := cases.Upper(language.Und)
	for i := range s {
		if i > 0 {
			return upper.String(s[:i]) + s[i:]
		}
	}
	return upper.String(s)
}
