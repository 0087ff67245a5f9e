package pattern

import "strings"

// Value is a captured value: either a single decoded segment or, for
// wildcards, the list of decoded segments.
type Value struct {
	text   string
	list   []string
	isList bool
}

// TextValue returns a single-segment value.
func TextValue(s string) Value {
	return Value{text: s}
}

// ListValue returns a multi-segment value.
func ListValue(parts []string) Value {
	return Value{list: parts, isList: true}
}

// IsList reports whether the value came from a wildcard.
func (v Value) IsList() bool {
	return v.isList
}

// Text returns the single-segment value, or "" for lists.
func (v Value) Text() string {
	return v.text
}

// List returns the segments of a wildcard value, or nil.
func (v Value) List() []string {
	return v.list
}

// String joins list values with "/".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, delimiter)
	}
	return v.text
}

// Params maps capture names to values.
type Params map[string]Value
