package route

import (
	"fmt"
	"iter"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Values holds parameter values for Build in insertion order. Order decides
// how leftover values are laid out in a splat.
type Values struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{m: orderedmap.New[string, any]()}
}

// ValuesOf builds Values from alternating name/value pairs. It panics on an
// odd count or a non-string name.
func ValuesOf(pairs ...any) *Values {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("route.ValuesOf: odd number of arguments (%d)", len(pairs)))
	}
	v := NewValues()
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("route.ValuesOf: argument %d is %T, not a string", i, pairs[i]))
		}
		v.Set(name, pairs[i+1])
	}
	return v
}

// ValuesFromMap builds Values from a map, ordering names lexically.
func ValuesFromMap(m map[string]any) *Values {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	v := NewValues()
	for _, name := range names {
		v.Set(name, m[name])
	}
	return v
}

// Set stores value under name. Setting an existing name keeps its position.
func (v *Values) Set(name string, value any) *Values {
	v.m.Set(name, value)
	return v
}

// Get returns the value stored under name.
func (v *Values) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	return v.m.Get(name)
}

// Len returns the number of values.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return v.m.Len()
}

// Names returns the names in insertion order.
func (v *Values) Names() []string {
	names := make([]string, 0, v.Len())
	for name := range v.All() {
		names = append(names, name)
	}
	return names
}

// All iterates over name/value pairs in insertion order.
func (v *Values) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if v == nil {
			return
		}
		for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
