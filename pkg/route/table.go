package route

import (
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is a named template.
type Entry struct {
	Name     string
	Template string
}

// Table is an ordered, immutable mapping of route names to templates.
// Declaration order is match priority.
type Table struct {
	routes *orderedmap.OrderedMap[string, string]
}

// NewTable builds a table. Empty and duplicate names are rejected.
func NewTable(entries ...Entry) (*Table, error) {
	routes := orderedmap.New[string, string]()
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("route %d: empty name", i)
		}
		if _, exists := routes.Get(e.Name); exists {
			return nil, fmt.Errorf("route %q: %w", e.Name, ErrDuplicateRoute)
		}
		routes.Set(e.Name, e.Template)
	}
	return &Table{routes: routes}, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of routes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.routes.Len()
}

// Template returns the template registered under name.
func (t *Table) Template(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	return t.routes.Get(name)
}

// Names returns route names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Len())
	for name := range t.All() {
		names = append(names, name)
	}
	return names
}

// Entries returns the routes in declaration order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, t.Len())
	for name, template := range t.All() {
		entries = append(entries, Entry{Name: name, Template: template})
	}
	return entries
}

// All iterates over name/template pairs in declaration order.
func (t *Table) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if t == nil {
			return
		}
		for pair := t.routes.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
