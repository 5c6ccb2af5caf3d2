package ram

import (
	"sort"
	"strings"
)

// Attribute is one column of a relation schema. Type is the Souffle type
// name: number, symbol, unsigned or float for primitives, or the declared
// type name for record/ADT-typed columns.
type Attribute struct {
	Name string
	Type string
}

// Relation is a relation schema: a qualified, dot-separated name and its
// ordered attributes.
type Relation struct {
	Name  string
	Attrs []Attribute
}

// String renders the schema as name(attr:type, ...).
func (r Relation) String() string {
	parts := make([]string, len(r.Attrs))
	for i, a := range r.Attrs {
		parts[i] = a.Name + ":" + a.Type
	}
	return r.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Catalog maps qualified relation names to their schemas.
type Catalog map[string]Relation

// Lookup returns the schema for a relation name.
func (c Catalog) Lookup(name string) (Relation, bool) {
	r, ok := c[name]
	return r, ok
}

// Names returns the catalog's relation names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
