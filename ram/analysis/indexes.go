// Package analysis holds the read-only passes over the RAM tree: currently
// the conservative secondary-index inference.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// Disclaimer precedes every index listing. The inference only sees on-index
// scans in the dumped IR, so the list may both under- and over-report.
const Disclaimer = "WARNING: This list is conservative. Some indexes may not be included."

// BTreeIndex describes one inferred secondary index: the relation and the
// schema attributes at the referenced column positions, in ascending column
// order.
type BTreeIndex struct {
	Relation string
	Attrs    []ram.Attribute
}

// TypeString renders the index in listing form.
func (ix BTreeIndex) TypeString() string {
	parts := make([]string, len(ix.Attrs))
	for i, a := range ix.Attrs {
		parts[i] = a.Name + ":" + a.Type
	}
	return "BTREE(" + strings.Join(parts, ", ") + ")"
}

// String renders the index for diagnostics.
func (ix BTreeIndex) String() string {
	parts := make([]string, len(ix.Attrs))
	for i, a := range ix.Attrs {
		parts[i] = a.Name + ":" + a.Type
	}
	return "BTree Index on " + ix.Relation + "(" + strings.Join(parts, ", ") + ")"
}

// Infer walks the program and emits one index descriptor per on-index scan,
// grouped by relation name. Descriptors are an intentional multiset: two
// scans with the same column set contribute two entries.
func Infer(prog *ram.Program, catalog ram.Catalog) (map[string][]BTreeIndex, error) {
	v := &indexVisitor{catalog: catalog, indexes: make(map[string][]BTreeIndex)}
	for _, sub := range prog.Subroutines {
		for _, stmt := range sub.Statements {
			if err := v.visitStatement(stmt); err != nil {
				return nil, err
			}
		}
	}
	return v.indexes, nil
}

type indexVisitor struct {
	catalog ram.Catalog
	indexes map[string][]BTreeIndex
}

func (v *indexVisitor) visitStatement(stmt ram.Statement) error {
	switch s := stmt.(type) {
	case ram.Loop:
		for _, inner := range s.Body {
			if err := v.visitStatement(inner); err != nil {
				return err
			}
		}
	case ram.Query:
		return v.visitOperation(s.Op)
	case ram.Debug:
		return v.visitStatement(s.Inner)
	case ram.Clear, ram.Swap, ram.Exit, ram.IO:
		// No scans below these.
	default:
		return fmt.Errorf("index inference: unhandled statement %T", stmt)
	}
	return nil
}

func (v *indexVisitor) visitOperation(op ram.Operation) error {
	switch o := op.(type) {
	case ram.ForLoop:
		if o.OnIndex != nil {
			if err := v.addIndex(o.BoundVar, o.Relation, o.OnIndex); err != nil {
				return err
			}
		}
		return v.visitOperation(o.Inner)
	case ram.Declare:
		return v.visitOperation(o.Inner)
	case ram.If:
		return v.visitOperation(o.Inner)
	case ram.Unpack:
		return v.visitOperation(o.Inner)
	case ram.Insert, ram.Erase:
		return nil
	default:
		return fmt.Errorf("index inference: unhandled operation %T", op)
	}
}

// addIndex opens a fresh accumulator for one on-index scan, collects the
// columns of boundVar referenced anywhere in the condition, and emits a
// descriptor from the relation's schema at those columns.
func (v *indexVisitor) addIndex(boundVar string, rel ram.RelationRef, onIndex ram.Condition) error {
	schema, ok := v.catalog.Lookup(rel.Name)
	if !ok {
		return &ram.UnresolvedRelationError{Relation: rel.Name}
	}

	columns := make(map[int]bool)
	collectColumns(onIndex, boundVar, columns)

	sorted := make([]int, 0, len(columns))
	for col := range columns {
		sorted = append(sorted, col)
	}
	sort.Ints(sorted)

	attrs := make([]ram.Attribute, 0, len(sorted))
	for _, col := range sorted {
		if col < 0 || col >= len(schema.Attrs) {
			return fmt.Errorf("index inference: column %d out of range for %s", col, schema)
		}
		attrs = append(attrs, schema.Attrs[col])
	}

	v.indexes[rel.Name] = append(v.indexes[rel.Name], BTreeIndex{Relation: rel.Name, Attrs: attrs})
	return nil
}

func collectColumns(cond ram.Condition, boundVar string, into map[int]bool) {
	switch c := cond.(type) {
	case ram.Or:
		for _, inner := range c.List {
			collectColumns(inner, boundVar, into)
		}
	case ram.And:
		for _, inner := range c.List {
			collectColumns(inner, boundVar, into)
		}
	case ram.Not:
		collectColumns(c.Cond, boundVar, into)
	case ram.BracketedCond:
		collectColumns(c.Cond, boundVar, into)
	case ram.In:
		for _, elem := range c.Elems {
			collectElemColumns(elem, boundVar, into)
		}
	case ram.Compare:
		collectElemColumns(c.LHS, boundVar, into)
		collectElemColumns(c.RHS, boundVar, into)
	case ram.Exists, ram.IsEmpty:
		// No element references.
	}
}

func collectElemColumns(elem ram.TupleElement, boundVar string, into map[int]bool) {
	switch e := elem.(type) {
	case ram.Ref:
		if e.Tuple == boundVar {
			into[e.Column] = true
		}
	case ram.Add:
		for _, inner := range e.List {
			collectElemColumns(inner, boundVar, into)
		}
	case ram.Sub:
		for _, inner := range e.List {
			collectElemColumns(inner, boundVar, into)
		}
	case ram.FunctorCall:
		for _, arg := range e.Args {
			collectElemColumns(arg, boundVar, into)
		}
	case ram.BracketedElem:
		collectElemColumns(e.Elem, boundVar, into)
	case ram.Record:
		for _, inner := range e.List {
			collectElemColumns(inner, boundVar, into)
		}
	case ram.Literal, ram.Undefined:
		// Constants contribute no columns.
	}
}
