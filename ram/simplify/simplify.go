// Package simplify normalizes a RAM tree before rendering. The rewrites
// only remove structural noise the compiler's dump tends to carry: wrapper
// nodes with a single child and directly nested duplicates. They never touch
// statement ordering, scope nesting or index annotations, so rendering a
// simplified tree differs from the raw tree only in incidental formatting.
// Simplification is idempotent.
package simplify

import "github.com/ramlens/ramlens/ram"

// Simplify returns a normalized copy of the program. The input is not
// modified.
func Simplify(prog *ram.Program) *ram.Program {
	out := &ram.Program{Subroutines: make([]ram.Subroutine, len(prog.Subroutines))}
	for i, sub := range prog.Subroutines {
		stmts := make([]ram.Statement, len(sub.Statements))
		for j, stmt := range sub.Statements {
			stmts[j] = statement(stmt)
		}
		out.Subroutines[i] = ram.Subroutine{Name: sub.Name, Stratum: sub.Stratum, Statements: stmts}
	}
	return out
}

func statement(stmt ram.Statement) ram.Statement {
	switch s := stmt.(type) {
	case ram.Loop:
		body := make([]ram.Statement, len(s.Body))
		for i, inner := range s.Body {
			body[i] = statement(inner)
		}
		return ram.Loop{Body: body}
	case ram.Query:
		return ram.Query{Op: operation(s.Op)}
	case ram.Debug:
		return ram.Debug{Info: s.Info, Inner: statement(s.Inner)}
	case ram.Exit:
		return ram.Exit{Cond: condition(s.Cond)}
	default:
		// Clear, Swap and IO carry no rewritable children.
		return stmt
	}
}

func operation(op ram.Operation) ram.Operation {
	switch o := op.(type) {
	case ram.Declare:
		return ram.Declare{
			Target:     element(o.Target),
			Aggregator: o.Aggregator,
			BoundVar:   o.BoundVar,
			Source:     o.Source,
			Inner:      operation(o.Inner),
		}
	case ram.ForLoop:
		simplified := ram.ForLoop{BoundVar: o.BoundVar, Relation: o.Relation, Inner: operation(o.Inner)}
		if o.OnIndex != nil {
			simplified.OnIndex = condition(o.OnIndex)
		}
		return simplified
	case ram.If:
		simplified := ram.If{Cond: condition(o.Cond), Breaks: o.Breaks, Inner: operation(o.Inner)}
		if o.OnIndex != nil {
			simplified.OnIndex = condition(o.OnIndex)
		}
		return simplified
	case ram.Unpack:
		return ram.Unpack{Ident: o.Ident, Ref: element(o.Ref), Inner: operation(o.Inner)}
	case ram.Insert:
		return ram.Insert{Tuple: elements(o.Tuple), Relation: o.Relation}
	case ram.Erase:
		return ram.Erase{Tuple: elements(o.Tuple), Relation: o.Relation}
	default:
		return op
	}
}

func condition(cond ram.Condition) ram.Condition {
	switch c := cond.(type) {
	case ram.Or:
		list := make([]ram.Condition, 0, len(c.List))
		for _, inner := range c.List {
			inner = condition(inner)
			// Flatten a disjunction nested directly in a disjunction.
			if nested, ok := inner.(ram.Or); ok {
				list = append(list, nested.List...)
			} else {
				list = append(list, inner)
			}
		}
		if len(list) == 1 {
			return list[0]
		}
		return ram.Or{List: list}

	case ram.And:
		list := make([]ram.Condition, 0, len(c.List))
		for _, inner := range c.List {
			inner = condition(inner)
			if nested, ok := inner.(ram.And); ok {
				list = append(list, nested.List...)
			} else {
				list = append(list, inner)
			}
		}
		if len(list) == 1 {
			return list[0]
		}
		return ram.And{List: list}

	case ram.Not:
		inner := condition(c.Cond)
		if nested, ok := inner.(ram.Not); ok {
			return nested.Cond
		}
		return ram.Not{Cond: inner}

	case ram.In:
		return ram.In{Elems: elements(c.Elems), Relation: c.Relation}

	case ram.Compare:
		return ram.Compare{LHS: element(c.LHS), Op: c.Op, RHS: element(c.RHS)}

	case ram.BracketedCond:
		inner := condition(c.Cond)
		if nested, ok := inner.(ram.BracketedCond); ok {
			return nested
		}
		return ram.BracketedCond{Cond: inner}

	default:
		// Exists and IsEmpty carry no rewritable children.
		return cond
	}
}

func element(elem ram.TupleElement) ram.TupleElement {
	switch e := elem.(type) {
	case ram.Add:
		list := elements(e.List)
		if len(list) == 1 {
			return list[0]
		}
		return ram.Add{List: list}
	case ram.Sub:
		list := elements(e.List)
		if len(list) == 1 {
			return list[0]
		}
		return ram.Sub{List: list}
	case ram.FunctorCall:
		return ram.FunctorCall{Functor: e.Functor, Args: elements(e.Args)}
	case ram.BracketedElem:
		inner := element(e.Elem)
		if nested, ok := inner.(ram.BracketedElem); ok {
			return nested
		}
		return ram.BracketedElem{Elem: inner}
	case ram.Record:
		return ram.Record{List: elements(e.List)}
	default:
		return elem
	}
}

func elements(list []ram.TupleElement) []ram.TupleElement {
	out := make([]ram.TupleElement, len(list))
	for i, elem := range list {
		out[i] = element(elem)
	}
	return out
}
