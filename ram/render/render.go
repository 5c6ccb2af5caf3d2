package render

import (
	"fmt"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// sourceSuffix is stripped from IO filenames before deciding whether the
// filename is worth showing next to the relation name.
const sourceSuffix = ".dl"

// Renderer walks a RAM tree under the bound-tuple environment discipline and
// produces a Document in one Notation. A Renderer is single-use per call to
// Render; the environment never leaks across calls.
type Renderer struct {
	notation Notation
	catalog  ram.Catalog
	env      *ram.Env
}

// New creates a renderer for a notation over a schema catalog.
func New(notation Notation, catalog ram.Catalog) *Renderer {
	return &Renderer{notation: notation, catalog: catalog}
}

// Render produces the plan document for a program, subroutines in stratum
// order.
func (r *Renderer) Render(prog *ram.Program) (*Document, error) {
	r.env = ram.NewEnv()
	defer func() { r.env = nil }()

	doc := &Document{}
	for _, sub := range prog.RenderOrder() {
		node := &Node{Lines: []string{r.notation.Subroutine(sub.Name)}}
		for _, stmt := range sub.Statements {
			child, err := r.renderStatement(stmt)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	return doc, nil
}

func (r *Renderer) renderStatement(stmt ram.Statement) (*Node, error) {
	switch s := stmt.(type) {
	case ram.Loop:
		node := &Node{Lines: []string{r.notation.Loop()}}
		for _, inner := range s.Body {
			child, err := r.renderStatement(inner)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil

	case ram.Query:
		return r.renderOperation(s.Op)

	case ram.Debug:
		node, err := r.renderStatement(s.Inner)
		if err != nil {
			return nil, err
		}
		comment := r.notation.CommentBlock(s.Info.Text())
		node.Lines = append(comment, node.Lines...)
		return node, nil

	case ram.Clear:
		return leaf(r.notation.Clear(r.notation.Relation(s.Relation))), nil

	case ram.Swap:
		return leaf(r.notation.Swap(r.notation.Relation(s.A), r.notation.Relation(s.B))), nil

	case ram.Exit:
		cond, err := r.renderCondition(s.Cond)
		if err != nil {
			return nil, err
		}
		return leaf(r.notation.Exit(cond)), nil

	case ram.IO:
		return r.renderIO(s)

	default:
		return nil, fmt.Errorf("render: unhandled statement %T", stmt)
	}
}

func (r *Renderer) renderIO(s ram.IO) (*Node, error) {
	operation := ""
	if v, ok := s.Options["operation"]; ok {
		operation = v.Text()
	}
	if operation != "input" && operation != "output" {
		return nil, &ram.UnrecognizedIOOperationError{Operation: operation}
	}

	delimiter := "\t"
	if v, ok := s.Options["delimiter"]; ok {
		delimiter = v.Text()
	}

	// The filename is noise when it is just the relation name with the
	// source suffix tacked on.
	filename := ""
	if v, ok := s.Options["filename"]; ok {
		if strings.TrimSuffix(v.Text(), sourceSuffix) != s.Relation.Name {
			filename = v.Text()
		}
	}

	return leaf(r.notation.IO(operation, r.notation.Relation(s.Relation), delimiter, filename)), nil
}

func (r *Renderer) renderOperation(op ram.Operation) (*Node, error) {
	switch o := op.(type) {
	case ram.Declare:
		schema, ok := r.catalog.Lookup(o.Source.Name)
		if !ok {
			return nil, &ram.UnresolvedRelationError{Relation: o.Source.Name}
		}
		// The target is resolved in the enclosing scope; only the inner
		// operation sees the aggregate binding.
		target, err := r.renderElement(o.Target)
		if err != nil {
			return nil, err
		}
		defer r.env.Bind(o.BoundVar, schema)()
		inner, err := r.renderOperation(o.Inner)
		if err != nil {
			return nil, err
		}
		line := r.notation.Declare(target, o.Aggregator, o.BoundVar, r.notation.Relation(o.Source))
		return &Node{Lines: []string{line}, Children: []*Node{inner}}, nil

	case ram.ForLoop:
		schema, ok := r.catalog.Lookup(o.Relation.Name)
		if !ok {
			return nil, &ram.UnresolvedRelationError{Relation: o.Relation.Name}
		}
		defer r.env.Bind(o.BoundVar, schema)()

		onIndex := ""
		if o.OnIndex != nil {
			var err error
			if onIndex, err = r.renderCondition(o.OnIndex); err != nil {
				return nil, err
			}
		}
		inner, err := r.renderOperation(o.Inner)
		if err != nil {
			return nil, err
		}
		line := r.notation.ForScan(o.BoundVar, r.notation.Relation(o.Relation), onIndex)
		return &Node{Lines: []string{line}, Children: []*Node{inner}}, nil

	case ram.If:
		cond, err := r.renderCondition(o.Cond)
		if err != nil {
			return nil, err
		}
		onIndex := ""
		if o.OnIndex != nil {
			if onIndex, err = r.renderCondition(o.OnIndex); err != nil {
				return nil, err
			}
		}
		inner, err := r.renderOperation(o.Inner)
		if err != nil {
			return nil, err
		}

		if !o.Breaks {
			return &Node{Lines: []string{r.notation.Guard(cond, onIndex)}, Children: []*Node{inner}}, nil
		}
		if inner.Leaf() {
			return leaf(r.notation.GuardBreak(cond, onIndex, inner.Lines[0])), nil
		}
		return &Node{
			Lines:    []string{r.notation.Guard(cond, onIndex)},
			Children: []*Node{inner, leaf(r.notation.Break())},
		}, nil

	case ram.Unpack:
		// The unpacked source still resolves against the enclosing scope;
		// the record binding covers only the inner operation.
		ref, err := r.renderElement(o.Ref)
		if err != nil {
			return nil, err
		}
		defer r.env.BindRecord(o.Ident)()
		inner, err := r.renderOperation(o.Inner)
		if err != nil {
			return nil, err
		}
		// A destructure is a binding, not a scope; it shares its inner's
		// indentation.
		inner.Lines = append([]string{r.notation.Unpack(o.Ident, ref)}, inner.Lines...)
		return inner, nil

	case ram.Insert:
		tuple, err := r.renderTuple(o.Tuple)
		if err != nil {
			return nil, err
		}
		return leaf(r.notation.Insert(tuple, r.notation.Relation(o.Relation))), nil

	case ram.Erase:
		tuple, err := r.renderTuple(o.Tuple)
		if err != nil {
			return nil, err
		}
		return leaf(r.notation.Erase(tuple, r.notation.Relation(o.Relation))), nil

	default:
		return nil, fmt.Errorf("render: unhandled operation %T", op)
	}
}

func (r *Renderer) renderCondition(cond ram.Condition) (string, error) {
	switch c := cond.(type) {
	case ram.Or:
		parts, err := r.renderConditions(c.List)
		if err != nil {
			return "", err
		}
		return r.notation.Or(parts), nil

	case ram.And:
		parts, err := r.renderConditions(c.List)
		if err != nil {
			return "", err
		}
		return r.notation.And(parts), nil

	case ram.Not:
		inner, err := r.renderCondition(c.Cond)
		if err != nil {
			return "", err
		}
		return r.notation.Not(inner), nil

	case ram.In:
		tuple, err := r.renderTuple(c.Elems)
		if err != nil {
			return "", err
		}
		return r.notation.In(tuple, r.notation.Relation(c.Relation)), nil

	case ram.Exists:
		return r.notation.Exists(c.BoundVar, r.notation.Relation(c.Relation)), nil

	case ram.IsEmpty:
		return r.notation.IsEmpty(r.notation.Relation(c.Relation)), nil

	case ram.Compare:
		lhs, err := r.renderElement(c.LHS)
		if err != nil {
			return "", err
		}
		rhs, err := r.renderElement(c.RHS)
		if err != nil {
			return "", err
		}
		return r.notation.Compare(lhs, c.Op, rhs), nil

	case ram.BracketedCond:
		inner, err := r.renderCondition(c.Cond)
		if err != nil {
			return "", err
		}
		return r.notation.Bracket(inner), nil

	default:
		return "", fmt.Errorf("render: unhandled condition %T", cond)
	}
}

func (r *Renderer) renderConditions(list []ram.Condition) ([]string, error) {
	parts := make([]string, len(list))
	for i, cond := range list {
		part, err := r.renderCondition(cond)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	return parts, nil
}

func (r *Renderer) renderElement(elem ram.TupleElement) (string, error) {
	switch e := elem.(type) {
	case ram.Literal:
		return r.notation.Literal(e.Value), nil

	case ram.Ref:
		// Inside a relation scope the column index names a schema attribute;
		// outside one the same syntax is a raw record field.
		if schema, ok := r.env.Lookup(e.Tuple); ok {
			if e.Column < 0 || e.Column >= len(schema.Attrs) {
				return "", fmt.Errorf("render: column %d out of range for %s", e.Column, schema)
			}
			return r.notation.Ref(e.Tuple, schema.Attrs[e.Column].Name), nil
		}
		return r.notation.RecordField(e.Tuple, e.Column), nil

	case ram.Add:
		parts, err := r.renderElements(e.List)
		if err != nil {
			return "", err
		}
		return r.notation.Add(parts), nil

	case ram.Sub:
		parts, err := r.renderElements(e.List)
		if err != nil {
			return "", err
		}
		return r.notation.Sub(parts), nil

	case ram.Undefined:
		return r.notation.Undefined(), nil

	case ram.FunctorCall:
		args, err := r.renderElements(e.Args)
		if err != nil {
			return "", err
		}
		return r.notation.Functor(e.Functor, args), nil

	case ram.BracketedElem:
		inner, err := r.renderElement(e.Elem)
		if err != nil {
			return "", err
		}
		return r.notation.Bracket(inner), nil

	case ram.Record:
		parts, err := r.renderElements(e.List)
		if err != nil {
			return "", err
		}
		return r.notation.RecordElem(parts), nil

	default:
		return "", fmt.Errorf("render: unhandled tuple element %T", elem)
	}
}

func (r *Renderer) renderElements(list []ram.TupleElement) ([]string, error) {
	parts := make([]string, len(list))
	for i, elem := range list {
		part, err := r.renderElement(elem)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}
	return parts, nil
}

func (r *Renderer) renderTuple(list []ram.TupleElement) (string, error) {
	parts, err := r.renderElements(list)
	if err != nil {
		return "", err
	}
	return r.notation.Tuple(parts), nil
}

func leaf(line string) *Node {
	return &Node{Lines: []string{line}}
}
