// Package ram models Souffle's relational-algebra intermediate
// representation (RAM) as a typed, immutable tree, together with the schema
// catalog and the bound-tuple environment the analysis passes share.
package ram

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is a parsed RAM program. Subroutines keep their declaration order;
// RenderOrder returns the stratum-sorted view used by the renderers.
type Program struct {
	Subroutines []Subroutine
}

// Subroutine is a named sequence of statements. Stratum is the evaluation
// phase number the compiler embeds in the subroutine name; it is extracted
// at parse time.
type Subroutine struct {
	Name       string
	Stratum    int
	Statements []Statement
}

// RenderOrder returns the subroutines sorted by stratum number, ties broken
// by declaration order. The ordering is a presentation convenience only;
// Subroutines preserves the parsed order.
func (p *Program) RenderOrder() []Subroutine {
	out := make([]Subroutine, len(p.Subroutines))
	copy(out, p.Subroutines)
	// Insertion sort keeps the sort stable without pulling in sort.SliceStable
	// for a handful of subroutines.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Stratum > out[j].Stratum; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// GenerationTag marks a relation reference with its semi-naive evaluation
// stage. The tag is structurally separate from the relation name; renderers
// decide how it appears.
type GenerationTag int

const (
	TagNone    GenerationTag = iota
	TagCurrent               // @delta_
	TagNext                  // @new_
	TagDelete                // @delete_
	TagReject                // @reject_
)

// String returns the tag's spelling in the RAM text dialect.
func (t GenerationTag) String() string {
	switch t {
	case TagCurrent:
		return "@delta_"
	case TagNext:
		return "@new_"
	case TagDelete:
		return "@delete_"
	case TagReject:
		return "@reject_"
	default:
		return ""
	}
}

// RelationRef names a relation, optionally staged by a generation tag.
type RelationRef struct {
	Tag  GenerationTag
	Name string
}

func (r RelationRef) String() string {
	return r.Tag.String() + r.Name
}

// Aggregator is the operation applied by a Declare binding.
type Aggregator int

const (
	AggCount Aggregator = iota
	AggSum
	AggMin
	AggMax
	AggMean
)

func (a Aggregator) String() string {
	switch a {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggMean:
		return "mean"
	default:
		return fmt.Sprintf("aggregator(%d)", int(a))
	}
}

// Statement is a subroutine-level RAM statement. The variants form a closed
// set; passes switch over them exhaustively.
type Statement interface {
	stmt()
}

// Loop repeats its body until an Exit statement inside it fires.
type Loop struct {
	Body []Statement
}

// Query holds one nested control/seek chain ending in a mutation.
type Query struct {
	Op Operation
}

// Debug attaches compiler-emitted commentary to Inner without changing its
// semantics. Info is the parsed literal payload.
type Debug struct {
	Info  Value
	Inner Statement
}

// Clear empties a relation.
type Clear struct {
	Relation RelationRef
}

// Swap exchanges the contents of two relations.
type Swap struct {
	A, B RelationRef
}

// Exit breaks the enclosing Loop when its condition holds.
type Exit struct {
	Cond Condition
}

// IO reads or writes a relation. Options is the parsed literal mapping from
// the RAM text; recognized keys are "operation", "filename" and "delimiter".
type IO struct {
	Relation RelationRef
	Options  map[string]Value
}

func (Loop) stmt()  {}
func (Query) stmt() {}
func (Debug) stmt() {}
func (Clear) stmt() {}
func (Swap) stmt()  {}
func (Exit) stmt()  {}
func (IO) stmt()    {}

// Operation is a node of the control/seek chain inside a Query. Insert and
// Erase are the terminals; every other variant carries exactly one Inner.
type Operation interface {
	op()
}

// Declare binds Target to Aggregator applied over BoundVar ranging across
// Source.
type Declare struct {
	Target     TupleElement
	Aggregator Aggregator
	BoundVar   string
	Source     RelationRef
	Inner      Operation
}

// ForLoop binds BoundVar to each tuple of Relation, optionally restricted by
// an index-seek condition.
type ForLoop struct {
	BoundVar string
	Relation RelationRef
	OnIndex  Condition // nil when the scan is unrestricted
	Inner    Operation
}

// If guards Inner; when Breaks is set it additionally exits the nearest
// enclosing Loop.
type If struct {
	Cond    Condition
	OnIndex Condition // nil when absent
	Breaks  bool
	Inner   Operation
}

// Unpack destructures a record field into Ident.
type Unpack struct {
	Ident string
	Ref   TupleElement
	Inner Operation
}

// Insert adds a tuple to a relation.
type Insert struct {
	Tuple    []TupleElement
	Relation RelationRef
}

// Erase removes a tuple from a relation.
type Erase struct {
	Tuple    []TupleElement
	Relation RelationRef
}

func (Declare) op() {}
func (ForLoop) op() {}
func (If) op()      {}
func (Unpack) op()  {}
func (Insert) op()  {}
func (Erase) op()   {}

// CompareOp is a comparison operator in a RAM condition.
type CompareOp string

const (
	OpEQ CompareOp = "="
	OpNE CompareOp = "!="
	OpLT CompareOp = "<"
	OpLE CompareOp = "<="
	OpGT CompareOp = ">"
	OpGE CompareOp = ">="
)

// Condition is a RAM condition node.
type Condition interface {
	cond()
}

// Or is a disjunction of conditions.
type Or struct {
	List []Condition
}

// And is a conjunction of conditions.
type And struct {
	List []Condition
}

// Not negates a condition.
type Not struct {
	Cond Condition
}

// In tests tuple membership in a relation.
type In struct {
	Elems    []TupleElement
	Relation RelationRef
}

// Exists tests whether a relation has any tuple, binding BoundVar to it.
type Exists struct {
	BoundVar string
	Relation RelationRef
}

// IsEmpty tests whether a relation is empty.
type IsEmpty struct {
	Relation RelationRef
}

// Compare applies a comparison operator to two tuple elements.
type Compare struct {
	LHS TupleElement
	Op  CompareOp
	RHS TupleElement
}

// BracketedCond preserves explicit parentheses from the input.
type BracketedCond struct {
	Cond Condition
}

func (Or) cond()            {}
func (And) cond()           {}
func (Not) cond()           {}
func (In) cond()            {}
func (Exists) cond()        {}
func (IsEmpty) cond()       {}
func (Compare) cond()       {}
func (BracketedCond) cond() {}

// TupleElement is an expression producing one tuple component.
type TupleElement interface {
	elem()
}

// Literal is a constant tuple element.
type Literal struct {
	Value Value
}

// Ref is a positional reference into the tuple bound to Tuple. The
// environment decides whether Column resolves to a schema attribute or a raw
// record field.
type Ref struct {
	Tuple  string
	Column int
}

// Add is a chain of additions.
type Add struct {
	List []TupleElement
}

// Sub is a chain of subtractions.
type Sub struct {
	List []TupleElement
}

// Undefined is the unconstrained tuple element.
type Undefined struct{}

// Functor names a built-in or user-defined computation.
type Functor struct {
	Name        string
	UserDefined bool
}

// FunctorCall applies a functor to argument elements.
type FunctorCall struct {
	Functor Functor
	Args    []TupleElement
}

// BracketedElem preserves explicit parentheses from the input.
type BracketedElem struct {
	Elem TupleElement
}

// Record is a record/ADT constructor.
type Record struct {
	List []TupleElement
}

func (Literal) elem()       {}
func (Ref) elem()           {}
func (Add) elem()           {}
func (Sub) elem()           {}
func (Undefined) elem()     {}
func (FunctorCall) elem()   {}
func (BracketedElem) elem() {}
func (Record) elem()        {}

// StratumFromName extracts the stratum number embedded in a subroutine name,
// the second underscore-delimited segment. The naming convention comes from
// the compiler; a name that does not follow it is a parse-level failure.
func StratumFromName(name string) (int, error) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("subroutine name %q carries no stratum number", name)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("subroutine name %q: segment %q is not a stratum number", name, parts[1])
	}
	return n, nil
}
