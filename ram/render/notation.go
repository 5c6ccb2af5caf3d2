package render

import "github.com/ramlens/ramlens/ram"

// Notation supplies every token of an output dialect. The traversal in
// Renderer decides structure, ordering and scoping; a Notation only decides
// spelling.
type Notation interface {
	// Statement-level lines.
	Subroutine(name string) string
	Loop() string
	Clear(rel string) string
	Swap(a, b string) string
	Exit(cond string) string
	IO(operation, rel, delimiter, filename string) string

	// Operation-level lines.
	Declare(target string, agg ram.Aggregator, boundVar, source string) string
	ForScan(boundVar, rel, onIndex string) string
	Guard(cond, onIndex string) string
	GuardBreak(cond, onIndex, inner string) string
	Break() string
	Unpack(ident, ref string) string
	Insert(tuple, rel string) string
	Erase(tuple, rel string) string

	// Names and commentary.
	Relation(ref ram.RelationRef) string
	CommentBlock(text string) []string

	// Conditions.
	Or(parts []string) string
	And(parts []string) string
	Not(inner string) string
	In(tuple, rel string) string
	Exists(boundVar, rel string) string
	IsEmpty(rel string) string
	Compare(lhs string, op ram.CompareOp, rhs string) string
	Bracket(inner string) string

	// Tuple elements.
	Ref(tuple, attr string) string
	RecordField(tuple string, column int) string
	Undefined() string
	Add(parts []string) string
	Sub(parts []string) string
	Functor(f ram.Functor, args []string) string
	Tuple(parts []string) string
	RecordElem(parts []string) string
	Literal(v ram.Value) string
}
