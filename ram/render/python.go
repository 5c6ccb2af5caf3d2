package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// PythonNotation renders the plan as a non-functional Python-like program.
// The point is syntax highlighting and editor affordances when eyeballing a
// compiled plan, not executability.
type PythonNotation struct{}

func (PythonNotation) Subroutine(name string) string {
	return "def " + name + "():"
}

func (PythonNotation) Loop() string {
	return "while True:"
}

func (PythonNotation) Clear(rel string) string {
	return rel + " = set()"
}

func (PythonNotation) Swap(a, b string) string {
	return fmt.Sprintf("swap(%s, %s)", a, b)
}

func (PythonNotation) Exit(cond string) string {
	return "if " + cond + ": break"
}

func (PythonNotation) IO(operation, rel, delimiter, filename string) string {
	out := fmt.Sprintf("%s(%s, delim=%s", operation, rel, strconv.Quote(delimiter))
	if filename != "" {
		out += ", filename=" + strconv.Quote(filename)
	}
	return out + ")"
}

func (PythonNotation) Declare(target string, agg ram.Aggregator, boundVar, source string) string {
	return fmt.Sprintf("%s = %s(%s for %s in %s)", target, agg, boundVar, boundVar, source)
}

func (PythonNotation) ForScan(boundVar, rel, onIndex string) string {
	if onIndex != "" {
		rel = fmt.Sprintf("index_scan(%s, lambda %s: %s)", rel, boundVar, onIndex)
	}
	return fmt.Sprintf("for %s in %s:", boundVar, rel)
}

func (PythonNotation) Guard(cond, onIndex string) string {
	if onIndex != "" {
		cond += fmt.Sprintf(" and index_cond(lambda: %s)", onIndex)
	}
	return "if " + cond + ":"
}

func (n PythonNotation) GuardBreak(cond, onIndex, inner string) string {
	return n.Guard(cond, onIndex) + " " + inner + "; break"
}

func (PythonNotation) Break() string {
	return "break"
}

func (PythonNotation) Unpack(ident, ref string) string {
	return ident + " = " + ref
}

func (PythonNotation) Insert(tuple, rel string) string {
	return rel + ".add(" + tuple + ")"
}

func (PythonNotation) Erase(tuple, rel string) string {
	return rel + ".remove(" + tuple + ")"
}

// Relation spells generation tags as name prefixes, the way the compiler's
// own debug output mangles them.
func (PythonNotation) Relation(ref ram.RelationRef) string {
	switch ref.Tag {
	case ram.TagCurrent:
		return "__delta_" + ref.Name
	case ram.TagNext:
		return "__new_" + ref.Name
	case ram.TagDelete:
		return "__delete_" + ref.Name
	case ram.TagReject:
		return "__reject_" + ref.Name
	default:
		return ref.Name
	}
}

func (PythonNotation) CommentBlock(text string) []string {
	lines := []string{`"""`}
	lines = append(lines, strings.Split(text, "\n")...)
	return append(lines, `"""`)
}

func (PythonNotation) Or(parts []string) string {
	return strings.Join(parts, " or ")
}

func (PythonNotation) And(parts []string) string {
	return strings.Join(parts, " and ")
}

func (PythonNotation) Not(inner string) string {
	return "not " + inner
}

func (PythonNotation) In(tuple, rel string) string {
	return tuple + " in " + rel
}

func (PythonNotation) Exists(boundVar, rel string) string {
	return fmt.Sprintf("exists(%s in %s)", boundVar, rel)
}

func (PythonNotation) IsEmpty(rel string) string {
	return rel + " == set()"
}

func (PythonNotation) Compare(lhs string, op ram.CompareOp, rhs string) string {
	spelled := string(op)
	if op == ram.OpEQ {
		spelled = "=="
	}
	return lhs + " " + spelled + " " + rhs
}

func (PythonNotation) Bracket(inner string) string {
	return "(" + inner + ")"
}

func (PythonNotation) Ref(tuple, attr string) string {
	return tuple + "." + attr
}

func (PythonNotation) RecordField(tuple string, column int) string {
	return fmt.Sprintf("%s._%d", tuple, column)
}

func (PythonNotation) Undefined() string {
	return "_"
}

func (PythonNotation) Add(parts []string) string {
	return strings.Join(parts, " + ")
}

func (PythonNotation) Sub(parts []string) string {
	return strings.Join(parts, " - ")
}

func (PythonNotation) Functor(f ram.Functor, args []string) string {
	name := f.Name
	if f.UserDefined {
		name = "__functor_" + name
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func (PythonNotation) Tuple(parts []string) string {
	return "(" + strings.Join(parts, ", ") + ")"
}

func (PythonNotation) RecordElem(parts []string) string {
	return "[" + strings.Join(parts, ", ") + "]"
}

func (PythonNotation) Literal(v ram.Value) string {
	return v.String()
}
