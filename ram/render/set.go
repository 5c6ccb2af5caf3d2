package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// SetNotation renders the plan in set/logic notation: membership, union and
// difference over relations, with generation tags shown as generation
// indices.
type SetNotation struct{}

func (SetNotation) Subroutine(name string) string {
	return name
}

func (SetNotation) Loop() string {
	return "FOR i : ℕ"
}

func (SetNotation) Clear(rel string) string {
	return rel + " = ∅"
}

func (SetNotation) Swap(a, b string) string {
	return fmt.Sprintf("%s, %s = %s, %s", a, b, b, a)
}

func (SetNotation) Exit(cond string) string {
	return "BREAK IF " + cond
}

func (SetNotation) IO(operation, rel, delimiter, filename string) string {
	direction := "Input from "
	if operation == "output" {
		direction = "Output to "
	}
	out := direction + rel + " delim " + strconv.Quote(delimiter)
	if filename != "" {
		out += " fname " + filename
	}
	return out
}

func (SetNotation) Declare(target string, agg ram.Aggregator, boundVar, source string) string {
	return fmt.Sprintf("%s = %s{%s ∈ %s}", target, agg, boundVar, source)
}

func (SetNotation) ForScan(boundVar, rel, onIndex string) string {
	out := boundVar + " ∈ " + rel
	if onIndex != "" {
		out += " ON INDEX " + onIndex
	}
	return out
}

func (SetNotation) Guard(cond, onIndex string) string {
	out := "IF " + cond
	if onIndex != "" {
		out += " USING INDEX " + onIndex
	}
	return out
}

func (n SetNotation) GuardBreak(cond, onIndex, inner string) string {
	return n.Guard(cond, onIndex) + ": " + inner + ", BREAK"
}

func (SetNotation) Break() string {
	return "BREAK"
}

func (SetNotation) Unpack(ident, ref string) string {
	return ident + " = " + ref
}

func (SetNotation) Insert(tuple, rel string) string {
	return fmt.Sprintf("%s = %s ∪ {%s}", rel, rel, tuple)
}

func (SetNotation) Erase(tuple, rel string) string {
	return fmt.Sprintf("%s = %s ∖ {%s}", rel, rel, tuple)
}

// Relation spells generation tags as generation indices: R[t] is the delta
// of the current iteration, R[t+1] the one being built.
func (SetNotation) Relation(ref ram.RelationRef) string {
	switch ref.Tag {
	case ram.TagCurrent:
		return ref.Name + "[t]"
	case ram.TagNext:
		return ref.Name + "[t+1]"
	case ram.TagDelete:
		return ref.Name + "[del]"
	case ram.TagReject:
		return ref.Name + "[rej]"
	default:
		return ref.Name
	}
}

func (SetNotation) CommentBlock(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "-- " + line
	}
	return out
}

func (SetNotation) Or(parts []string) string {
	return strings.Join(parts, " ∨ ")
}

func (SetNotation) And(parts []string) string {
	return strings.Join(parts, " ∧ ")
}

func (SetNotation) Not(inner string) string {
	return "¬" + inner
}

func (SetNotation) In(tuple, rel string) string {
	return tuple + " ∈ " + rel
}

func (SetNotation) Exists(boundVar, rel string) string {
	return fmt.Sprintf("∃%s ∈ %s", boundVar, rel)
}

func (SetNotation) IsEmpty(rel string) string {
	return rel + " = ∅"
}

func (SetNotation) Compare(lhs string, op ram.CompareOp, rhs string) string {
	spelled := string(op)
	switch op {
	case ram.OpNE:
		spelled = "≠"
	case ram.OpLE:
		spelled = "≤"
	case ram.OpGE:
		spelled = "≥"
	}
	return lhs + " " + spelled + " " + rhs
}

func (SetNotation) Bracket(inner string) string {
	return "(" + inner + ")"
}

func (SetNotation) Ref(tuple, attr string) string {
	return tuple + "." + attr
}

func (SetNotation) RecordField(tuple string, column int) string {
	return fmt.Sprintf("%s._%d", tuple, column)
}

func (SetNotation) Undefined() string {
	return "⊥"
}

func (SetNotation) Add(parts []string) string {
	return strings.Join(parts, " + ")
}

func (SetNotation) Sub(parts []string) string {
	return strings.Join(parts, " - ")
}

func (SetNotation) Functor(f ram.Functor, args []string) string {
	name := f.Name
	if f.UserDefined {
		name = "@" + name
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func (SetNotation) Tuple(parts []string) string {
	return "(" + strings.Join(parts, ", ") + ")"
}

func (SetNotation) RecordElem(parts []string) string {
	return "[" + strings.Join(parts, ", ") + "]"
}

func (SetNotation) Literal(v ram.Value) string {
	return v.String()
}
