package ram

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags a literal value embedded in the RAM text (debug payloads,
// IO option values).
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueString
	ValueArray
	ValueMap
)

// MapEntry is one key/value pair of a mapping literal, in source order.
type MapEntry struct {
	Key string
	Val Value
}

// Value is a parsed literal: string, number, bool, null, array or mapping.
// The zero value is null.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Items   []Value
	Entries []MapEntry
}

// String renders the value back in literal syntax.
func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueArray:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValueMap:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = strconv.Quote(e.Key) + ": " + e.Val.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("value(%d)", int(v.Kind))
	}
}

// Text returns the bare string content of a string value, or the literal
// syntax for anything else. Debug commentary and IO options use this.
func (v Value) Text() string {
	if v.Kind == ValueString {
		return v.Str
	}
	return v.String()
}

// StringVal builds a string value.
func StringVal(s string) Value { return Value{Kind: ValueString, Str: s} }

// IntVal builds an integer value.
func IntVal(n int64) Value { return Value{Kind: ValueInt, Int: n} }
