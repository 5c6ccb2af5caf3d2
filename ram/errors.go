package ram

import "fmt"

// UnresolvedRelationError reports a pass referencing a relation absent from
// the schema catalog.
type UnresolvedRelationError struct {
	Relation string
}

func (e *UnresolvedRelationError) Error() string {
	return fmt.Sprintf("relation %s is not in the schema catalog", e.Relation)
}

// UnrecognizedIOOperationError reports an IO statement whose operation option
// is neither input nor output.
type UnrecognizedIOOperationError struct {
	Operation string
}

func (e *UnrecognizedIOOperationError) Error() string {
	return fmt.Sprintf("unrecognized IO operation %q", e.Operation)
}
