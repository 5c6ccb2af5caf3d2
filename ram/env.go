package ram

// Env is the bound-tuple environment: a scope stack mapping live tuple
// variable names to relation schemas. One Env belongs to exactly one
// traversal; passes push on entering a binding construct and pop on leaving
// it, on every exit path.
//
// Shadowing works by stacking: a later binding for the same name hides the
// earlier one until popped. Variables introduced by a record destructure
// carry no schema; they still shadow, and Lookup reports them as unbound so
// column references resolve as raw record fields.
type Env struct {
	frames []envFrame
}

type envFrame struct {
	name   string
	rel    Relation
	schema bool
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{}
}

// Push binds name to a relation schema for the duration of a scope.
func (e *Env) Push(name string, rel Relation) {
	e.frames = append(e.frames, envFrame{name: name, rel: rel, schema: true})
}

// PushRecord binds name without a schema, as a record destructure does.
func (e *Env) PushRecord(name string) {
	e.frames = append(e.frames, envFrame{name: name})
}

// Pop removes the most recent binding of name.
func (e *Env) Pop(name string) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].name == name {
			e.frames = append(e.frames[:i], e.frames[i+1:]...)
			return
		}
	}
}

// Bind pushes a schema binding and returns the matching pop, for use with
// defer so the scope is restored on every exit path.
func (e *Env) Bind(name string, rel Relation) func() {
	e.Push(name, rel)
	return func() { e.Pop(name) }
}

// BindRecord pushes a schema-less binding and returns the matching pop.
func (e *Env) BindRecord(name string) func() {
	e.PushRecord(name)
	return func() { e.Pop(name) }
}

// Lookup resolves name against the innermost binding. It reports false when
// name is unbound or bound without a schema.
func (e *Env) Lookup(name string) (Relation, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].name == name {
			return e.frames[i].rel, e.frames[i].schema
		}
	}
	return Relation{}, false
}

// Depth reports the number of live bindings.
func (e *Env) Depth() int {
	return len(e.frames)
}
