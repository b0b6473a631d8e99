package interp

// Function is a user-defined function: a formal parameter list, a body
// expression, and the environment captured at definition time (§3.8,
// P9/P10). An ellipsis formal collects unmatched arguments into a list.
type Function struct {
	Formals []Formal
	Body    *Expression
	Env     *Environment

	// Builtin is non-nil for a synthetic function wrapping a Primitive
	// (§4.H's "synthetic Function(empty formals, Primitive(builtin), env)").
	Builtin Primitive
}

// NewFunction builds a user-defined function closing over env.
func NewFunction(formals []Formal, body *Expression, env *Environment) *Function {
	return &Function{Formals: formals, Body: body, Env: env}
}

// NewBuiltinFunction wraps a primitive as a callable Function value, as
// produced by stack symbol resolution when a name is found only in the
// builtins registry (§4.H).
func NewBuiltinFunction(p Primitive, env *Environment) *Function {
	return &Function{Env: env, Builtin: p}
}

func (f *Function) Kind() ObjKind { return KindFunction }

func (f *Function) String() string { return FormatFunction(f) }

// EllipsisFormal returns the index of the `...` formal, or -1 if absent.
func (f *Function) EllipsisFormal() int {
	for i, formal := range f.Formals {
		if formal.Ellipsis {
			return i
		}
	}
	return -1
}
