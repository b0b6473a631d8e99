package interp

// Primitive is the capability set every built-in implements (§4.I): a
// formals list (many primitives have none — they interpret their raw
// argument expressions directly), a call that receives unevaluated
// argument expressions and the evaluator (so it may recursively evaluate
// sub-expressions through the stack), an assignment-form call, a
// transparency flag, and display helpers.
type Primitive interface {
	Formals() []Formal
	Call(args []Arg, ev *Evaluator) (Object, *Signal)
	CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal)
	IsTransparent() bool
	Symbol() string
	FmtCall(args []Arg) string
}

// basePrimitive is embedded by concrete primitives to provide the common
// bookkeeping (symbol, transparency, a default CallAssign and FmtCall).
type basePrimitive struct {
	symbol      string
	transparent bool
}

func (b basePrimitive) Formals() []Formal { return nil }
func (b basePrimitive) IsTransparent() bool { return b.transparent }
func (b basePrimitive) Symbol() string      { return b.symbol }
func (b basePrimitive) FmtCall(args []Arg) string {
	s := b.symbol + "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		if a.Name != "" {
			s += a.Name + " = "
		}
		s += FormatExpression(a.Expr)
	}
	return s + ")"
}
func (b basePrimitive) CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal) {
	return nil, NewError(ErrUnimplemented(b.symbol + "<-"))
}

// Registry maps symbol strings to Primitive instances (§4.I). At startup
// the registry is scanned and every primitive is installed into the root
// (builtins) environment's lookup path via Evaluator.Get's registry
// fallback.
type Registry struct {
	byName map[string]Primitive
}

// NewRegistry builds and populates the default builtins registry (all the
// symbols enumerated in §4.I).
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Primitive{}}
	registerControlPrimitives(r)
	registerAssignPrimitives(r)
	registerOperatorPrimitives(r)
	registerLibraryPrimitives(r)
	return r
}

func (r *Registry) register(p Primitive) { r.byName[p.Symbol()] = p }

// Lookup returns the primitive registered under name, if any.
func (r *Registry) Lookup(name string) (Primitive, bool) {
	p, ok := r.byName[name]
	return p, ok
}
