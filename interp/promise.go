package interp

// Promise pairs an unevaluated expression with the environment in which it
// must be evaluated, plus a memoized result (§3.7). It is created when
// arguments are matched to formals; forcing evaluates the expression at
// most once (D-5).
type Promise struct {
	expr    *Expression
	env     *Environment
	forced  bool
	value   Object
	failed  bool
	failure *Signal
}

// NewPromise wraps expr/env into an unforced promise.
func NewPromise(expr *Expression, env *Environment) *Promise {
	return &Promise{expr: expr, env: env}
}

// IsMissing reports whether this promise wraps the Missing sentinel
// (§3.7): an unbound required formal.
func (p *Promise) IsMissing() bool { return p.expr == MissingExpr }

// Force evaluates the promise's expression in its captured environment on
// first access, memoizing the result (D-5). eval is supplied by the
// evaluator (frame.go) to avoid an import cycle between promise creation
// and evaluation.
func (p *Promise) Force(eval func(expr *Expression, env *Environment) (Object, *Signal)) (Object, *Signal) {
	if p.forced {
		return p.value, nil
	}
	if p.failed {
		return nil, p.failure
	}
	if p.IsMissing() {
		sig := NewError(ErrArgumentMissing(""))
		p.failed = true
		p.failure = sig
		return nil, sig
	}
	val, sig := eval(p.expr, p.env)
	if sig != nil {
		p.failed = true
		p.failure = sig
		return nil, sig
	}
	p.forced = true
	p.value = cloneObjectForBinding(val)
	return p.value, nil
}

func (p *Promise) Kind() ObjKind { return KindPromise }
func (p *Promise) String() string {
	if p.forced {
		return p.value.String()
	}
	return "<promise>"
}
