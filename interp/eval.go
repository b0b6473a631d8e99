package interp

// Evaluator is the call-stack-driven tree walker (§4.H). It owns the
// frame stack, the builtins registry, and the session it was created for
// (rng seed, output streams — see session.go).
type Evaluator struct {
	Stack    *Stack
	Registry *Registry
	Session  *Session
}

// NewEvaluator builds an evaluator with a fresh global frame over global,
// wired to reg and sess.
func NewEvaluator(global *Environment, reg *Registry, sess *Session) *Evaluator {
	return &Evaluator{Stack: NewStack(global), Registry: reg, Session: sess}
}

// Eval evaluates expr in the evaluator's current environment.
func (ev *Evaluator) Eval(expr *Expression) (Object, *Signal) {
	return ev.evalExpr(expr, ev.Stack.CurrentEnv())
}

// evalExpr evaluates expr in env, temporarily switching the stack's
// current frame to env-if-different. It is the function handed to
// Promise.Force (§3.7) and to the `eval()` builtin.
func (ev *Evaluator) evalExpr(expr *Expression, env *Environment) (Object, *Signal) {
	if env != ev.Stack.CurrentEnv() {
		ev.Stack.Push(nil, env)
		result, sig := ev.dispatch(expr)
		ev.Stack.PopAfter(sig)
		return result, sig
	}
	return ev.dispatch(expr)
}

// dispatch implements the expression-variant switch of §4.H.
func (ev *Evaluator) dispatch(expr *Expression) (Object, *Signal) {
	switch expr.Kind {
	case ExprNull:
		return Null{}, nil
	case ExprNA:
		return NewVector(ModeLogical, []Scalar{NALogical}), nil
	case ExprInf:
		return NewVector(ModeDouble, []Scalar{Double(infinity())}), nil
	case ExprMissing:
		return nil, NewError(ErrArgumentMissing(""))
	case ExprBreak:
		return nil, NewCondition(CondBreak, nil)
	case ExprContinue:
		return nil, NewCondition(CondContinue, nil)
	case ExprBool:
		l := False
		if expr.Bool {
			l = True
		}
		return NewVector(ModeLogical, []Scalar{l}), nil
	case ExprNumber:
		return NewVector(ModeDouble, []Scalar{Double(expr.Number)}), nil
	case ExprInteger:
		return NewVector(ModeInteger, []Scalar{Integer(expr.Integer)}), nil
	case ExprString:
		return NewVector(ModeCharacter, []Scalar{NewCharacter(expr.Str)}), nil
	case ExprSymbol:
		return ev.Get(expr.Symbol)
	case ExprList:
		return ev.evalListLazyAsValue(expr)
	case ExprFunctionLit:
		return NewFunction(expr.Formals, expr.Body, ev.Stack.CurrentEnv()), nil
	case ExprCall:
		return ev.evalCall(expr)
	case ExprPrimitive:
		return expr.Primitive.Call(nil, ev)
	case ExprEllipsis:
		val, ok := ev.Stack.CurrentEnv().Get(ellipsisBinding(expr.EllipsisName))
		if !ok {
			return nil, NewError(ErrVariableNotFound("..."))
		}
		return val, nil
	}
	return nil, NewError(ErrInternal("unknown expression kind", "eval.go", 0))
}

func infinity() float64 { return 1.0 / zero() }
func zero() float64     { return 0 }

// ellipsisBinding is the internal environment key used to store the `...`
// list, keyed by name to support (rare) named ellipsis captures.
func ellipsisBinding(name string) string {
	if name == "" {
		return "..."
	}
	return "..." + name
}

// evalListLazyAsValue evaluates an ExprList node as a value-producing
// expression: each element is evaluated eagerly in source order, in the
// same left-to-right ordering used for argument lists, and the last
// value is returned (this is how an ExprList built by Block produces a
// result; the transparent `{` primitive in builtins_control.go runs its
// own loop over its call arguments).
func (ev *Evaluator) evalListLazyAsValue(expr *Expression) (Object, *Signal) {
	var last Object = Null{}
	for _, a := range expr.Args {
		val, sig := ev.Eval(a.Expr)
		if sig != nil {
			return nil, sig
		}
		last = val
	}
	return last, nil
}

// evalCall implements §4.H's Call(what, args) dispatch.
func (ev *Evaluator) evalCall(expr *Expression) (Object, *Signal) {
	callee := expr.Callee

	if callee.Kind == ExprPrimitive {
		return ev.callPrimitive(callee.Primitive, expr, ev.Stack.CurrentEnv())
	}

	if callee.Kind == ExprSymbol || callee.Kind == ExprString {
		name := callee.Symbol
		if callee.Kind == ExprString {
			name = callee.Str
		}
		if p, ok := ev.Registry.Lookup(name); ok {
			return ev.callPrimitive(p, expr, ev.Stack.CurrentEnv())
		}
		callee_, sig := ev.Get(name)
		if sig != nil {
			return nil, sig
		}
		return ev.callObject(callee_, expr)
	}

	callee_, sig := ev.Eval(callee)
	if sig != nil {
		return nil, sig
	}
	return ev.callObject(callee_, expr)
}

// callPrimitive dispatches to a looked-up primitive. Transparent
// primitives (the block form, and a few operator wrappers) do not push
// their own frame so that return/error signals unwind correctly to the
// enclosing function (§4.H "Transparent primitives").
func (ev *Evaluator) callPrimitive(p Primitive, expr *Expression, env *Environment) (Object, *Signal) {
	if p.IsTransparent() {
		return p.Call(expr.Args, ev)
	}
	ev.Stack.Push(expr, env)
	result, sig := p.Call(expr.Args, ev)
	ev.Stack.PopAfter(sig)
	return result, sig
}

// callObject calls a resolved callable (a user Function, or a builtin
// wrapped as one by symbol resolution).
func (ev *Evaluator) callObject(callee Object, expr *Expression) (Object, *Signal) {
	fn, ok := callee.(*Function)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("attempt to apply non-function"))
	}
	if fn.Builtin != nil {
		return ev.callPrimitive(fn.Builtin, expr, ev.Stack.CurrentEnv())
	}
	return ev.callFunction(fn, expr)
}

// callFunction implements argument matching (§4.H), pushes a new frame
// with a child environment parented on the function's capture
// environment, evaluates the body, and catches a Return condition.
func (ev *Evaluator) callFunction(fn *Function, expr *Expression) (Object, *Signal) {
	callEnv := ev.Stack.CurrentEnv()
	fnEnv := NewEnvironment(fn.Env)

	if sig := ev.matchArgs(fn, expr.Args, callEnv, fnEnv); sig != nil {
		return nil, sig
	}

	ev.Stack.Push(expr, fnEnv)
	result, sig := ev.dispatch(fn.Body)
	if sig != nil && sig.Kind == SignalCondition && sig.Condition == CondReturn {
		ev.Stack.PopAfter(nil)
		return sig.ReturnVal, nil
	}
	ev.Stack.PopAfter(sig)
	return result, sig
}

// matchArgs implements §4.H's five-step argument matching algorithm.
func (ev *Evaluator) matchArgs(fn *Function, actual []Arg, callEnv, fnEnv *Environment) *Signal {
	formals := fn.Formals
	used := make([]bool, len(actual))
	boundFormal := make([]bool, len(formals))

	ellipsisAt := fn.EllipsisFormal()

	// Step 1: named matching.
	for ai, a := range actual {
		if a.Name == "" {
			continue
		}
		for fi, f := range formals {
			if f.Ellipsis || boundFormal[fi] {
				continue
			}
			if f.Name == a.Name {
				fnEnv.Insert(f.Name, wrapArg(a, callEnv))
				used[ai] = true
				boundFormal[fi] = true
				break
			}
		}
	}

	// Step 2+3: positional matching, skipping formals after `...` and
	// any formal already bound by name.
	positionalLimit := len(formals)
	if ellipsisAt >= 0 {
		positionalLimit = ellipsisAt
	}
	ai := 0
	for fi := 0; fi < positionalLimit; fi++ {
		if boundFormal[fi] {
			continue
		}
		for ai < len(actual) && (used[ai] || actual[ai].Name != "") {
			ai++
		}
		if ai >= len(actual) {
			break
		}
		fnEnv.Insert(formals[fi].Name, wrapArg(actual[ai], callEnv))
		used[ai] = true
		boundFormal[fi] = true
		ai++
	}

	// Step 4: ellipsis collection.
	if ellipsisAt >= 0 {
		var elems []Object
		var names []Character
		for i, a := range actual {
			if used[i] {
				continue
			}
			elems = append(elems, wrapArg(a, callEnv))
			if a.Name != "" {
				names = append(names, NewCharacter(a.Name))
			} else {
				names = append(names, NACharacter)
			}
			used[i] = true
		}
		fnEnv.Insert(ellipsisBinding(""), NewList(elems, names))
	}

	// Step 5: defaults, bound as promises over the default expression in
	// the function's own (capture) environment so defaults may refer to
	// other parameters (P8).
	for fi, f := range formals {
		if f.Ellipsis || boundFormal[fi] {
			continue
		}
		def := f.Default
		if def == nil {
			def = MissingExpr
		}
		fnEnv.Insert(f.Name, NewPromise(def, fnEnv))
	}

	return nil
}

// wrapArg implements "eval_list_lazy": every argument expression,
// literals included, becomes a promise against callEnv, so nothing is
// evaluated until the callee forces it. A bare `...` argument is not
// spliced here: it becomes a single promise whose value is the caller's
// whole `...` list. Splicing of `...` happens only in EvalArgsEager.
func wrapArg(a Arg, callEnv *Environment) Object {
	switch a.Expr.Kind {
	case ExprCall, ExprSymbol:
		return NewPromise(a.Expr, callEnv)
	default:
		return NewPromise(a.Expr, callEnv) // still lazy: defaults may reference it unforced
	}
}

// EvalArgsEager evaluates a raw argument-expression list eagerly in the
// current environment, expanding any bare `...` argument by splicing in
// the caller's own ellipsis list. This is the helper most library
// primitives (c, list, paste, sum, ...) use to get concrete Objects.
func (ev *Evaluator) EvalArgsEager(args []Arg) ([]Arg, []Object, *Signal) {
	var outArgs []Arg
	var outVals []Object
	for _, a := range args {
		if a.Expr.Kind == ExprEllipsis {
			val, ok := ev.Stack.CurrentEnv().Get(ellipsisBinding(a.Expr.EllipsisName))
			if !ok {
				continue
			}
			list, ok := val.(*List)
			if !ok {
				continue
			}
			mat := list.Materialize()
			names := mat.Names()
			vals := mat.data.Borrow()
			for i, v := range vals {
				forced, sig := forceIfPromise(v, ev)
				if sig != nil {
					return nil, nil, sig
				}
				nm := ""
				if i < len(names) && !names[i].IsNA() {
					nm = names[i].Value
				}
				outArgs = append(outArgs, Arg{Name: nm, Expr: a.Expr})
				outVals = append(outVals, forced)
			}
			continue
		}
		val, sig := ev.Eval(a.Expr)
		if sig != nil {
			return nil, nil, sig
		}
		outArgs = append(outArgs, a)
		outVals = append(outVals, val)
	}
	return outArgs, outVals, nil
}

func forceIfPromise(o Object, ev *Evaluator) (Object, *Signal) {
	if p, ok := o.(*Promise); ok {
		return p.Force(ev.evalExpr)
	}
	return o, nil
}
