package interp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// registerLibraryPrimitives installs the library-style builtins
// enumerated in §4.I: c, list, paste, length, names, environment,
// parent, eval, quote, substitute, print, all, sum, is_na, is_null,
// type, rnorm, runif, callstack, ls, q.
func registerLibraryPrimitives(r *Registry) {
	r.register(cPrimitive{basePrimitive{symbol: "c"}})
	r.register(listPrimitive{basePrimitive{symbol: "list"}})
	r.register(pastePrimitive{basePrimitive{symbol: "paste"}})
	r.register(lengthPrimitive{basePrimitive{symbol: "length"}})
	r.register(namesPrimitive{basePrimitive{symbol: "names"}})
	r.register(environmentPrimitive{basePrimitive{symbol: "environment"}})
	r.register(parentPrimitive{basePrimitive{symbol: "parent"}})
	r.register(evalPrimitive{basePrimitive{symbol: "eval"}})
	r.register(quotePrimitive{basePrimitive{symbol: "quote"}})
	r.register(substitutePrimitive{basePrimitive{symbol: "substitute"}})
	r.register(printPrimitive{basePrimitive{symbol: "print"}})
	r.register(allPrimitive{basePrimitive{symbol: "all"}})
	r.register(sumPrimitive{basePrimitive{symbol: "sum"}})
	r.register(isNaPrimitive{basePrimitive{symbol: "is_na"}})
	r.register(isNullPrimitive{basePrimitive{symbol: "is_null"}})
	r.register(typePrimitive{basePrimitive{symbol: "type"}})
	r.register(rnormPrimitive{basePrimitive{symbol: "rnorm"}})
	r.register(runifPrimitive{basePrimitive{symbol: "runif"}})
	r.register(callstackPrimitive{basePrimitive{symbol: "callstack"}})
	r.register(lsPrimitive{basePrimitive{symbol: "ls"}})
	r.register(qPrimitive{basePrimitive{symbol: "q"}})
}

// cPrimitive implements `c(...)`: concatenates its arguments into a
// single atomic vector (widening to the highest mode present) unless
// any argument is non-atomic, in which case the result is a list
// (§4.A, §4.D).
type cPrimitive struct{ basePrimitive }

func (p cPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	outArgs, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	asList := false
	for _, v := range vals {
		switch v.(type) {
		case *Vector, Null:
		default:
			asList = true
		}
	}
	if asList {
		return cAsList(outArgs, vals), nil
	}
	return cAsVector(outArgs, vals), nil
}

func argElementName(name string, idx, n int) Character {
	if name == "" {
		return NACharacter
	}
	if n == 1 {
		return NewCharacter(name)
	}
	return NewCharacter(fmt.Sprintf("%s%d", name, idx+1))
}

func cAsVector(argList []Arg, vals []Object) Object {
	mode := ModeLogical
	any := false
	for _, v := range vals {
		vv, ok := v.(*Vector)
		if !ok || vv.Len() == 0 {
			continue
		}
		any = true
		if vv.Mode > mode {
			mode = vv.Mode
		}
	}
	if !any {
		return Null{}
	}
	var outVals []Scalar
	var outNames []Character
	named := false
	for i, v := range vals {
		vv, ok := v.(*Vector)
		if !ok {
			continue
		}
		conv := vv.AsMode(mode)
		elemVals := conv.IterValues()
		elemNames := vv.IterNames()
		for j, s := range elemVals {
			outVals = append(outVals, s)
			nm := NACharacter
			if elemNames != nil && j < len(elemNames) && !elemNames[j].IsNA() {
				nm = elemNames[j]
				named = true
			} else if argList[i].Name != "" {
				nm = argElementName(argList[i].Name, j, len(elemVals))
				named = true
			}
			outNames = append(outNames, nm)
		}
	}
	result := NewVector(mode, outVals)
	if named {
		_ = result.SetNames(outNames)
	}
	return result
}

func cAsList(argList []Arg, vals []Object) Object {
	var outObjs []Object
	var outNames []Character
	named := false
	for i, v := range vals {
		switch t := v.(type) {
		case Null:
			continue
		case *List:
			mat := t.Materialize()
			names := mat.Names()
			backing := mat.data.Borrow()
			for j, o := range backing {
				outObjs = append(outObjs, o)
				nm := NACharacter
				if names != nil && j < len(names) && !names[j].IsNA() {
					nm = names[j]
					named = true
				}
				outNames = append(outNames, nm)
			}
		case *Vector:
			elemVals := t.IterValues()
			elemNames := t.IterNames()
			for j, s := range elemVals {
				outObjs = append(outObjs, NewVector(t.Mode, []Scalar{s}))
				nm := NACharacter
				if elemNames != nil && j < len(elemNames) && !elemNames[j].IsNA() {
					nm = elemNames[j]
					named = true
				} else if argList[i].Name != "" {
					nm = argElementName(argList[i].Name, j, len(elemVals))
					named = true
				}
				outNames = append(outNames, nm)
			}
		default:
			outObjs = append(outObjs, v)
			nm := NACharacter
			if argList[i].Name != "" {
				nm = NewCharacter(argList[i].Name)
				named = true
			}
			outNames = append(outNames, nm)
		}
	}
	result := NewList(outObjs, nil)
	if named {
		_ = result.SetNames(outNames)
	}
	return result
}

// listPrimitive implements `list(...)`: each argument becomes one
// element, named if the call supplied a name (no flattening).
type listPrimitive struct{ basePrimitive }

func (p listPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	names := make([]Character, len(args))
	named := false
	for i, a := range args {
		if a.Name != "" {
			names[i] = NewCharacter(a.Name)
			named = true
		} else {
			names[i] = NACharacter
		}
	}
	result := NewList(vals, nil)
	if named {
		_ = result.SetNames(names)
	}
	return result, nil
}

// pastePrimitive implements `paste(..., sep=" ")`: character arguments
// are recycled cyclically to the longest argument's length (SUPPLEMENT,
// D-2's documented exception to strict recycling).
type pastePrimitive struct{ basePrimitive }

func (p pastePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	sep := " "
	var vectors []*Vector
	for i, a := range args {
		if a.Name == "sep" {
			if v, ok := vals[i].(*Vector); ok && v.Len() > 0 {
				sep = v.AsCharacter().IterValues()[0].(Character).Value
			}
			continue
		}
		if v, ok := vals[i].(*Vector); ok {
			vectors = append(vectors, v.AsCharacter())
		}
	}
	if len(vectors) == 0 {
		return NewVector(ModeCharacter, []Scalar{NewCharacter("")}), nil
	}
	maxLen := 0
	for _, v := range vectors {
		if v.Len() > maxLen {
			maxLen = v.Len()
		}
	}
	out := make([]Scalar, maxLen)
	for i := 0; i < maxLen; i++ {
		parts := make([]string, len(vectors))
		for j, v := range vectors {
			elems := v.IterValues()
			c := elems[i%len(elems)].(Character)
			if c.IsNA() {
				parts[j] = "NA"
			} else {
				parts[j] = c.Value
			}
		}
		out[i] = NewCharacter(strings.Join(parts, sep))
	}
	return NewVector(ModeCharacter, out), nil
}

// lengthPrimitive implements `length(x)`.
type lengthPrimitive struct{ basePrimitive }

func (p lengthPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	n := 1
	switch t := val.(type) {
	case *Vector:
		n = t.Len()
	case *List:
		n = t.Len()
	case Null:
		n = 0
	}
	return NewVector(ModeInteger, []Scalar{Integer(n)}), nil
}

// namesPrimitive implements `names(x)` and `names(x) <- value`.
type namesPrimitive struct{ basePrimitive }

func (p namesPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	target, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	var names []Character
	switch t := target.(type) {
	case *Vector:
		names = t.Names()
	case *List:
		names = t.Names()
	default:
		return Null{}, nil
	}
	if names == nil {
		return Null{}, nil
	}
	scalars := make([]Scalar, len(names))
	for i, n := range names {
		scalars[i] = n
	}
	return NewVector(ModeCharacter, scalars), nil
}

func charactersOf(v *Vector) []Character {
	conv := v.AsCharacter().IterValues()
	out := make([]Character, len(conv))
	for i, s := range conv {
		out[i] = s.(Character)
	}
	return out
}

func (p namesPrimitive) CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	targetObj, sig := resolveAssignTarget(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	val, sig := ev.Eval(value)
	if sig != nil {
		return nil, sig
	}
	if _, isNull := val.(Null); isNull {
		switch t := targetObj.(type) {
		case *Vector:
			t.naming = nil
		case *List:
			t.naming = nil
		}
		rebindIfSymbol(args[0].Expr, targetObj, ev)
		return targetObj, nil
	}
	namesVec, ok := val.(*Vector)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("names must be a character vector"))
	}
	chars := charactersOf(namesVec)
	switch t := targetObj.(type) {
	case *Vector:
		// SUPPLEMENT: names<- on a zero-length vector initializes fresh
		// backing storage rather than erroring.
		if t.backingLen() == 0 && len(chars) > 0 {
			vals := make([]Scalar, len(chars))
			for i := range vals {
				vals[i] = naOf(t.Mode)
			}
			t.data = NewCow(vals, cloneScalars)
		}
		if e := t.SetNames(chars); e != nil {
			return nil, NewError(ErrArgumentInvalid(e.Error()))
		}
	case *List:
		if t.backingLen() == 0 && len(chars) > 0 {
			objs := make([]Object, len(chars))
			for i := range objs {
				objs[i] = Null{}
			}
			t.data = NewCow(objs, cloneObjects)
		}
		if e := t.SetNames(chars); e != nil {
			return nil, NewError(ErrArgumentInvalid(e.Error()))
		}
	default:
		return nil, NewError(ErrArgumentInvalid("names<- is invalid for this object"))
	}
	rebindIfSymbol(args[0].Expr, targetObj, ev)
	return targetObj, nil
}

// environmentPrimitive implements `environment()` / `environment(fn)`.
// With no argument it returns the caller's environment: since
// primitives never push a fresh child environment of their own (only
// user function calls do), the evaluator's current environment at the
// point of the call already *is* the caller's frame (SUPPLEMENT).
type environmentPrimitive struct{ basePrimitive }

func (p environmentPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) == 0 {
		return ev.Stack.CurrentEnv(), nil
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	fn, ok := val.(*Function)
	if !ok {
		return Null{}, nil
	}
	return fn.Env, nil
}

// parentPrimitive implements `parent(env?)`.
type parentPrimitive struct{ basePrimitive }

func (p parentPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	env := ev.Stack.CurrentEnv()
	if len(args) > 0 {
		val, sig := ev.Eval(args[0].Expr)
		if sig != nil {
			return nil, sig
		}
		e, ok := val.(*Environment)
		if !ok {
			return nil, NewError(ErrArgumentInvalid("parent() requires an environment"))
		}
		env = e
	}
	if env.Parent() == nil {
		return Null{}, nil
	}
	return env.Parent(), nil
}

// evalPrimitive implements `eval(expr, env?)`.
type evalPrimitive struct{ basePrimitive }

func (p evalPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("expr"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	expr, ok := val.(*Expression)
	if !ok {
		return val, nil
	}
	env := ev.Stack.CurrentEnv()
	if len(args) > 1 {
		envVal, sig := ev.Eval(args[1].Expr)
		if sig != nil {
			return nil, sig
		}
		if e, ok := envVal.(*Environment); ok {
			env = e
		}
	}
	return ev.evalExpr(expr, env)
}

// quotePrimitive implements `quote(expr)`: returns its argument
// unevaluated as an Expression value.
type quotePrimitive struct{ basePrimitive }

func (p quotePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("expr"))
	}
	return args[0].Expr, nil
}

// substitutePrimitive implements `substitute(expr)`: for a bare symbol
// bound locally to an unforced promise, returns the promise's captured
// expression rather than its value.
type substitutePrimitive struct{ basePrimitive }

func (p substitutePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("expr"))
	}
	target := args[0].Expr
	if target.Kind != ExprSymbol {
		return target, nil
	}
	val, ok := ev.Stack.CurrentEnv().GetLocal(target.Symbol)
	if !ok {
		return target, nil
	}
	if pr, ok := val.(*Promise); ok {
		return pr.expr, nil
	}
	return target, nil
}

// printPrimitive implements `print(x)`, writing the deterministic
// printed form (§6.4) to the session's output stream and returning x.
type printPrimitive struct{ basePrimitive }

func (p printPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	out := sessionOut(ev)
	fmt.Fprintln(out, val.String())
	return val, nil
}

func sessionOut(ev *Evaluator) io.Writer {
	if ev.Session != nil && ev.Session.Out != nil {
		return ev.Session.Out
	}
	return os.Stdout
}

// allPrimitive implements `all(...)`.
type allPrimitive struct{ basePrimitive }

func (p allPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	result := True
	for _, v := range vals {
		vv, ok := v.(*Vector)
		if !ok {
			continue
		}
		for _, s := range vv.AsLogical().IterValues() {
			l := s.(Logical)
			if l == False {
				return NewVector(ModeLogical, []Scalar{False}), nil
			}
			if l.IsNA() {
				result = NALogical
			}
		}
	}
	return NewVector(ModeLogical, []Scalar{result}), nil
}

// sumPrimitive implements `sum(...)`: the accumulator widens following
// the CommonNum lattice (logical -> integer -> double) rather than
// always returning double (SUPPLEMENT).
type sumPrimitive struct{ basePrimitive }

func (p sumPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	mode := ModeLogical
	for _, v := range vals {
		vv, ok := v.(*Vector)
		if !ok {
			continue
		}
		if vv.Mode == ModeCharacter {
			return nil, NewError(ErrArgumentInvalid("invalid 'type' (character) of argument to sum"))
		}
		if vv.Mode > mode {
			mode = vv.Mode
		}
	}
	if mode == ModeLogical {
		mode = ModeInteger
	}
	var accI Integer
	var accD Double
	any := false
	hasNA := false
	for _, v := range vals {
		vv, ok := v.(*Vector)
		if !ok {
			continue
		}
		any = true
		conv := vv.AsMode(mode)
		for _, s := range conv.IterValues() {
			if s.IsNA() {
				hasNA = true
				continue
			}
			if mode == ModeInteger {
				accI += s.(Integer)
			} else {
				accD += toDouble(s)
			}
		}
	}
	if !any {
		return NewVector(ModeInteger, []Scalar{Integer(0)}), nil
	}
	if hasNA {
		return NewVector(mode, []Scalar{naOf(mode)}), nil
	}
	if mode == ModeInteger {
		return NewVector(ModeInteger, []Scalar{accI}), nil
	}
	return NewVector(ModeDouble, []Scalar{accD}), nil
}

// isNaPrimitive implements `is_na(x)`, vectorized over x (SUPPLEMENT).
type isNaPrimitive struct{ basePrimitive }

func (p isNaPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	vv, ok := val.(*Vector)
	if !ok {
		return NewVector(ModeLogical, []Scalar{False}), nil
	}
	elems := vv.IterValues()
	out := make([]Scalar, len(elems))
	for i, s := range elems {
		if s.IsNA() {
			out[i] = True
		} else {
			out[i] = False
		}
	}
	return NewVector(ModeLogical, out), nil
}

// isNullPrimitive implements `is_null(x)`, a single scalar (SUPPLEMENT).
type isNullPrimitive struct{ basePrimitive }

func (p isNullPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	_, isNull := val.(Null)
	l := False
	if isNull {
		l = True
	}
	return NewVector(ModeLogical, []Scalar{l}), nil
}

// typePrimitive implements `type(x)`.
type typePrimitive struct{ basePrimitive }

func (p typePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	val, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	var s string
	switch t := val.(type) {
	case Null:
		s = "null"
	case *Vector:
		s = modeLabel(t.Mode)
	case *List:
		s = "list"
	case *Function:
		s = "function"
	case *Environment:
		s = "environment"
	case *Expression:
		s = "expression"
	case *Promise:
		s = "promise"
	default:
		s = "unknown"
	}
	return NewVector(ModeCharacter, []Scalar{NewCharacter(s)}), nil
}

func scalarFloatArg(o Object, def float64) float64 {
	v, ok := o.(*Vector)
	if !ok || v.Len() == 0 {
		return def
	}
	s := v.AsDouble().IterValues()[0]
	if s.IsNA() {
		return def
	}
	return float64(s.(Double))
}

func scalarIntArg(o Object, def int) int {
	v, ok := o.(*Vector)
	if !ok || v.Len() == 0 {
		return def
	}
	s := v.AsInteger().IterValues()[0]
	if s.IsNA() {
		return def
	}
	return int(s.(Integer))
}

// rnormPrimitive implements `rnorm(n, mean=0, sd=1)`, seeded per
// Session (SUPPLEMENT).
type rnormPrimitive struct{ basePrimitive }

func (p rnormPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	n, mean, sd := 1, 0.0, 1.0
	if len(vals) > 0 {
		n = scalarIntArg(vals[0], 1)
	}
	if len(vals) > 1 {
		mean = scalarFloatArg(vals[1], 0)
	}
	if len(vals) > 2 {
		sd = scalarFloatArg(vals[2], 1)
	}
	draws := ev.Session.Rnorm(n, mean, sd)
	out := make([]Scalar, n)
	for i, d := range draws {
		out[i] = Double(d)
	}
	return NewVector(ModeDouble, out), nil
}

// runifPrimitive implements `runif(n, min=0, max=1)`, seeded per
// Session (SUPPLEMENT).
type runifPrimitive struct{ basePrimitive }

func (p runifPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	_, vals, sig := ev.EvalArgsEager(args)
	if sig != nil {
		return nil, sig
	}
	n, lo, hi := 1, 0.0, 1.0
	if len(vals) > 0 {
		n = scalarIntArg(vals[0], 1)
	}
	if len(vals) > 1 {
		lo = scalarFloatArg(vals[1], 0)
	}
	if len(vals) > 2 {
		hi = scalarFloatArg(vals[2], 1)
	}
	draws := ev.Session.Runif(n, lo, hi)
	out := make([]Scalar, n)
	for i, d := range draws {
		out[i] = Double(d)
	}
	return NewVector(ModeDouble, out), nil
}

// callstackPrimitive implements `callstack()`: a list of frame call
// expressions, innermost first (SUPPLEMENT).
type callstackPrimitive struct{ basePrimitive }

func (p callstackPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	frames := ev.Stack.Snapshot()
	elems := make([]Object, 0, len(frames))
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if f.Call != nil {
			elems = append(elems, f.Call)
		} else {
			elems = append(elems, Sym("<top level>"))
		}
	}
	return NewList(elems, nil), nil
}

// lsPrimitive implements `ls(env?)`: locally bound names only, sorted
// lexically (SUPPLEMENT).
type lsPrimitive struct{ basePrimitive }

func (p lsPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	env := ev.Stack.CurrentEnv()
	if len(args) > 0 {
		val, sig := ev.Eval(args[0].Expr)
		if sig != nil {
			return nil, sig
		}
		if e, ok := val.(*Environment); ok {
			env = e
		}
	}
	names := env.Ls()
	out := make([]Scalar, len(names))
	for i, n := range names {
		out[i] = NewCharacter(n)
	}
	return NewVector(ModeCharacter, out), nil
}

// qPrimitive implements `q()`: raises the Terminate condition, the
// only cancellation mechanism in the core (§5).
type qPrimitive struct{ basePrimitive }

func (p qPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	return nil, NewCondition(CondTerminate, nil)
}
