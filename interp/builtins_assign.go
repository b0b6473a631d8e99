package interp

import "fmt"

// registerAssignPrimitives installs `<-`, `[`, `[[`, `$` (§4.I).
func registerAssignPrimitives(r *Registry) {
	r.register(assignPrimitive{basePrimitive{symbol: "<-", transparent: true}})
	r.register(bracketPrimitive{basePrimitive{symbol: "["}})
	r.register(doubleBracketPrimitive{basePrimitive{symbol: "[["}})
	r.register(dollarPrimitive{basePrimitive{symbol: "$"}})
}

// assignPrimitive implements `<-`: if lhs is a symbol, evaluate rhs and
// bind it locally; if lhs is a call f(args), dispatch to f's CallAssign
// (§4.I "supports x[i] <- v, names(x) <- v").
type assignPrimitive struct{ basePrimitive }

func (p assignPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("value"))
	}
	lhs, rhsExpr := args[0].Expr, args[1].Expr

	switch lhs.Kind {
	case ExprSymbol:
		val, sig := ev.Eval(rhsExpr)
		if sig != nil {
			return nil, sig
		}
		val = cloneObjectForBinding(val)
		ev.Stack.CurrentEnv().Insert(lhs.Symbol, val)
		return val, nil
	case ExprCall:
		name := lhs.Callee.Symbol
		prim, ok := ev.Registry.Lookup(name)
		if !ok {
			return nil, NewError(ErrVariableNotFound(name))
		}
		return prim.CallAssign(rhsExpr, lhs.Args, ev)
	default:
		return nil, NewError(ErrArgumentInvalid("invalid assignment target"))
	}
}

// indexToSubset builds a Subset from an already-evaluated index object,
// per §4.I "construct a subset from the index value and apply it to the
// target". A nil idx (missing index, e.g. `x[]`) yields the full range.
func indexToSubset(idx Object) (Subset, error) {
	if idx == nil {
		return Subset{Kind: SubsetRange, Start: 0, End: -1}, nil
	}
	v, ok := idx.(*Vector)
	if !ok {
		return Subset{}, fmt.Errorf("invalid subscript type")
	}
	switch v.Mode {
	case ModeCharacter:
		names := make([]Character, 0, v.Len())
		for _, s := range v.IterValues() {
			names = append(names, s.(Character))
		}
		return Subset{Kind: SubsetNames, Names: names}, nil
	case ModeLogical:
		mask := make([]Logical, 0, v.Len())
		for _, s := range v.IterValues() {
			mask = append(mask, s.(Logical))
		}
		return Subset{Kind: SubsetMask, Mask: mask}, nil
	default:
		iv := v.AsInteger()
		idxs := make([]Integer, 0, iv.Len())
		for _, s := range iv.IterValues() {
			idxs = append(idxs, s.(Integer))
		}
		return Subset{Kind: SubsetIndices, Indices: idxs}, nil
	}
}

// evalIndexArg evaluates the index argument of a `[`/`[[` call, which may
// be absent (`x[]`).
func evalIndexArg(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, nil
	}
	return ev.Eval(args[1].Expr)
}

// bracketPrimitive implements `[` (subset).
type bracketPrimitive struct{ basePrimitive }

func (p bracketPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	target, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	idxObj, sig := evalIndexArg(args, ev)
	if sig != nil {
		return nil, sig
	}
	sub, err := indexToSubset(idxObj)
	if err != nil {
		return nil, NewError(ErrArgumentInvalid(err.Error()))
	}
	switch t := target.(type) {
	case *Vector:
		return t.Subset(sub), nil
	case *List:
		return t.TryGet(sub), nil
	case Null:
		return Null{}, nil
	default:
		return nil, NewError(ErrArgumentInvalid("object is not subsettable"))
	}
}

// resolveAssignTarget evaluates the nested target expression of a
// complex assignment (`f(g(x), j) <- v`'s "g(x)" position) to obtain a
// live, aliased container: Vector and List are Go pointers, and reads
// that only Borrow (never WithInnerMut) through `$`/`[`/`[[` never
// diverge the Cow, so the object returned here is the very same one
// reachable from the enclosing binding (§3.5, P6).
func resolveAssignTarget(expr *Expression, ev *Evaluator) (Object, *Signal) {
	return ev.Eval(expr)
}

// rebindIfSymbol re-inserts obj under targetExpr's name when targetExpr
// is a bare symbol. Mutation of Vector/List targets already propagates
// through the shared Cow reference without this, but re-binding keeps
// the environment's slot consistent for the common `x[i] <- v` case
// and is a harmless no-op otherwise.
func rebindIfSymbol(targetExpr *Expression, obj Object, ev *Evaluator) {
	if targetExpr.Kind == ExprSymbol {
		ev.Stack.CurrentEnv().Insert(targetExpr.Symbol, obj)
	}
}

func (p bracketPrimitive) CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	targetObj, sig := resolveAssignTarget(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	idxObj, sig := evalIndexArg(args, ev)
	if sig != nil {
		return nil, sig
	}
	sub, err := indexToSubset(idxObj)
	if err != nil {
		return nil, NewError(ErrArgumentInvalid(err.Error()))
	}
	val, sig := ev.Eval(value)
	if sig != nil {
		return nil, sig
	}
	switch t := targetObj.(type) {
	case *Vector:
		vv, ok := val.(*Vector)
		if !ok {
			return nil, NewError(ErrArgumentInvalid("replacement has incompatible type"))
		}
		if e := t.AssignThroughSubset(sub, vv); e != nil {
			return nil, signalFromErr(e)
		}
	case *List:
		if e := t.Assign(sub, val); e != nil {
			return nil, signalFromErr(e)
		}
	default:
		return nil, NewError(ErrArgumentInvalid("object is not subsettable"))
	}
	rebindIfSymbol(args[0].Expr, targetObj, ev)
	return val, nil
}

// doubleBracketPrimitive implements `[[` (single-index extraction/
// assignment).
type doubleBracketPrimitive struct{ basePrimitive }

func (p doubleBracketPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("i"))
	}
	target, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	idxObj, sig := ev.Eval(args[1].Expr)
	if sig != nil {
		return nil, sig
	}
	sub, err := indexToSubset(idxObj)
	if err != nil {
		return nil, NewError(ErrArgumentInvalid(err.Error()))
	}
	switch t := target.(type) {
	case *Vector:
		view := t.Subset(sub)
		if view.Len() != 1 {
			return nil, NewError(ErrArgumentInvalid("subscript out of bounds"))
		}
		return view.Get(0), nil
	case *List:
		view := t.TryGet(sub)
		if view.Len() != 1 {
			return nil, NewError(ErrArgumentInvalid("subscript out of bounds"))
		}
		obj := view.TryGetInner(0)
		if obj == nil {
			return Null{}, nil
		}
		return obj, nil
	default:
		return nil, NewError(ErrArgumentInvalid("object is not subsettable"))
	}
}

func (p doubleBracketPrimitive) CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("i"))
	}
	targetObj, sig := resolveAssignTarget(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	idxObj, sig := ev.Eval(args[1].Expr)
	if sig != nil {
		return nil, sig
	}
	sub, err := indexToSubset(idxObj)
	if err != nil {
		return nil, NewError(ErrArgumentInvalid(err.Error()))
	}
	val, sig := ev.Eval(value)
	if sig != nil {
		return nil, sig
	}
	switch t := targetObj.(type) {
	case *Vector:
		vv, ok := val.(*Vector)
		if !ok {
			return nil, NewError(ErrArgumentInvalid("replacement has incompatible type"))
		}
		if e := t.SetSubset(sub, vv); e != nil {
			return nil, signalFromErr(e)
		}
	case *List:
		if e := t.Assign(sub, val); e != nil {
			return nil, signalFromErr(e)
		}
	default:
		return nil, NewError(ErrArgumentInvalid("object is not subsettable"))
	}
	rebindIfSymbol(args[0].Expr, targetObj, ev)
	return val, nil
}

// dollarPrimitive implements `$name` sugar: a single-name subset that
// yields a mutable view, enabling nested assignment (§3.5, P6).
type dollarPrimitive struct{ basePrimitive }

func dollarName(args []Arg) string {
	if len(args) < 2 {
		return ""
	}
	return args[1].Expr.Symbol
}

func (p dollarPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("name"))
	}
	target, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	l, ok := target.(*List)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("$ operator is invalid for this object"))
	}
	name := dollarName(args)
	view := l.ViewMut().TryGet(Subset{Kind: SubsetNames, Names: []Character{NewCharacter(name)}})
	if view.Len() != 1 {
		return Null{}, nil
	}
	obj := view.TryGetInner(0)
	if obj == nil {
		return Null{}, nil
	}
	return obj, nil
}

func (p dollarPrimitive) CallAssign(value *Expression, args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("name"))
	}
	targetObj, sig := resolveAssignTarget(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	l, ok := targetObj.(*List)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("$<- operator is invalid for this object"))
	}
	val, sig := ev.Eval(value)
	if sig != nil {
		return nil, sig
	}
	name := dollarName(args)
	sub := Subset{Kind: SubsetNames, Names: []Character{NewCharacter(name)}}
	if e := l.Assign(sub, val); e != nil {
		return nil, signalFromErr(e)
	}
	rebindIfSymbol(args[0].Expr, l, ev)
	return val, nil
}

func signalFromErr(err error) *Signal {
	if nr, ok := err.(ErrNonRecyclableLengths); ok {
		return NewError(ErrNonRecyclableLengthsKind(nr.N, nr.M))
	}
	return NewError(ErrOther(err.Error()))
}
