package interp

// registerControlPrimitives installs if/for/while/repeat/{/return/break/
// continue (§4.I).
func registerControlPrimitives(r *Registry) {
	r.register(ifPrimitive{basePrimitive{symbol: "if"}})
	r.register(forPrimitive{basePrimitive{symbol: "for"}})
	r.register(whilePrimitive{basePrimitive{symbol: "while"}})
	r.register(repeatPrimitive{basePrimitive{symbol: "repeat"}})
	r.register(blockPrimitive{basePrimitive{symbol: "{", transparent: true}})
	r.register(returnPrimitive{basePrimitive{symbol: "return"}})
	r.register(breakPrimitive{basePrimitive{symbol: "break"}})
	r.register(continuePrimitive{basePrimitive{symbol: "continue"}})
}

// asScalarLogical coerces val to a single logical, applying `if`'s strict
// rules: NA is an error, length > 1 is an error, length 0 is an error
// (§4.I).
func asScalarLogical(val Object) (Logical, *Signal) {
	v, ok := val.(*Vector)
	if !ok {
		return 0, NewError(ErrNotInterpretableAsLogical())
	}
	switch v.Len() {
	case 0:
		return 0, NewError(ErrConditionIsNotScalar("argument is of length zero"))
	default:
		if v.Len() > 1 {
			return 0, NewError(ErrConditionIsNotScalar("the condition has length > 1"))
		}
	}
	l := v.AsLogical().IterValues()[0].(Logical)
	if l.IsNA() {
		return 0, NewError(ErrNotInterpretableAsLogical())
	}
	return l, nil
}

// ifPrimitive implements `if(cond, then, else?)`.
type ifPrimitive struct{ basePrimitive }

func (p ifPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("then"))
	}
	cond, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	l, sig := asScalarLogical(cond)
	if sig != nil {
		return nil, sig
	}
	if l == True {
		return ev.Eval(args[1].Expr)
	}
	if len(args) > 2 {
		return ev.Eval(args[2].Expr)
	}
	return Null{}, nil
}

// forPrimitive implements `for(var, iter, body)`: loop from index 1 to
// len(iter), binding var, evaluating body, and handling Break/Continue/
// Return signals (§4.I).
type forPrimitive struct{ basePrimitive }

func (p forPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 3 {
		return nil, NewError(ErrArgumentMissing("body"))
	}
	varName := args[0].Expr.Symbol
	iterVal, sig := ev.Eval(args[1].Expr)
	if sig != nil {
		return nil, sig
	}
	env := ev.Stack.CurrentEnv()

	n, each := iterationLength(iterVal)
	for i := 0; i < n; i++ {
		env.Assign(varName, each(i))
		_, sig := ev.Eval(args[2].Expr)
		if sig != nil {
			if sig.Kind == SignalCondition {
				switch sig.Condition {
				case CondBreak:
					return Null{}, nil
				case CondContinue:
					continue
				}
			}
			return nil, sig
		}
	}
	return Null{}, nil
}

// iterationLength returns the loop trip count and an accessor producing
// the i'th iterated value, for either a Vector or a List (§4.I).
func iterationLength(iter Object) (int, func(int) Object) {
	switch v := iter.(type) {
	case *Vector:
		return v.Len(), func(i int) Object { return v.Get(i) }
	case *List:
		return v.Len(), func(i int) Object { return v.TryGetInner(i) }
	default:
		return 0, func(int) Object { return Null{} }
	}
}

// whilePrimitive implements `while(cond, body)`.
type whilePrimitive struct{ basePrimitive }

func (p whilePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("body"))
	}
	for {
		cond, sig := ev.Eval(args[0].Expr)
		if sig != nil {
			return nil, sig
		}
		l, sig := asScalarLogical(cond)
		if sig != nil {
			return nil, sig
		}
		if l != True {
			return Null{}, nil
		}
		_, sig = ev.Eval(args[1].Expr)
		if sig != nil {
			if sig.Kind == SignalCondition {
				switch sig.Condition {
				case CondBreak:
					return Null{}, nil
				case CondContinue:
					continue
				}
			}
			return nil, sig
		}
	}
}

// repeatPrimitive implements `repeat(body)`.
type repeatPrimitive struct{ basePrimitive }

func (p repeatPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("body"))
	}
	for {
		_, sig := ev.Eval(args[0].Expr)
		if sig != nil {
			if sig.Kind == SignalCondition {
				switch sig.Condition {
				case CondBreak:
					return Null{}, nil
				case CondContinue:
					continue
				}
			}
			return nil, sig
		}
	}
}

// blockPrimitive implements `{...}`: evaluate each expression in order,
// return the last value. It is transparent to frames (§4.I).
type blockPrimitive struct{ basePrimitive }

func (p blockPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	var last Object = Null{}
	for _, a := range args {
		val, sig := ev.Eval(a.Expr)
		if sig != nil {
			return nil, sig
		}
		last = val
	}
	return last, nil
}

// returnPrimitive implements `return(value?)`.
type returnPrimitive struct{ basePrimitive }

func (p returnPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	var val Object = Null{}
	if len(args) > 0 {
		v, sig := ev.Eval(args[0].Expr)
		if sig != nil {
			return nil, sig
		}
		val = v
	}
	return nil, NewCondition(CondReturn, val)
}

type breakPrimitive struct{ basePrimitive }

func (p breakPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	return nil, NewCondition(CondBreak, nil)
}

type continuePrimitive struct{ basePrimitive }

func (p continuePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	return nil, NewCondition(CondContinue, nil)
}
