package interp

import "math"

// registerOperatorPrimitives installs arithmetic, comparison, logical,
// range and pipe operators (§4.I).
func registerOperatorPrimitives(r *Registry) {
	r.register(arithPrimitive{basePrimitive{symbol: "+", transparent: true}, addOp, true})
	r.register(arithPrimitive{basePrimitive{symbol: "-", transparent: true}, subOp, true})
	r.register(arithPrimitive{basePrimitive{symbol: "*", transparent: true}, mulOp, false})
	r.register(arithPrimitive{basePrimitive{symbol: "/", transparent: true}, divOp, false})
	r.register(arithPrimitive{basePrimitive{symbol: "^", transparent: true}, powOp, false})
	r.register(arithPrimitive{basePrimitive{symbol: "%%", transparent: true}, modOp, false})

	r.register(comparePrimitive{basePrimitive{symbol: "<", transparent: true}, ltOp})
	r.register(comparePrimitive{basePrimitive{symbol: "<=", transparent: true}, leOp})
	r.register(comparePrimitive{basePrimitive{symbol: ">", transparent: true}, gtOp})
	r.register(comparePrimitive{basePrimitive{symbol: ">=", transparent: true}, geOp})
	r.register(comparePrimitive{basePrimitive{symbol: "==", transparent: true}, eqOp})
	r.register(comparePrimitive{basePrimitive{symbol: "!=", transparent: true}, neOp})

	r.register(logicPrimitive{basePrimitive{symbol: "&", transparent: true}, andOp})
	r.register(logicPrimitive{basePrimitive{symbol: "|", transparent: true}, orOp})
	r.register(shortCircuitPrimitive{basePrimitive{symbol: "&&", transparent: true}, false})
	r.register(shortCircuitPrimitive{basePrimitive{symbol: "||", transparent: true}, true})

	r.register(notPrimitive{basePrimitive{symbol: "!", transparent: true}})
	r.register(rangePrimitive{basePrimitive{symbol: ":", transparent: true}})
	r.register(pipePrimitive{basePrimitive{symbol: "|>", transparent: true}})
}

func addOp(a, b Double) Double { return a + b }
func subOp(a, b Double) Double { return a - b }
func mulOp(a, b Double) Double { return a * b }
func divOp(a, b Double) Double { return a / b }
func powOp(a, b Double) Double { return Double(math.Pow(float64(a), float64(b))) }
func modOp(a, b Double) Double {
	if b == 0 {
		return Double(math.NaN())
	}
	m := math.Mod(float64(a), float64(b))
	if m != 0 && (m < 0) != (b < 0) {
		m += float64(b)
	}
	return Double(m)
}

// evalVectorArg evaluates expr and requires the result be a Vector,
// wrapping any other object kind as an ArgumentInvalid error.
func evalVectorArg(expr *Expression, ev *Evaluator) (*Vector, *Signal) {
	val, sig := ev.Eval(expr)
	if sig != nil {
		return nil, sig
	}
	v, ok := val.(*Vector)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("operand is not a vector"))
	}
	return v, nil
}

// arithPrimitive implements +, -, *, /, ^, %% (§4.D "Binary operators").
// A one-argument call (unary plus/minus) is allowed when allowsUnary is
// true, which only `+` and `-` set.
type arithPrimitive struct {
	basePrimitive
	op           func(a, b Double) Double
	allowsUnary  bool
}

func (p arithPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) == 1 && p.allowsUnary {
		v, sig := evalVectorArg(args[0].Expr, ev)
		if sig != nil {
			return nil, sig
		}
		zero := NewVector(ModeInteger, []Scalar{Integer(0)})
		if p.symbol == "+" {
			return v, nil
		}
		out, err := Arith(zero, v, subOp)
		if err != nil {
			return nil, signalFromErr(err)
		}
		return out, nil
	}
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("e2"))
	}
	lhs, sig := evalVectorArg(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	rhs, sig := evalVectorArg(args[1].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	out, err := Arith(lhs, rhs, p.op)
	if err != nil {
		return nil, signalFromErr(err)
	}
	return out, nil
}

// comparePrimitive implements <, <=, >, >=, ==, !=.
type comparePrimitive struct {
	basePrimitive
	op func(a, b Scalar) bool
}

func (p comparePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("e2"))
	}
	lhs, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	rhs, sig := ev.Eval(args[1].Expr)
	if sig != nil {
		return nil, sig
	}
	if p.symbol == "==" || p.symbol == "!=" {
		lv, lok := lhs.(*Vector)
		rv, rok := rhs.(*Vector)
		if !lok || !rok {
			eq := ObjectsEqual(lhs, rhs)
			if p.symbol == "!=" {
				eq = !eq
			}
			l := False
			if eq {
				l = True
			}
			return NewVector(ModeLogical, []Scalar{l}), nil
		}
		out, err := Compare(lv, rv, p.op)
		if err != nil {
			return nil, signalFromErr(err)
		}
		return out, nil
	}
	lv, ok := lhs.(*Vector)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("comparison operand is not a vector"))
	}
	rv, ok := rhs.(*Vector)
	if !ok {
		return nil, NewError(ErrArgumentInvalid("comparison operand is not a vector"))
	}
	out, err := Compare(lv, rv, p.op)
	if err != nil {
		return nil, signalFromErr(err)
	}
	return out, nil
}

func ltOp(a, b Scalar) bool { return scalarLess(a, b) }
func leOp(a, b Scalar) bool { return scalarLess(a, b) || scalarEq(a, b) }
func gtOp(a, b Scalar) bool { return scalarLess(b, a) }
func geOp(a, b Scalar) bool { return scalarLess(b, a) || scalarEq(a, b) }
func eqOp(a, b Scalar) bool { return scalarEq(a, b) }
func neOp(a, b Scalar) bool { return !scalarEq(a, b) }

func scalarEq(a, b Scalar) bool { return a == b }

func scalarLess(a, b Scalar) bool {
	switch av := a.(type) {
	case Character:
		bv := b.(Character)
		return av.Value < bv.Value
	case Integer:
		bv := b.(Integer)
		return av < bv
	case Double:
		bv := b.(Double)
		return av < bv
	case Logical:
		bv := b.(Logical)
		return av < bv
	}
	return false
}

// logicPrimitive implements & and | (vectorized, no short-circuit).
type logicPrimitive struct {
	basePrimitive
	op func(a, b Logical) Logical
}

func (p logicPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("e2"))
	}
	lhs, sig := evalVectorArg(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	rhs, sig := evalVectorArg(args[1].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	out, err := Logic(lhs, rhs, p.op)
	if err != nil {
		return nil, signalFromErr(err)
	}
	return out, nil
}

func andOp(a, b Logical) Logical {
	if a == False || b == False {
		return False
	}
	if a.IsNA() || b.IsNA() {
		return NALogical
	}
	return True
}

func orOp(a, b Logical) Logical {
	if a == True || b == True {
		return True
	}
	if a.IsNA() || b.IsNA() {
		return NALogical
	}
	return False
}

// shortCircuitPrimitive implements && and ||: the right-hand argument
// expression is only evaluated if the left-hand scalar does not already
// determine the result.
type shortCircuitPrimitive struct {
	basePrimitive
	isOr bool
}

func (p shortCircuitPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("e2"))
	}
	lv, sig := ev.Eval(args[0].Expr)
	if sig != nil {
		return nil, sig
	}
	ll, sig := asScalarLogical(lv)
	if sig != nil {
		return nil, sig
	}
	if p.isOr && ll == True {
		return NewVector(ModeLogical, []Scalar{True}), nil
	}
	if !p.isOr && ll == False {
		return NewVector(ModeLogical, []Scalar{False}), nil
	}
	rv, sig := ev.Eval(args[1].Expr)
	if sig != nil {
		return nil, sig
	}
	rl, sig := asScalarLogical(rv)
	if sig != nil {
		return nil, sig
	}
	return NewVector(ModeLogical, []Scalar{rl}), nil
}

// notPrimitive implements unary `!`.
type notPrimitive struct{ basePrimitive }

func (p notPrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 1 {
		return nil, NewError(ErrArgumentMissing("x"))
	}
	v, sig := evalVectorArg(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	lv := v.AsLogical().IterValues()
	out := make([]Scalar, len(lv))
	for i, s := range lv {
		l := s.(Logical)
		if l.IsNA() {
			out[i] = NALogical
			continue
		}
		if l == True {
			out[i] = False
		} else {
			out[i] = True
		}
	}
	return NewVector(ModeLogical, out), nil
}

// rangePrimitive implements `:`, producing an ascending or descending
// integer sequence (falling back to double when either endpoint is
// fractional).
type rangePrimitive struct{ basePrimitive }

func (p rangePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("to"))
	}
	lhs, sig := evalVectorArg(args[0].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	rhs, sig := evalVectorArg(args[1].Expr, ev)
	if sig != nil {
		return nil, sig
	}
	if lhs.Len() != 1 || rhs.Len() != 1 {
		return nil, NewError(ErrArgumentInvalid("range endpoints must have length 1"))
	}
	from := toDouble(lhs.AsDouble().IterValues()[0])
	to := toDouble(rhs.AsDouble().IterValues()[0])
	whole := from == math.Trunc(float64(from)) && to == math.Trunc(float64(to))

	var out []Scalar
	if from <= to {
		for x := from; x <= to; x++ {
			out = append(out, Double(x))
		}
	} else {
		for x := from; x >= to; x-- {
			out = append(out, Double(x))
		}
	}
	if whole {
		ints := make([]Scalar, len(out))
		for i, s := range out {
			ints[i] = Integer(int32(s.(Double)))
		}
		return NewVector(ModeInteger, ints), nil
	}
	return NewVector(ModeDouble, out), nil
}

// pipePrimitive implements `|>`: `lhs |> f(args...)` rewrites to
// `f(lhs, args...)`, inserting lhs as the call's first argument (§4.I).
type pipePrimitive struct{ basePrimitive }

func (p pipePrimitive) Call(args []Arg, ev *Evaluator) (Object, *Signal) {
	if len(args) < 2 {
		return nil, NewError(ErrArgumentMissing("rhs"))
	}
	rhs := args[1].Expr
	if rhs.Kind != ExprCall {
		return nil, NewError(ErrArgumentInvalid("right-hand side of |> must be a call"))
	}
	newArgs := make([]Arg, 0, len(rhs.Args)+1)
	newArgs = append(newArgs, Arg{Expr: args[0].Expr})
	newArgs = append(newArgs, rhs.Args...)
	rewritten := &Expression{Kind: ExprCall, Callee: rhs.Callee, Args: newArgs}
	return ev.Eval(rewritten)
}
