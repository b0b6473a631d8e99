package interp

import "testing"

func TestAssignBracketVectorInPlace(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("x")}, Arg{Expr: Call(Sym(":"), Arg{Expr: Int(1)}, Arg{Expr: Int(3)})}))

	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("["), Arg{Expr: Sym("x")}, Arg{Expr: Int(2)})},
		Arg{Expr: Num(99)},
	)
	mustEval(t, ev, assign)

	got := mustEval(t, ev, Sym("x")).(*Vector)
	vals := got.AsDouble().IterValues()
	if vals[1] != Double(99) {
		t.Fatalf("x after x[2] <- 99 = %v, want middle element 99", vals)
	}
}

func TestAssignDoubleBracketSingleElement(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("x")}, Arg{Expr: Call(Sym(":"), Arg{Expr: Int(1)}, Arg{Expr: Int(3)})}))
	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("[["), Arg{Expr: Sym("x")}, Arg{Expr: Int(1)})},
		Arg{Expr: Num(7)},
	)
	mustEval(t, ev, assign)
	got := mustEval(t, ev, Sym("x")).(*Vector)
	if got.AsDouble().IterValues()[0] != Double(7) {
		t.Fatal("x[[1]] <- 7 must mutate the first element")
	}
}

func TestAssignDollarOnList(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("l")}, Arg{Expr: Call(Sym("list"), Arg{Name: "a", Expr: Num(1)})}))
	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("$"), Arg{Expr: Sym("l")}, Arg{Expr: Sym("a")})},
		Arg{Expr: Num(42)},
	)
	mustEval(t, ev, assign)

	got := mustEval(t, ev, Call(Sym("$"), Arg{Expr: Sym("l")}, Arg{Expr: Sym("a")})).(*Vector)
	if got.AsDouble().IterValues()[0] != Double(42) {
		t.Fatalf("l$a after l$a <- 42 = %v, want 42", got.IterValues()[0])
	}
}

func TestAssignBracketCloneDoesNotLeakAcrossBindings(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("x")}, Arg{Expr: Call(Sym(":"), Arg{Expr: Int(1)}, Arg{Expr: Int(3)})}))
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("y")}, Arg{Expr: Sym("x")}))

	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("["), Arg{Expr: Sym("y")}, Arg{Expr: Int(1)})},
		Arg{Expr: Num(999)},
	)
	mustEval(t, ev, assign)

	x := mustEval(t, ev, Sym("x")).(*Vector)
	if x.AsDouble().IterValues()[0] == Double(999) {
		t.Fatal("mutating y after y <- x must not leak back into x (binding-boundary COW isolation)")
	}
}

func TestAssignListNullRemovesElement(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("l")},
		Arg{Expr: Call(Sym("list"), Arg{Expr: Num(1)}, Arg{Expr: Num(2)}, Arg{Expr: Num(3)})}))
	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("[["), Arg{Expr: Sym("l")}, Arg{Expr: Int(2)})},
		Arg{Expr: &Expression{Kind: ExprNull}},
	)
	mustEval(t, ev, assign)
	n := mustEval(t, ev, Call(Sym("length"), Arg{Expr: Sym("l")})).(*Vector)
	if n.AsInteger().IterValues()[0] != Integer(2) {
		t.Fatalf("length(l) after removing one element = %v, want 2", n.IterValues()[0])
	}
}

func TestAssignBracketLengthMismatchErrors(t *testing.T) {
	ev := newTestEvaluator()
	mustEval(t, ev, Call(Sym("<-"), Arg{Expr: Sym("x")}, Arg{Expr: Call(Sym(":"), Arg{Expr: Int(1)}, Arg{Expr: Int(3)})}))
	assign := Call(Sym("<-"),
		Arg{Expr: Call(Sym("["), Arg{Expr: Sym("x")})},
		Arg{Expr: Call(Sym(":"), Arg{Expr: Int(1)}, Arg{Expr: Int(2)})},
	)
	_, sig := ev.Eval(assign)
	if sig == nil || sig.Kind != SignalError {
		t.Fatal("assigning a non-recyclable length through [] must error")
	}
}
