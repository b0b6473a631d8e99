package interp

import "testing"

func TestNewErrorWrapsKind(t *testing.T) {
	sig := NewError(ErrVariableNotFound("x"))
	if sig.Kind != SignalError || sig.Err.Tag != "VariableNotFound" {
		t.Fatalf("NewError(ErrVariableNotFound) = %+v", sig)
	}
	if sig.Error() != sig.Err.Message {
		t.Fatalf("Signal.Error() = %q, want %q", sig.Error(), sig.Err.Message)
	}
}

func TestNewConditionCarriesReturnValue(t *testing.T) {
	val := Num(1)
	sig := NewCondition(CondReturn, val)
	if sig.Kind != SignalCondition || sig.Condition != CondReturn {
		t.Fatalf("NewCondition(CondReturn) = %+v", sig)
	}
	if sig.ReturnVal != Object(val) {
		t.Fatal("NewCondition must carry the return value through unchanged")
	}
}

func TestNewThunkIsDistinctFromErrorAndCondition(t *testing.T) {
	sig := NewThunk()
	if sig.Kind != SignalThunk {
		t.Fatalf("NewThunk().Kind = %v, want SignalThunk", sig.Kind)
	}
	if sig.Error() != "" {
		t.Fatalf("Thunk.Error() = %q, want empty", sig.Error())
	}
}

func TestIsTerminateOnlyMatchesTerminateCondition(t *testing.T) {
	term := NewCondition(CondTerminate, nil)
	if !term.IsTerminate() {
		t.Fatal("NewCondition(CondTerminate).IsTerminate() must be true")
	}
	brk := NewCondition(CondBreak, nil)
	if brk.IsTerminate() {
		t.Fatal("NewCondition(CondBreak).IsTerminate() must be false")
	}
	err := NewError(ErrOther("boom"))
	if err.IsTerminate() {
		t.Fatal("an error signal must never report IsTerminate")
	}
}

func TestWithCallStackIsNoopOnNonError(t *testing.T) {
	cond := NewCondition(CondBreak, nil)
	frames := []Frame{{Call: nil, Env: NewEnvironment(nil)}}
	got := cond.WithCallStack(frames)
	if got != cond {
		t.Fatal("WithCallStack on a non-error signal must return the receiver unchanged")
	}
	if got.CallStack() != nil {
		t.Fatal("a non-error signal must never carry a call stack")
	}
}

func TestWithCallStackAttachesACopyOnError(t *testing.T) {
	sig := NewError(ErrOther("boom"))
	frames := []Frame{{Call: Sym("f"), Env: NewEnvironment(nil)}}
	got := sig.WithCallStack(frames)
	if got == sig {
		t.Fatal("WithCallStack on an error signal must return a new Signal, not mutate the receiver")
	}
	if len(got.CallStack()) != 1 {
		t.Fatalf("CallStack() length = %d, want 1", len(got.CallStack()))
	}
	if sig.CallStack() != nil {
		t.Fatal("the original signal must be left without a call stack")
	}
}

func TestErrorKindMessagesAreDistinctPerTag(t *testing.T) {
	cases := []ErrorKind{
		ErrVariableNotFound("x"),
		ErrIncorrectContext("return"),
		ErrParseFailure("unexpected token"),
		ErrNotInterpretableAsLogical(),
		ErrConditionIsNotScalar("length 0"),
		ErrCannotBeCoercedTo("double"),
		ErrArgumentMissing("y"),
		ErrArgumentInvalid("y"),
		ErrNonRecyclableLengthsKind(3, 2),
		ErrUnimplemented("frobnicate"),
		ErrOther("custom"),
	}
	seen := map[string]bool{}
	for _, k := range cases {
		if seen[k.Tag] {
			t.Fatalf("duplicate error tag %q", k.Tag)
		}
		seen[k.Tag] = true
		if k.Message == "" {
			t.Fatalf("ErrorKind %q has an empty message", k.Tag)
		}
	}
}

func TestErrArgumentMissingWithAndWithoutName(t *testing.T) {
	named := ErrArgumentMissing("x")
	anon := ErrArgumentMissing("")
	if named.Message == anon.Message {
		t.Fatal("ErrArgumentMissing must distinguish the named and anonymous forms")
	}
}
