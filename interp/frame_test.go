package interp

import "testing"

func TestNewStackStartsWithOneGlobalFrame(t *testing.T) {
	env := NewEnvironment(nil)
	s := NewStack(env)
	if s.Depth() != 1 {
		t.Fatalf("NewStack depth = %d, want 1", s.Depth())
	}
	if s.CurrentEnv() != env {
		t.Fatal("NewStack's single frame must wrap the given global environment")
	}
}

func TestStackPushIncreasesDepth(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	child := NewEnvironment(s.CurrentEnv())
	depth := s.Push(Call(Sym("f")), child)
	if depth != 2 || s.Depth() != 2 {
		t.Fatalf("Push depth = %d / Depth() = %d, want 2/2", depth, s.Depth())
	}
	if s.CurrentEnv() != child {
		t.Fatal("CurrentEnv must reflect the pushed frame after Push")
	}
}

func TestStackPopAfterPopsOnSuccessKeepsOnError(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	s.Push(Call(Sym("f")), NewEnvironment(s.CurrentEnv()))
	s.PopAfter(nil)
	if s.Depth() != 1 {
		t.Fatalf("PopAfter(nil) depth = %d, want 1 (popped)", s.Depth())
	}

	s.Push(Call(Sym("g")), NewEnvironment(s.CurrentEnv()))
	s.PopAfter(NewError(ErrOther("boom")))
	if s.Depth() != 2 {
		t.Fatalf("PopAfter(error) depth = %d, want 2 (kept for backtrace)", s.Depth())
	}
}

func TestStackForcePopAlwaysPops(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	s.Push(Call(Sym("f")), NewEnvironment(s.CurrentEnv()))
	s.ForcePop()
	if s.Depth() != 1 {
		t.Fatalf("ForcePop depth = %d, want 1", s.Depth())
	}
}

func TestStackPopNeverDropsGlobalFrame(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	s.ForcePop()
	s.ForcePop()
	if s.Depth() != 1 {
		t.Fatalf("repeated pops on a single-frame stack must leave depth 1, got %d", s.Depth())
	}
}

func TestStackFrameNegativeIndexing(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	child := NewEnvironment(s.CurrentEnv())
	s.Push(Call(Sym("f")), child)
	if s.LastFrame().Env != child {
		t.Fatal("LastFrame must be the most recently pushed frame")
	}
	if s.ParentFrame().Env != s.Frame(0).Env {
		t.Fatal("ParentFrame of a depth-2 stack must be the global frame")
	}
}

func TestStackFrameOutOfRangeReturnsZeroValue(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	if f := s.Frame(5); f.Env != nil || f.Call != nil {
		t.Fatalf("Frame(out of range) = %+v, want the zero Frame", f)
	}
}

func TestStackSnapshotIsOldestFirstAndIndependent(t *testing.T) {
	s := NewStack(NewEnvironment(nil))
	s.Push(Call(Sym("f")), NewEnvironment(s.CurrentEnv()))
	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot length = %d, want 2", len(snap))
	}
	s.Push(Call(Sym("g")), NewEnvironment(s.CurrentEnv()))
	if len(snap) != 2 {
		t.Fatal("Snapshot must not be affected by later Push calls on the live stack")
	}
}

func TestEvaluatorGetFallsBackToBuiltinRegistry(t *testing.T) {
	ev := newTestEvaluator()
	val, sig := ev.Get("+")
	if sig != nil {
		t.Fatalf("Get(+) signal: %v", sig)
	}
	fn, ok := val.(*Function)
	if !ok || fn.Builtin == nil || fn.Builtin.Symbol() != "+" {
		t.Fatalf("Get(+) = %v, want a builtin-wrapping Function for +", val)
	}
}

func TestEvaluatorGetVariableNotFoundWhenAbsentEverywhere(t *testing.T) {
	ev := newTestEvaluator()
	_, sig := ev.Get("nowhere")
	if sig == nil || sig.Kind != SignalError || sig.Err.Tag != "VariableNotFound" {
		t.Fatalf("Get(nowhere) = %v, want VariableNotFound error", sig)
	}
}
