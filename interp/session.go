package interp

import (
	"io"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

// Options configures a Session (§6.3). The REPL-only fields
// (HistoryFile, Warranty) and the parser-only field (Locale,
// Experiments) are carried here as opaque values the core never
// interprets itself; the CLI front end and parser read them.
type Options struct {
	Locale      string
	Experiments map[string]bool
	HistoryFile string
	Warranty    bool
}

// Session is one running instance of the interpreter (§6.1, §6.3): a
// global environment, the builtins registry, a stable identity for
// diagnostics, and a per-session RNG so that rnorm/runif in two
// concurrently open sessions never interfere with each other (SUPPLEMENT).
type Session struct {
	ID        uuid.UUID
	Opts      Options
	Global    *Environment
	Registry  *Registry
	Evaluator *Evaluator
	Out       io.Writer

	rng *rand.Rand
}

// NewSession builds a fresh session with its own global environment, its
// own builtins registry instance, and an RNG seeded from the session's
// own UUID (so two sessions never share a seed by accident).
func NewSession(opts Options) *Session {
	global := NewEnvironment(nil)
	reg := NewRegistry()
	id := uuid.New()

	sess := &Session{ID: id, Opts: opts, Global: global, Registry: reg, Out: os.Stdout}
	sess.rng = rand.New(rand.NewSource(seedFromUUID(id)))
	sess.Evaluator = NewEvaluator(global, reg, sess)
	return sess
}

func seedFromUUID(id uuid.UUID) int64 {
	var seed int64
	for i, b := range id {
		seed ^= int64(b) << uint((i%8)*8)
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Eval parses and evaluates a single top-level input (§6.1). Empty or
// comment-only input parses to no expression and yields the Thunk
// signal, which callers (the REPL, tests) should treat as a no-op.
func (s *Session) Eval(source string) (Object, *Signal) {
	expr, sig := Parse(source)
	if sig != nil {
		return nil, sig
	}
	if expr == nil {
		return nil, NewThunk()
	}
	return s.Evaluator.Eval(expr)
}

// Rnorm draws n values from Normal(mean, sd) using this session's RNG.
func (s *Session) Rnorm(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.NormFloat64()*sd + mean
	}
	return out
}

// Runif draws n values from Uniform[min, max) using this session's RNG.
func (s *Session) Runif(n int, min, max float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = min + s.rng.Float64()*(max-min)
	}
	return out
}
