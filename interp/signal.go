package interp

import (
	"fmt"

	"github.com/pkg/errors"
)

// SignalKind distinguishes control-flow conditions, errors, and the
// no-value Thunk sentinel (§4.J).
type SignalKind int

const (
	SignalCondition SignalKind = iota
	SignalError
	SignalThunk
)

// ConditionKind enumerates the non-error control-flow signals.
type ConditionKind int

const (
	CondBreak ConditionKind = iota
	CondContinue
	CondReturn
	CondTerminate
)

// ErrorKind enumerates the fatal condition taxonomy of §4.J.
type ErrorKind struct {
	Tag     string
	Message string
	cause   error
}

func (e ErrorKind) Error() string { return e.Message }

func newErrorKind(tag, format string, args ...any) ErrorKind {
	return ErrorKind{Tag: tag, Message: fmt.Sprintf(format, args...)}
}

// ErrVariableNotFound builds the VariableNotFound error kind.
func ErrVariableNotFound(name string) ErrorKind {
	return newErrorKind("VariableNotFound", "object %q not found", name)
}

// ErrIncorrectContext builds the IncorrectContext error kind (e.g.
// `return` outside a function).
func ErrIncorrectContext(what string) ErrorKind {
	return newErrorKind("IncorrectContext", "%s used in incorrect context", what)
}

// ErrParseFailure builds the ParseFailure error kind.
func ErrParseFailure(details string) ErrorKind {
	return newErrorKind("ParseFailure", "%s", details)
}

// ErrNotInterpretableAsLogical builds the NotInterpretableAsLogical error
// kind (non-NA, non-boolean condition).
func ErrNotInterpretableAsLogical() ErrorKind {
	return newErrorKind("NotInterpretableAsLogical", "argument is not interpretable as logical")
}

// ErrConditionIsNotScalar builds the ConditionIsNotScalar error kind (NA
// or length != 1 condition, per `if`'s semantics).
func ErrConditionIsNotScalar(reason string) ErrorKind {
	return newErrorKind("ConditionIsNotScalar", "%s", reason)
}

// ErrCannotBeCoercedTo builds the CannotBeCoercedTo error kind.
func ErrCannotBeCoercedTo(to string) ErrorKind {
	return newErrorKind("CannotBeCoercedTo", "cannot be coerced to %s", to)
}

// ErrArgumentMissing builds the ArgumentMissing error kind (§3.7).
func ErrArgumentMissing(name string) ErrorKind {
	if name == "" {
		return newErrorKind("ArgumentMissing", "argument is missing, with no default")
	}
	return newErrorKind("ArgumentMissing", "argument %q is missing, with no default", name)
}

// ErrArgumentInvalid builds the ArgumentInvalid error kind.
func ErrArgumentInvalid(name string) ErrorKind {
	return newErrorKind("ArgumentInvalid", "invalid argument: %s", name)
}

// ErrNonRecyclableLengthsKind builds the NonRecyclableLengths error kind.
func ErrNonRecyclableLengthsKind(l, r int) ErrorKind {
	return newErrorKind("NonRecyclableLengths", "non-recyclable lengths: %d, %d", l, r)
}

// ErrUnimplemented builds the Unimplemented error kind.
func ErrUnimplemented(feature string) ErrorKind {
	if feature == "" {
		return newErrorKind("Unimplemented", "not implemented")
	}
	return newErrorKind("Unimplemented", "not implemented: %s", feature)
}

// ErrInternal builds the Internal error kind. It stores a cause built
// with github.com/pkg/errors.WithStack in the unexported cause field;
// Error() (and so %v and %+v) reports only the message, not that stack.
func ErrInternal(message, file string, line int) ErrorKind {
	k := newErrorKind("Internal", "internal error: %s (%s:%d)", message, file, line)
	k.cause = errors.WithStack(fmt.Errorf("%s", message))
	return k
}

// ErrOther builds a free-form error kind.
func ErrOther(message string) ErrorKind {
	return newErrorKind("Other", "%s", message)
}

// Signal is a non-local control-flow event (§4.J): a Condition, an Error,
// or Thunk (a no-op sentinel for comment-only/empty top-level input).
type Signal struct {
	Kind      SignalKind
	Condition ConditionKind
	ReturnVal Object
	Err       ErrorKind
	stack     []Frame // snapshot of frames at the point of signaling, oldest first
}

func (s *Signal) Error() string {
	switch s.Kind {
	case SignalError:
		return s.Err.Message
	case SignalCondition:
		return fmt.Sprintf("condition: %v", s.Condition)
	default:
		return ""
	}
}

// NewError wraps an ErrorKind into a Signal.
func NewError(k ErrorKind) *Signal {
	return &Signal{Kind: SignalError, Err: k}
}

// NewCondition wraps a control condition into a Signal.
func NewCondition(c ConditionKind, ret Object) *Signal {
	return &Signal{Kind: SignalCondition, Condition: c, ReturnVal: ret}
}

// NewThunk builds the Thunk sentinel signal.
func NewThunk() *Signal { return &Signal{Kind: SignalThunk} }

// WithCallStack attaches a frame-stack snapshot to an error signal for
// backtrace rendering (§7); it is a no-op on non-error signals.
func (s *Signal) WithCallStack(frames []Frame) *Signal {
	if s.Kind != SignalError {
		return s
	}
	cp := *s
	cp.stack = append([]Frame(nil), frames...)
	return &cp
}

// CallStack returns the frame-stack snapshot attached by WithCallStack, if
// any.
func (s *Signal) CallStack() []Frame { return s.stack }

// IsTerminate reports whether s is the Terminate condition raised by q().
func (s *Signal) IsTerminate() bool {
	return s.Kind == SignalCondition && s.Condition == CondTerminate
}
