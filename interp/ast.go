package interp

// ExprKind tags the variant of the expression tree (§6.2). Expressions are
// the input to the evaluator; this repo's parser (interp/parse.go) is the
// external collaborator that produces them.
type ExprKind int

const (
	ExprNull ExprKind = iota
	ExprNA
	ExprInf
	ExprMissing
	ExprBreak
	ExprContinue
	ExprEllipsis
	ExprBool
	ExprNumber
	ExprInteger
	ExprString
	ExprSymbol
	ExprList
	ExprFunctionLit
	ExprCall
	ExprPrimitive
)

// Arg is one entry of an argument list: an optional name and an
// expression.
type Arg struct {
	Name string // "" means positional
	Expr *Expression
}

// Formal is a (name, default expression) pair; a nil Default means
// "required" (§3.8). Ellipsis is true for the `...` formal.
type Formal struct {
	Name     string
	Default  *Expression
	Ellipsis bool
}

// Expression is the AST node consumed by the evaluator (§6.2).
type Expression struct {
	Kind ExprKind

	Bool    bool
	Number  float64
	Integer int32
	Str     string
	Symbol  string

	// ExprEllipsis carries an optional name (e.g. `...name` rest capture).
	EllipsisName string

	// ExprList / ExprCall
	Args []Arg

	// ExprCall
	Callee *Expression

	// ExprFunctionLit
	Formals []Formal
	Body    *Expression

	// ExprPrimitive wraps a boxed Primitive directly into the tree, to be
	// called without a registry lookup. Neither the parser nor the
	// evaluator builds one: resolving a builtin symbol yields a
	// builtin-wrapping Function instead (see Evaluator.Get).
	Primitive Primitive
}

func (e *Expression) String() string { return FormatExpression(e) }

// Sym builds a symbol expression.
func Sym(name string) *Expression { return &Expression{Kind: ExprSymbol, Symbol: name} }

// Str builds a string literal expression.
func Str(s string) *Expression { return &Expression{Kind: ExprString, Str: s} }

// Num builds a number literal expression.
func Num(f float64) *Expression { return &Expression{Kind: ExprNumber, Number: f} }

// Int builds an integer literal expression.
func Int(i int32) *Expression { return &Expression{Kind: ExprInteger, Integer: i} }

// Bool builds a boolean literal expression.
func Bool(b bool) *Expression { return &Expression{Kind: ExprBool, Bool: b} }

// Call builds a call expression.
func Call(callee *Expression, args ...Arg) *Expression {
	return &Expression{Kind: ExprCall, Callee: callee, Args: args}
}

// Block builds an ExprList, evaluated statement by statement to its last
// value (see evalListLazyAsValue). The parser does not use it: source
// `{...}` becomes a call to the `{` block primitive whose arguments are
// the statements (see builtins_control.go).
func Block(exprs ...*Expression) *Expression {
	args := make([]Arg, len(exprs))
	for i, e := range exprs {
		args[i] = Arg{Expr: e}
	}
	return &Expression{Kind: ExprList, Args: args}
}

// MissingExpr is the sentinel expression used for an unbound required
// formal (§3.7): forcing a promise over it raises ArgumentMissing.
var MissingExpr = &Expression{Kind: ExprMissing}

// expressionsEqual implements the "expressions compared by structural
// equality" branch of §3.9's Object equality.
func expressionsEqual(a, b *Expression) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ExprBool:
		return a.Bool == b.Bool
	case ExprNumber:
		return a.Number == b.Number
	case ExprInteger:
		return a.Integer == b.Integer
	case ExprString:
		return a.Str == b.Str
	case ExprSymbol:
		return a.Symbol == b.Symbol
	case ExprEllipsis:
		return a.EllipsisName == b.EllipsisName
	case ExprCall:
		if !expressionsEqual(a.Callee, b.Callee) || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if a.Args[i].Name != b.Args[i].Name || !expressionsEqual(a.Args[i].Expr, b.Args[i].Expr) {
				return false
			}
		}
		return true
	case ExprList:
		if len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !expressionsEqual(a.Args[i].Expr, b.Args[i].Expr) {
				return false
			}
		}
		return true
	case ExprFunctionLit:
		return expressionsEqual(a.Body, b.Body) && len(a.Formals) == len(b.Formals)
	default:
		return true
	}
}
