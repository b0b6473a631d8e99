package interp

import "testing"

func parseOK(t *testing.T, src string) *Expression {
	t.Helper()
	expr, sig := Parse(src)
	if sig != nil {
		t.Fatalf("Parse(%q) signal: %v", src, sig)
	}
	return expr
}

func TestParseEmptyInputYieldsNil(t *testing.T) {
	expr, sig := Parse("  \n  # just a comment\n")
	if sig != nil {
		t.Fatalf("Parse(comment-only) signal: %v", sig)
	}
	if expr != nil {
		t.Fatal("Parse(comment-only input) must return a nil expression")
	}
}

func TestParseNumberAndIntegerLiterals(t *testing.T) {
	n := parseOK(t, "3.5")
	if n.Kind != ExprNumber || n.Number != 3.5 {
		t.Fatalf("Parse(3.5) = %+v, want ExprNumber 3.5", n)
	}
	i := parseOK(t, "7L")
	if i.Kind != ExprInteger || i.Integer != 7 {
		t.Fatalf("Parse(7L) = %+v, want ExprInteger 7", i)
	}
}

func TestParseStringLiteralWithEscapes(t *testing.T) {
	s := parseOK(t, `"a\nb"`)
	if s.Kind != ExprString || s.Str != "a\nb" {
		t.Fatalf("Parse(\"a\\nb\") = %+v, want string containing a newline", s)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	expr := parseOK(t, "x <- y <- 1")
	if expr.Kind != ExprCall || expr.Callee.Symbol != "<-" {
		t.Fatalf("Parse(x <- y <- 1) top = %+v, want a <- call", expr)
	}
	rhs := expr.Args[1].Expr
	if rhs.Kind != ExprCall || rhs.Callee.Symbol != "<-" {
		t.Fatal("Parse(x <- y <- 1) must nest the second assignment as the RHS of the first")
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	expr := parseOK(t, "1 + 2 * 3")
	if expr.Callee.Symbol != "+" {
		t.Fatalf("Parse(1 + 2 * 3) top operator = %q, want +", expr.Callee.Symbol)
	}
	rhs := expr.Args[1].Expr
	if rhs.Callee.Symbol != "*" {
		t.Fatalf("Parse(1 + 2 * 3) rhs operator = %q, want *", rhs.Callee.Symbol)
	}
}

func TestParseUnaryMinusBindsLooserThanPower(t *testing.T) {
	expr := parseOK(t, "-2^2")
	if expr.Callee.Symbol != "-" {
		t.Fatalf("Parse(-2^2) top operator = %q, want unary -", expr.Callee.Symbol)
	}
	if len(expr.Args) != 1 {
		t.Fatalf("Parse(-2^2) unary - must take exactly one argument, got %d", len(expr.Args))
	}
	operand := expr.Args[0].Expr
	if operand.Callee.Symbol != "^" {
		t.Fatalf("Parse(-2^2) operand = %+v, want ^(2, 2)", operand)
	}
}

func TestParseComparisonChainsLeftAssociative(t *testing.T) {
	expr := parseOK(t, "1 < 2 == TRUE")
	if expr.Callee.Symbol != "==" {
		t.Fatalf("Parse(1 < 2 == TRUE) top operator = %q, want ==", expr.Callee.Symbol)
	}
}

func TestParseRangeOperator(t *testing.T) {
	expr := parseOK(t, "1:5")
	if expr.Callee.Symbol != ":" {
		t.Fatalf("Parse(1:5) top operator = %q, want :", expr.Callee.Symbol)
	}
}

func TestParsePipeRewritesToCallForm(t *testing.T) {
	expr := parseOK(t, "x |> f(1)")
	if expr.Callee.Symbol != "|>" {
		t.Fatalf("Parse(x |> f(1)) top operator = %q, want |>", expr.Callee.Symbol)
	}
	if len(expr.Args) != 2 || expr.Args[0].Expr.Symbol != "x" {
		t.Fatal("Parse(x |> f(1)) must keep the pipe's LHS as the first argument")
	}
}

func TestParseShortCircuitOperators(t *testing.T) {
	expr := parseOK(t, "TRUE && FALSE || TRUE")
	if expr.Callee.Symbol != "||" {
		t.Fatalf("Parse(TRUE && FALSE || TRUE) top operator = %q, want ||", expr.Callee.Symbol)
	}
	lhs := expr.Args[0].Expr
	if lhs.Callee.Symbol != "&&" {
		t.Fatalf("Parse(TRUE && FALSE || TRUE) lhs = %+v, want && call", lhs)
	}
}

func TestParseCallWithNamedAndPositionalArgs(t *testing.T) {
	expr := parseOK(t, "f(1, y = 2)")
	if expr.Kind != ExprCall || len(expr.Args) != 2 {
		t.Fatalf("Parse(f(1, y = 2)) = %+v", expr)
	}
	if expr.Args[0].Name != "" || expr.Args[1].Name != "y" {
		t.Fatalf("Parse(f(1, y = 2)) args = %+v, want positional then named y", expr.Args)
	}
}

func TestParseBracketIndexAndDoubleBracket(t *testing.T) {
	single := parseOK(t, "x[1]")
	if single.Callee.Symbol != "[" || len(single.Args) != 2 {
		t.Fatalf("Parse(x[1]) = %+v, want [(x, 1)", single)
	}
	double := parseOK(t, "x[[1]]")
	if double.Callee.Symbol != "[[" || len(double.Args) != 2 {
		t.Fatalf("Parse(x[[1]]) = %+v, want [[(x, 1)", double)
	}
}

func TestParseEmptyBracketHasNoIndexArgs(t *testing.T) {
	expr := parseOK(t, "x[]")
	if expr.Callee.Symbol != "[" || len(expr.Args) != 1 {
		t.Fatalf("Parse(x[]) = %+v, want [(x) with no index argument", expr)
	}
}

func TestParseDollarAccess(t *testing.T) {
	expr := parseOK(t, "x$a")
	if expr.Callee.Symbol != "$" || expr.Args[1].Expr.Symbol != "a" {
		t.Fatalf("Parse(x$a) = %+v, want $(x, a)", expr)
	}
}

func TestParseFunctionLiteralWithDefault(t *testing.T) {
	expr := parseOK(t, "function(a, b = 1) a + b")
	if expr.Kind != ExprFunctionLit || len(expr.Formals) != 2 {
		t.Fatalf("Parse(function(a, b = 1) a + b) = %+v", expr)
	}
	if expr.Formals[1].Default == nil || expr.Formals[1].Default.Number != 1 {
		t.Fatal("Parse(function(a, b = 1) ...) must capture b's default of 1")
	}
}

func TestParseIfWithAndWithoutElse(t *testing.T) {
	withElse := parseOK(t, "if (TRUE) 1 else 2")
	if len(withElse.Args) != 3 {
		t.Fatalf("Parse(if (TRUE) 1 else 2) args = %d, want 3", len(withElse.Args))
	}
	noElse := parseOK(t, "if (TRUE) 1")
	if len(noElse.Args) != 2 {
		t.Fatalf("Parse(if (TRUE) 1) args = %d, want 2", len(noElse.Args))
	}
}

func TestParseForLoop(t *testing.T) {
	expr := parseOK(t, "for (i in 1:3) i")
	if expr.Callee.Symbol != "for" || expr.Args[0].Expr.Symbol != "i" {
		t.Fatalf("Parse(for (i in 1:3) i) = %+v", expr)
	}
}

func TestParseWhileLoop(t *testing.T) {
	expr := parseOK(t, "while (TRUE) break")
	if expr.Callee.Symbol != "while" {
		t.Fatalf("Parse(while (TRUE) break) = %+v", expr)
	}
	body := expr.Args[1].Expr
	if body.Kind != ExprBreak {
		t.Fatal("Parse(while (TRUE) break) body must be ExprBreak")
	}
}

func TestParseBlockMultiStatement(t *testing.T) {
	expr := parseOK(t, "{\n1\n2\n}")
	if expr.Callee.Symbol != "{" || len(expr.Args) != 2 {
		t.Fatalf("Parse({1\\n2}) = %+v, want a 2-statement block", expr)
	}
}

func TestParseMultipleTopLevelStatementsWrapInBlock(t *testing.T) {
	expr := parseOK(t, "1\n2\n3")
	if expr.Callee.Symbol != "{" || len(expr.Args) != 3 {
		t.Fatalf("Parse(1\\n2\\n3) = %+v, want a 3-statement block", expr)
	}
}

func TestParseEllipsisLiteral(t *testing.T) {
	expr := parseOK(t, "...")
	if expr.Kind != ExprEllipsis {
		t.Fatalf("Parse(...) = %+v, want ExprEllipsis", expr)
	}
}

func TestParseKeywordLiterals(t *testing.T) {
	cases := map[string]ExprKind{
		"TRUE":  ExprBool,
		"FALSE": ExprBool,
		"NULL":  ExprNull,
		"NA":    ExprNA,
		"Inf":   ExprInf,
	}
	for src, want := range cases {
		expr := parseOK(t, src)
		if expr.Kind != want {
			t.Errorf("Parse(%s).Kind = %v, want %v", src, expr.Kind, want)
		}
	}
}

func TestParseUnterminatedStringIsError(t *testing.T) {
	_, sig := Parse(`"abc`)
	if sig == nil || sig.Kind != SignalError {
		t.Fatal("Parse of an unterminated string literal must error")
	}
}

func TestParseMismatchedParenIsError(t *testing.T) {
	_, sig := Parse("(1 + 2")
	if sig == nil || sig.Kind != SignalError {
		t.Fatal("Parse of a mismatched paren must error")
	}
}

func TestParseNewlinesInsideParensAreInsignificant(t *testing.T) {
	expr := parseOK(t, "f(\n1,\n2\n)")
	if expr.Kind != ExprCall || len(expr.Args) != 2 {
		t.Fatalf("Parse(f(\\n1,\\n2\\n)) = %+v, want a 2-arg call", expr)
	}
}
