package interp

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"
)

const (
	printWidth     = 80
	printMaxRows   = 20
	printIndexPad  = 2
)

func modeLabel(m Mode) string {
	switch m {
	case ModeLogical:
		return "logical"
	case ModeInteger:
		return "integer"
	case ModeDouble:
		return "double"
	case ModeCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// FormatVector renders v per §6.4: an R-style indexed listing wrapping
// at 80 columns, 1-origin bracketed index prefixes, and named vectors
// printed with names on even lines, values on odd. Empty vectors print
// as "<type>(n)"; long vectors are truncated with an omission footer.
func FormatVector(v *Vector) string {
	n := v.Len()
	if n == 0 {
		return fmt.Sprintf("%s(0)", modeLabel(v.Mode))
	}

	vals := v.IterValues()
	strs := make([]string, len(vals))
	width := 0
	for i, s := range vals {
		strs[i] = s.String()
		if len(strs[i]) > width {
			width = len(strs[i])
		}
	}

	shown := n
	truncated := false
	if n > printMaxRows {
		perLine := rowCapacity(width)
		shown = printMaxRows * perLine
		if shown >= n {
			shown = n
		} else {
			truncated = true
		}
	}

	if v.naming != nil {
		return formatNamedVector(strs[:shown], v.Names()[:shown], width, n, shown, truncated)
	}
	return formatPlainVector(strs[:shown], width, n, shown, truncated)
}

func rowCapacity(width int) int {
	cell := width + 1
	idxWidth := 8
	cap := (printWidth - idxWidth) / cell
	if cap < 1 {
		cap = 1
	}
	return cap
}

func formatPlainVector(strs []string, width, total, shown int, truncated bool) string {
	perLine := rowCapacity(width)
	var b strings.Builder
	for start := 0; start < len(strs); start += perLine {
		end := start + perLine
		if end > len(strs) {
			end = len(strs)
		}
		b.WriteString(fmt.Sprintf("[%d] ", start+1))
		row := make([]string, end-start)
		for i, s := range strs[start:end] {
			row[i] = padLeft(s, width)
		}
		b.WriteString(strings.Join(row, " "))
		b.WriteString("\n")
	}
	if truncated {
		b.WriteString(fmt.Sprintf("[ omitting %s entries ]\n", humanize.Comma(int64(total-shown))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNamedVector(strs []string, names []Character, width, total, shown int, truncated bool) string {
	nameWidth := width
	for _, nm := range names {
		s := nm.String()
		if len(s) > nameWidth {
			nameWidth = len(s)
		}
	}
	perLine := rowCapacity(nameWidth)
	var b strings.Builder
	for start := 0; start < len(strs); start += perLine {
		end := start + perLine
		if end > len(strs) {
			end = len(strs)
		}
		nameRow := make([]string, end-start)
		valRow := make([]string, end-start)
		for i := start; i < end; i++ {
			nameRow[i-start] = padLeft(names[i].String(), nameWidth)
			valRow[i-start] = padLeft(strs[i], nameWidth)
		}
		b.WriteString(strings.Join(nameRow, " "))
		b.WriteString("\n")
		b.WriteString(strings.Join(valRow, " "))
		b.WriteString("\n")
	}
	if truncated {
		b.WriteString(fmt.Sprintf("[ omitting %s entries ]\n", humanize.Comma(int64(total-shown))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// FormatList renders l per §6.4: hierarchical breadcrumbs ($name or
// [[index]]) followed by the recursive printing of each element.
func FormatList(l *List, prefix string) string {
	mat := l.Materialize()
	backing := mat.data.Borrow()
	if len(backing) == 0 {
		return "list()"
	}
	names := mat.Names()
	var b strings.Builder
	for i, elem := range backing {
		var breadcrumb string
		if names != nil && i < len(names) && !names[i].IsNA() && names[i].Value != "" {
			breadcrumb = fmt.Sprintf("%s$%s", prefix, names[i].Value)
		} else {
			breadcrumb = fmt.Sprintf("%s[[%d]]", prefix, i+1)
		}
		b.WriteString(breadcrumb)
		b.WriteString("\n")
		if nested, ok := elem.(*List); ok {
			b.WriteString(FormatList(nested, breadcrumb))
		} else {
			b.WriteString(elem.String())
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatFunction renders f per §6.4: "function(<formals>) <body>"; a
// builtin-backed function prints its body as a .Primitive reference.
func FormatFunction(f *Function) string {
	var formals []string
	for _, fl := range f.Formals {
		if fl.Ellipsis {
			formals = append(formals, "...")
			continue
		}
		if fl.Default != nil {
			formals = append(formals, fmt.Sprintf("%s = %s", fl.Name, FormatExpression(fl.Default)))
		} else {
			formals = append(formals, fl.Name)
		}
	}
	sig := fmt.Sprintf("function(%s)", strings.Join(formals, ", "))
	if f.Builtin != nil {
		return fmt.Sprintf("%s .Primitive(%q)", sig, f.Builtin.Symbol())
	}
	return fmt.Sprintf("%s %s", sig, FormatExpression(f.Body))
}

// FormatExpression renders an Expression in a readable surface-syntax
// approximation, used for error/backtrace display, function printing,
// and deparse-like builtins (print, substitute).
func FormatExpression(e *Expression) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ExprNull:
		return "NULL"
	case ExprNA:
		return "NA"
	case ExprInf:
		return "Inf"
	case ExprMissing:
		return ""
	case ExprBreak:
		return "break"
	case ExprContinue:
		return "continue"
	case ExprEllipsis:
		if e.EllipsisName != "" {
			return "..." + e.EllipsisName
		}
		return "..."
	case ExprBool:
		if e.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ExprNumber:
		return Double(e.Number).String()
	case ExprInteger:
		return Integer(e.Integer).String() + "L"
	case ExprString:
		return fmt.Sprintf("%q", e.Str)
	case ExprSymbol:
		return e.Symbol
	case ExprList:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = FormatExpression(a.Expr)
		}
		return strings.Join(parts, "; ")
	case ExprFunctionLit:
		formals := make([]string, len(e.Formals))
		for i, f := range e.Formals {
			if f.Ellipsis {
				formals[i] = "..."
			} else {
				formals[i] = f.Name
			}
		}
		return fmt.Sprintf("function(%s) %s", strings.Join(formals, ", "), FormatExpression(e.Body))
	case ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			if a.Name != "" {
				args[i] = a.Name + " = " + FormatExpression(a.Expr)
			} else {
				args[i] = FormatExpression(a.Expr)
			}
		}
		return fmt.Sprintf("%s(%s)", FormatExpression(e.Callee), strings.Join(args, ", "))
	case ExprPrimitive:
		if e.Primitive != nil {
			return fmt.Sprintf(".Primitive(%q)", e.Primitive.Symbol())
		}
		return ".Primitive(?)"
	}
	return "<?>"
}

// FormatError renders a Signal's error form per §7: "Error: <message>"
// followed by a backtrace line per unpopped frame, innermost first.
func FormatError(sig *Signal) string {
	if sig == nil || sig.Kind != SignalError {
		return ""
	}
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(sig.Err.Message)
	frames := sig.CallStack()
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		call := "<top level>"
		if f.Call != nil {
			call = FormatExpression(f.Call)
		}
		b.WriteString(fmt.Sprintf("\n%d: %s %s", len(frames)-i, call, f.Env))
	}
	return b.String()
}

// FormatCallStack renders frames as numbered call lines, each followed by
// a kr/pretty dump of the frame's environment. Nothing in this package
// calls it; the callstack() builtin returns call expressions instead.
func FormatCallStack(frames []Frame) string {
	var b strings.Builder
	for i, f := range frames {
		call := "<top level>"
		if f.Call != nil {
			call = FormatExpression(f.Call)
		}
		b.WriteString(fmt.Sprintf("%d: %s\n", i, call))
		b.WriteString(pretty.Sprint(f.Env))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
