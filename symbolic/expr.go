// Package symbolic provides a small expression tree for displaying electric
// field equations.
//
// Expressions are immutable. Every constructor returns a simplified tree:
// nested sums and products are flattened, numeric constants are folded,
// identities (x+0, x*1, x^1, x^0) are dropped and like terms are merged.
// Simplification is rule-based, not canonical; it is meant to keep the
// printed equations short, not to prove identities.
//
// Expressions evaluate to float64 under an [Env] binding symbol names to
// values. Unbound symbols evaluate to NaN.
package symbolic

import (
	"math"
	"sort"
	"strconv"
)

// Env binds symbol names to values for Eval.
type Env map[string]float64

// Expr is a node of an expression tree.
type Expr interface {
	// Eval evaluates the expression under env.
	Eval(env Env) float64

	// Simplify returns a simplified copy of the expression.
	Simplify() Expr

	// Subs replaces every occurrence of the named symbol with value.
	Subs(name string, value Expr) Expr

	// Round rounds every numeric constant to the given number of decimal
	// places. Negative digits leave the expression unchanged.
	Round(digits int) Expr

	// String returns a plain infix rendering such as "k*q/(x^2 + y^2)".
	String() string

	walk(fn func(Expr))
}

// Operator precedence used when printing.
const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

// Num is a numeric constant.
type Num struct {
	V float64
}

// N returns a numeric constant.
func N(v float64) Expr { return Num{V: v} }

func (n Num) Eval(Env) float64       { return n.V }
func (n Num) Simplify() Expr         { return n }
func (n Num) Subs(string, Expr) Expr { return n }
func (n Num) Round(digits int) Expr  { return Num{V: roundTo(n.V, digits)} }
func (n Num) String() string         { return formatNum(n.V) }
func (n Num) walk(fn func(Expr))     { fn(n) }

// Sym is a free symbol.
type Sym struct {
	Name string
}

// S returns a symbol.
func S(name string) Expr { return Sym{Name: name} }

func (s Sym) Simplify() Expr     { return s }
func (s Sym) Round(int) Expr     { return s }
func (s Sym) String() string     { return s.Name }
func (s Sym) walk(fn func(Expr)) { fn(s) }

func (s Sym) Eval(env Env) float64 {
	v, ok := env[s.Name]
	if !ok {
		return math.NaN()
	}
	return v
}

func (s Sym) Subs(name string, value Expr) Expr {
	if s.Name == name {
		return value
	}
	return s
}

// Symbols returns the sorted names of the free symbols in e.
func Symbols(e Expr) []string {
	seen := map[string]struct{}{}
	e.walk(func(n Expr) {
		if s, ok := n.(Sym); ok {
			seen[s.Name] = struct{}{}
		}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether a and b print identically after simplification.
func Equal(a, b Expr) bool {
	return a.Simplify().String() == b.Simplify().String()
}

// IsZero reports whether e simplifies to the constant 0.
func IsZero(e Expr) bool {
	n, ok := e.Simplify().(Num)
	return ok && n.V == 0
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func roundTo(v float64, digits int) float64 {
	if digits < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(digits))
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func precedence(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		return precMul
	case *Pow:
		return precPow
	case Num:
		if v.V < 0 {
			return precAdd
		}
	}
	return precAtom
}

// wrap prints e, parenthesised when it binds looser than prec.
func wrap(e Expr, prec int) string {
	s := e.String()
	if precedence(e) < prec {
		return "(" + s + ")"
	}
	return s
}
