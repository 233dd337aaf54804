package symbolic

import (
	"math"
	"strings"
)

// Func is a unary function application.
type Func struct {
	Name string
	Arg  Expr
}

var funcs = map[string]func(float64) float64{
	"abs": math.Abs,
	"sin": math.Sin,
	"cos": math.Cos,
}

// Abs returns |e|.
func Abs(e Expr) Expr { return (&Func{Name: "abs", Arg: e}).Simplify() }

// Sin returns sin(e).
func Sin(e Expr) Expr { return (&Func{Name: "sin", Arg: e}).Simplify() }

// Cos returns cos(e).
func Cos(e Expr) Expr { return (&Func{Name: "cos", Arg: e}).Simplify() }

func (f *Func) Eval(env Env) float64 {
	fn, ok := funcs[f.Name]
	if !ok {
		return math.NaN()
	}
	return fn(f.Arg.Eval(env))
}

func (f *Func) Subs(name string, value Expr) Expr {
	return (&Func{Name: f.Name, Arg: f.Arg.Subs(name, value)}).Simplify()
}

func (f *Func) Round(digits int) Expr {
	return (&Func{Name: f.Name, Arg: f.Arg.Round(digits)}).Simplify()
}

func (f *Func) walk(fn func(Expr)) {
	fn(f)
	f.Arg.walk(fn)
}

func (f *Func) String() string { return f.Name + "(" + f.Arg.String() + ")" }

func (f *Func) Simplify() Expr {
	arg := f.Arg.Simplify()
	if n, ok := arg.(Num); ok {
		if fn, ok := funcs[f.Name]; ok {
			return Num{V: fn(n.V)}
		}
	}
	if f.Name == "abs" {
		if inner, ok := arg.(*Func); ok && inner.Name == "abs" {
			return inner
		}
	}
	return &Func{Name: f.Name, Arg: arg}
}

// Op is a comparison operator used in piecewise conditions.
type Op int

const (
	OpLt Op = iota
	OpLe
	OpGt
	OpGe
)

func (o Op) String() string {
	switch o {
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	}
	return "?"
}

// Cond is a comparison between two expressions.
type Cond struct {
	Op   Op
	L, R Expr
}

// Lt returns the condition l < r.
func Lt(l, r Expr) Cond { return Cond{Op: OpLt, L: l, R: r} }

// Le returns the condition l <= r.
func Le(l, r Expr) Cond { return Cond{Op: OpLe, L: l, R: r} }

// Gt returns the condition l > r.
func Gt(l, r Expr) Cond { return Cond{Op: OpGt, L: l, R: r} }

// Ge returns the condition l >= r.
func Ge(l, r Expr) Cond { return Cond{Op: OpGe, L: l, R: r} }

// Holds evaluates the condition under env.
func (c Cond) Holds(env Env) bool {
	return compare(c.Op, c.L.Eval(env), c.R.Eval(env))
}

func (c Cond) String() string {
	return c.L.String() + " " + c.Op.String() + " " + c.R.String()
}

func (c Cond) simplify() Cond {
	return Cond{Op: c.Op, L: c.L.Simplify(), R: c.R.Simplify()}
}

// constant reports the value of the condition when both sides are numbers.
func (c Cond) constant() (value, ok bool) {
	l, lok := c.L.(Num)
	r, rok := c.R.(Num)
	if !lok || !rok {
		return false, false
	}
	return compare(c.Op, l.V, r.V), true
}

func compare(op Op, l, r float64) bool {
	switch op {
	case OpLt:
		return l < r
	case OpLe:
		return l <= r
	case OpGt:
		return l > r
	case OpGe:
		return l >= r
	}
	return false
}

// Case is one branch of a Piecewise expression.
type Case struct {
	When Cond
	Then Expr
}

// When returns a piecewise branch.
func When(cond Cond, then Expr) Case { return Case{When: cond, Then: then} }

// Piecewise evaluates to the value of the first case whose condition holds,
// or Otherwise when none does.
type Piecewise struct {
	Cases     []Case
	Otherwise Expr
}

// NewPiecewise returns a simplified piecewise expression.
func NewPiecewise(otherwise Expr, cases ...Case) Expr {
	return (&Piecewise{Cases: cases, Otherwise: otherwise}).Simplify()
}

func (p *Piecewise) Eval(env Env) float64 {
	for _, c := range p.Cases {
		if c.When.Holds(env) {
			return c.Then.Eval(env)
		}
	}
	return p.Otherwise.Eval(env)
}

func (p *Piecewise) Subs(name string, value Expr) Expr {
	return p.mapExprs(func(e Expr) Expr { return e.Subs(name, value) }, true)
}

// Round rounds the branch values but not the conditions, which carry the
// geometry of the charge.
func (p *Piecewise) Round(digits int) Expr {
	return p.mapExprs(func(e Expr) Expr { return e.Round(digits) }, false)
}

func (p *Piecewise) mapExprs(fn func(Expr) Expr, conds bool) Expr {
	cases := make([]Case, len(p.Cases))
	for i, c := range p.Cases {
		when := c.When
		if conds {
			when = Cond{Op: when.Op, L: fn(when.L), R: fn(when.R)}
		}
		cases[i] = Case{When: when, Then: fn(c.Then)}
	}
	return NewPiecewise(fn(p.Otherwise), cases...)
}

func (p *Piecewise) walk(fn func(Expr)) {
	fn(p)
	for _, c := range p.Cases {
		c.When.L.walk(fn)
		c.When.R.walk(fn)
		c.Then.walk(fn)
	}
	p.Otherwise.walk(fn)
}

func (p *Piecewise) String() string {
	var b strings.Builder
	b.WriteString("Piecewise(")
	for _, c := range p.Cases {
		b.WriteString("(")
		b.WriteString(c.Then.String())
		b.WriteString(", ")
		b.WriteString(c.When.String())
		b.WriteString("), ")
	}
	b.WriteString("(")
	b.WriteString(p.Otherwise.String())
	b.WriteString(", otherwise))")
	return b.String()
}

// Simplify drops branches whose condition is constantly false and cuts the
// list at the first branch that is constantly true.
func (p *Piecewise) Simplify() Expr {
	cases := make([]Case, 0, len(p.Cases))
	otherwise := p.Otherwise.Simplify()
	for _, c := range p.Cases {
		when := c.When.simplify()
		then := c.Then.Simplify()
		if v, ok := when.constant(); ok {
			if !v {
				continue
			}
			otherwise = then
			break
		}
		cases = append(cases, Case{When: when, Then: then})
	}
	if len(cases) == 0 {
		return otherwise
	}
	return &Piecewise{Cases: cases, Otherwise: otherwise}
}
