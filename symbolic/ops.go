package symbolic

import (
	"math"
	"strings"
)

// Add is a sum of terms.
type Add struct {
	Terms []Expr
}

// Sum returns the simplified sum of terms.
func Sum(terms ...Expr) Expr { return (&Add{Terms: terms}).Simplify() }

// Neg returns -e.
func Neg(e Expr) Expr { return Product(N(-1), e) }

// Diff returns a - b.
func Diff(a, b Expr) Expr { return Sum(a, Neg(b)) }

func (a *Add) Eval(env Env) float64 {
	total := 0.0
	for _, t := range a.Terms {
		total += t.Eval(env)
	}
	return total
}

func (a *Add) Subs(name string, value Expr) Expr {
	terms := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = t.Subs(name, value)
	}
	return Sum(terms...)
}

func (a *Add) Round(digits int) Expr {
	terms := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = t.Round(digits)
	}
	return Sum(terms...)
}

func (a *Add) walk(fn func(Expr)) {
	fn(a)
	for _, t := range a.Terms {
		t.walk(fn)
	}
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		s := wrap(t, precAdd)
		if i == 0 {
			b.WriteString(s)
			continue
		}
		if rest, ok := strings.CutPrefix(s, "-"); ok {
			b.WriteString(" - ")
			b.WriteString(rest)
		} else {
			b.WriteString(" + ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// Simplify flattens nested sums, folds constants and merges like terms.
// The constant term, if any, is placed last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.Terms))
	for _, t := range a.Terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.Terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff float64
		base  Expr
	}
	constant := 0.0
	order := []string{}
	terms := map[string]*like{}
	for _, t := range flat {
		if n, ok := t.(Num); ok {
			constant += n.V
			continue
		}
		coeff, base := splitCoeff(t)
		key := base.String()
		if l, ok := terms[key]; ok {
			l.coeff += coeff
			continue
		}
		terms[key] = &like{coeff: coeff, base: base}
		order = append(order, key)
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		l := terms[key]
		if l.coeff == 0 {
			continue
		}
		out = append(out, scale(l.coeff, l.base))
	}
	if constant != 0 {
		out = append(out, Num{V: constant})
	}

	switch len(out) {
	case 0:
		return Num{V: 0}
	case 1:
		return out[0]
	}
	return &Add{Terms: out}
}

// splitCoeff splits a simplified term into its numeric coefficient and the
// remaining factors.
func splitCoeff(e Expr) (float64, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return 1, e
	}
	n, ok := m.Factors[0].(Num)
	if !ok {
		return 1, e
	}
	rest := m.Factors[1:]
	if len(rest) == 1 {
		return n.V, rest[0]
	}
	return n.V, &Mul{Factors: rest}
}

// scale multiplies an already simplified, coefficient-free base by c.
func scale(c float64, base Expr) Expr {
	if c == 1 {
		return base
	}
	if m, ok := base.(*Mul); ok {
		factors := make([]Expr, 0, len(m.Factors)+1)
		factors = append(factors, Num{V: c})
		factors = append(factors, m.Factors...)
		return &Mul{Factors: factors}
	}
	return &Mul{Factors: []Expr{Num{V: c}, base}}
}

// Mul is a product of factors. A numeric coefficient, if present, is the
// first factor.
type Mul struct {
	Factors []Expr
}

// Product returns the simplified product of factors.
func Product(factors ...Expr) Expr { return (&Mul{Factors: factors}).Simplify() }

// Quo returns a / b.
func Quo(a, b Expr) Expr { return Product(a, Power(b, N(-1))) }

func (m *Mul) Eval(env Env) float64 {
	total := 1.0
	for _, f := range m.Factors {
		total *= f.Eval(env)
	}
	return total
}

func (m *Mul) Subs(name string, value Expr) Expr {
	factors := make([]Expr, len(m.Factors))
	for i, f := range m.Factors {
		factors[i] = f.Subs(name, value)
	}
	return Product(factors...)
}

func (m *Mul) Round(digits int) Expr {
	factors := make([]Expr, len(m.Factors))
	for i, f := range m.Factors {
		factors[i] = f.Round(digits)
	}
	return Product(factors...)
}

func (m *Mul) walk(fn func(Expr)) {
	fn(m)
	for _, f := range m.Factors {
		f.walk(fn)
	}
}

// String prints factors with negative numeric exponents as a denominator.
func (m *Mul) String() string {
	var num, den []string
	sign := ""
	for i, f := range m.Factors {
		if n, ok := f.(Num); ok && i == 0 {
			switch {
			case n.V == -1:
				sign = "-"
			case n.V < 0:
				sign = "-"
				num = append(num, formatNum(-n.V))
			default:
				num = append(num, formatNum(n.V))
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.Exp.(Num); ok && e.V < 0 {
				den = append(den, wrap(Power(p.Base, Num{V: -e.V}), precMul+1))
				continue
			}
		}
		num = append(num, wrap(f, precMul))
	}

	numerator := "1"
	if len(num) > 0 {
		numerator = strings.Join(num, "*")
	}
	if len(den) == 0 {
		return sign + numerator
	}
	denominator := strings.Join(den, "*")
	if len(den) > 1 {
		denominator = "(" + denominator + ")"
	}
	return sign + numerator + "/" + denominator
}

// Simplify flattens nested products, folds numeric factors and merges equal
// bases by adding their exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.Factors))
	for _, f := range m.Factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.Factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		base Expr
		exp  Expr
	}
	coeff := 1.0
	order := []string{}
	powers := map[string]*power{}
	for _, f := range flat {
		if n, ok := f.(Num); ok {
			coeff *= n.V
			continue
		}
		base, exp := f, Expr(Num{V: 1})
		if p, ok := f.(*Pow); ok {
			base, exp = p.Base, p.Exp
		}
		key := base.String()
		if p, ok := powers[key]; ok {
			p.exp = Sum(p.exp, exp)
			continue
		}
		powers[key] = &power{base: base, exp: exp}
		order = append(order, key)
	}
	if coeff == 0 {
		return Num{V: 0}
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		p := powers[key]
		e := Power(p.base, p.exp)
		if n, ok := e.(Num); ok {
			coeff *= n.V
			continue
		}
		out = append(out, e)
	}
	if coeff == 0 {
		return Num{V: 0}
	}
	if coeff != 1 || len(out) == 0 {
		out = append([]Expr{Num{V: coeff}}, out...)
	}
	if len(out) == 1 {
		return out[0]
	}
	return &Mul{Factors: out}
}

// Pow is base raised to exp.
type Pow struct {
	Base Expr
	Exp  Expr
}

// Power returns the simplified base^exp.
func Power(base, exp Expr) Expr { return (&Pow{Base: base, Exp: exp}).Simplify() }

// Sqrt returns e^(1/2).
func Sqrt(e Expr) Expr { return Power(e, N(0.5)) }

func (p *Pow) Eval(env Env) float64 {
	return math.Pow(p.Base.Eval(env), p.Exp.Eval(env))
}

func (p *Pow) Subs(name string, value Expr) Expr {
	return Power(p.Base.Subs(name, value), p.Exp.Subs(name, value))
}

// Round leaves the exponent alone so that rounding never changes the
// structure of the equation.
func (p *Pow) Round(digits int) Expr {
	return Power(p.Base.Round(digits), p.Exp)
}

func (p *Pow) walk(fn func(Expr)) {
	fn(p)
	p.Base.walk(fn)
	p.Exp.walk(fn)
}

func (p *Pow) String() string {
	if e, ok := p.Exp.(Num); ok {
		switch {
		case e.V == 0.5:
			return "sqrt(" + p.Base.String() + ")"
		case e.V < 0:
			return "1/" + wrap(Power(p.Base, Num{V: -e.V}), precMul+1)
		}
	}
	return wrap(p.Base, precPow+1) + "^" + wrap(p.Exp, precAtom)
}

func (p *Pow) Simplify() Expr {
	base := p.Base.Simplify()
	exp := p.Exp.Simplify()

	if e, ok := exp.(Num); ok {
		switch e.V {
		case 0:
			return Num{V: 1}
		case 1:
			return base
		}
		if b, ok := base.(Num); ok {
			if v := math.Pow(b.V, e.V); isFinite(v) {
				return Num{V: v}
			}
		}
		// (b^m)^n = b^(m*n) holds for integer n.
		if inner, ok := base.(*Pow); ok && e.V == math.Trunc(e.V) {
			if m, ok := inner.Exp.(Num); ok {
				return Power(inner.Base, Num{V: m.V * e.V})
			}
		}
	}
	if b, ok := base.(Num); ok && b.V == 1 {
		return Num{V: 1}
	}
	return &Pow{Base: base, Exp: exp}
}
