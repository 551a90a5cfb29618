// Package poly implements the 𝔽_p[X] arithmetic the aggregated-opening,
// equality, and accumulator-witness constructions need: addition, scalar
// multiplication, schoolbook multiplication, and exact division by a
// degree-1 divisor. Coefficients are indexed by degree, coefficient 0 first
// — a plain []*pairing.Scalar, never a floating-point or numpy-style
// representation.
package poly

import (
	"fmt"

	"github.com/Alfred-hhy/streamCommit/internal/pairing"
)

// Poly is a polynomial over 𝔽_p, coefficients ascending by degree:
// Poly[k] is the coefficient of X^k. A nil or empty Poly is the zero
// polynomial.
type Poly []*pairing.Scalar

// Zero returns the zero polynomial.
func Zero() Poly { return Poly{} }

// Const returns the constant polynomial c.
func Const(c *pairing.Scalar) Poly {
	return Poly{pairing.ReduceScalar(c)}
}

// Monomial returns coeff * X^degree.
func Monomial(degree int, coeff *pairing.Scalar) Poly {
	p := make(Poly, degree+1)
	for i := range p {
		p[i] = zero()
	}
	p[degree] = pairing.ReduceScalar(coeff)
	return p
}

// Degree returns the degree of p, or -1 for the zero polynomial. Trailing
// zero coefficients are ignored.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// Trim drops trailing zero coefficients, returning a new slice of minimal
// length (Zero() if p is identically zero).
func (p Poly) Trim() Poly {
	d := p.Degree()
	if d < 0 {
		return Zero()
	}
	out := make(Poly, d+1)
	copy(out, p[:d+1])
	return out
}

// Coeff returns the coefficient of X^k, or zero if k exceeds p's stored
// length.
func (p Poly) Coeff(k int) *pairing.Scalar {
	if k < 0 || k >= len(p) {
		return zero()
	}
	return p[k]
}

// Add returns a + b.
func Add(a, b Poly) Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		out[i] = pairing.AddScalar(a.Coeff(i), b.Coeff(i))
	}
	return out.Trim()
}

// Sub returns a - b.
func Sub(a, b Poly) Poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		out[i] = pairing.SubScalar(a.Coeff(i), b.Coeff(i))
	}
	return out.Trim()
}

// ScalarMul returns c * p.
func ScalarMul(c *pairing.Scalar, p Poly) Poly {
	out := make(Poly, len(p))
	for i, v := range p {
		out[i] = pairing.MulScalar(c, v)
	}
	return out.Trim()
}

// ShiftUp returns p * X^k, prepending k zero coefficients.
func ShiftUp(p Poly, k int) Poly {
	if len(p) == 0 {
		return Zero()
	}
	out := make(Poly, len(p)+k)
	for i := 0; i < k; i++ {
		out[i] = zero()
	}
	copy(out[k:], p)
	return out
}

// Mul returns a * b via schoolbook multiplication, acceptable per spec.md
// §4.5 for the dimensions this module operates at (n <= 64); an NTT-based
// replacement is a permitted but unneeded optimisation here.
func Mul(a, b Poly) Poly {
	da, db := a.Degree(), b.Degree()
	if da < 0 || db < 0 {
		return Zero()
	}
	out := make(Poly, da+db+1)
	for i := range out {
		out[i] = zero()
	}
	for i := 0; i <= da; i++ {
		if a[i].Sign() == 0 {
			continue
		}
		for j := 0; j <= db; j++ {
			term := pairing.MulScalar(a[i], b[j])
			out[i+j] = pairing.AddScalar(out[i+j], term)
		}
	}
	return out.Trim()
}

// Eval evaluates p(x) via Horner's method, used by this package's tests to
// cross-check Mul and ShiftUp against direct evaluation mod p.
func (p Poly) Eval(x *pairing.Scalar) *pairing.Scalar {
	acc := zero()
	for i := len(p) - 1; i >= 0; i-- {
		acc = pairing.AddScalar(pairing.MulScalar(acc, x), p[i])
	}
	return acc
}

// DivByLinear divides p exactly by (X + y), returning the quotient. It
// panics if the division is not exact (p(-y) != 0) — the accumulator
// witness construction (spec.md §4.8) only ever calls this on polynomials
// constructed to vanish at -y, so a nonzero remainder means a caller bug,
// not a recoverable runtime condition.
func DivByLinear(p Poly, y *pairing.Scalar) Poly {
	d := p.Degree()
	if d < 0 {
		return Zero()
	}
	// Synthetic division by (X - r) where r = -y.
	r := pairing.NegScalar(y)
	quotient := make(Poly, d)
	carry := zero()
	for i := d; i >= 1; i-- {
		coeff := pairing.AddScalar(p.Coeff(i), carry)
		quotient[i-1] = coeff
		carry = pairing.MulScalar(coeff, r)
	}
	remainder := pairing.AddScalar(p.Coeff(0), carry)
	if remainder.Sign() != 0 {
		panic(fmt.Errorf("poly: division by (X + %v) is not exact, remainder %v", y, remainder))
	}
	return quotient.Trim()
}

func zero() *pairing.Scalar {
	var z pairing.Scalar
	return &z
}
