package poly

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/matzehuels/aberth/pkg/errors"
)

// Epsilon is the magnitude below which a complex value is treated as zero.
// It absorbs floating-point round-off in divisors and leading coefficients.
const Epsilon = 1e-14

// IsZero reports whether z is numerically zero.
func IsZero(z complex128) bool {
	return cmplx.Abs(z) < Epsilon
}

// Polynomial holds complex coefficients ordered from the highest power down to
// the constant term: p[0]*x^n + p[1]*x^(n-1) + ... + p[n].
//
// A Polynomial is treated as immutable once handed to the solver.
type Polynomial []complex128

// New returns a polynomial with a private copy of coeffs.
func New(coeffs ...complex128) Polynomial {
	p := make(Polynomial, len(coeffs))
	copy(p, coeffs)
	return p
}

// Real builds a polynomial from real coefficients.
func Real(coeffs ...float64) Polynomial {
	p := make(Polynomial, len(coeffs))
	for i, c := range coeffs {
		p[i] = complex(c, 0)
	}
	return p
}

// Degree returns the degree of p, or -1 for an empty polynomial.
func (p Polynomial) Degree() int {
	return len(p) - 1
}

// Leading returns the coefficient of the highest power.
func (p Polynomial) Leading() complex128 {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

// Constant returns the constant term.
func (p Polynomial) Constant() complex128 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// Validate checks that p has degree at least one, a non-zero leading
// coefficient and only finite coefficients. A zero leading coefficient is
// rejected rather than silently treated as a lower-degree polynomial.
func (p Polynomial) Validate() error {
	if err := errors.ValidateDegree(p.Degree()); err != nil {
		return err
	}
	if IsZero(p[0]) {
		return errors.New(errors.ErrCodeInvalidPolynomial,
			"leading coefficient %s is numerically zero", FormatComplex(p[0]))
	}
	for i, c := range p {
		if err := errors.ValidateFinite(real(c), imag(c)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPolynomial, err, "coefficient %d", i)
		}
	}
	return nil
}

// Eval evaluates p at x with Horner's method.
func (p Polynomial) Eval(x complex128) complex128 {
	var result complex128
	for _, c := range p {
		result = result*x + c
	}
	return result
}

// Derivative returns p'. Coefficient i of the result is p[i]*(n-i).
// The derivative of a constant is the empty polynomial.
func (p Polynomial) Derivative() Polynomial {
	n := p.Degree()
	if n < 1 {
		return Polynomial{}
	}
	d := make(Polynomial, n)
	for i := 0; i < n; i++ {
		d[i] = p[i] * complex(float64(n-i), 0)
	}
	return d
}

// Residual returns |p(x)|.
func (p Polynomial) Residual(x complex128) float64 {
	return cmplx.Abs(p.Eval(x))
}

// Scale returns the largest coefficient magnitude, used to judge residuals.
func (p Polynomial) Scale() float64 {
	var m float64
	for _, c := range p {
		m = math.Max(m, cmplx.Abs(c))
	}
	return m
}

// FromRoots expands lead * (x - r0)(x - r1)...(x - rk).
func FromRoots(lead complex128, roots ...complex128) Polynomial {
	p := Polynomial{lead}
	for _, r := range roots {
		next := make(Polynomial, len(p)+1)
		for i, c := range p {
			next[i] += c
			next[i+1] -= c * r
		}
		p = next
	}
	return p
}

// Random returns a degree-n polynomial with real coefficients drawn
// uniformly from [0, 1). The leading coefficient is redrawn until it is not
// numerically zero.
func Random(r *rand.Rand, degree int) Polynomial {
	if degree < 0 {
		return Polynomial{}
	}
	p := make(Polynomial, degree+1)
	for i := range p {
		p[i] = complex(r.Float64(), 0)
	}
	for IsZero(p[0]) {
		p[0] = complex(r.Float64(), 0)
	}
	return p
}

// String renders p in conventional notation, e.g. "x^4 - 5x^2 + 4".
func (p Polynomial) String() string {
	n := p.Degree()
	if n < 0 {
		return "0"
	}

	var b strings.Builder
	for i, c := range p {
		if c == 0 {
			continue
		}
		power := n - i
		neg := imag(c) == 0 && real(c) < 0

		switch {
		case b.Len() == 0 && neg:
			b.WriteString("-")
		case b.Len() > 0 && neg:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}

		mag := c
		if neg {
			mag = -c
		}
		if mag != 1 || power == 0 {
			if imag(mag) != 0 && real(mag) != 0 {
				b.WriteString("(" + FormatComplex(mag) + ")")
			} else {
				b.WriteString(FormatComplex(mag))
			}
		}

		switch {
		case power > 1:
			b.WriteString("x^" + strconv.Itoa(power))
		case power == 1:
			b.WriteString("x")
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// FormatComplex renders z compactly: "3", "-2i", "1.5-0.25i".
func FormatComplex(z complex128) string {
	re, im := real(z), imag(z)
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch {
	case im == 0:
		return f(re)
	case re == 0:
		return f(im) + "i"
	case im < 0:
		return f(re) + f(im) + "i"
	default:
		return f(re) + "+" + f(im) + "i"
	}
}
