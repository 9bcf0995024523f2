package aberth

import (
	"math/cmplx"

	"github.com/matzehuels/aberth/pkg/poly"
)

// Step is the outcome of the correction kernel for one root estimate.
type Step struct {
	// Delta is subtracted from the estimate.
	Delta complex128

	// Converged is set when |Delta| <= tolerance and no collision occurred.
	Converged bool

	// Collided is set when another estimate coincided numerically with this
	// one. The offending terms were left out of the repulsion sum.
	Collided bool
}

// Correction computes the Aberth–Ehrlich correction for roots[i]:
//
//	alpha = p(z) / p'(z)
//	beta  = Σ_{j≠i} 1 / (z - roots[j])
//	delta = alpha / (1 - alpha*beta)
//
// Guards: alpha is 0 where p'(z) vanishes, delta falls back to alpha when the
// denominator vanishes, and coinciding estimates are skipped in beta.
//
// Correction only reads roots. It is safe to call concurrently for different
// i against the same slice as long as nothing writes to it.
func Correction(p, dp poly.Polynomial, roots []complex128, i int, tol float64) Step {
	z := roots[i]

	var alpha complex128
	if dv := dp.Eval(z); !poly.IsZero(dv) {
		alpha = p.Eval(z) / dv
	}

	var (
		beta     complex128
		collided bool
	)
	for j, w := range roots {
		if j == i {
			continue
		}
		diff := z - w
		if poly.IsZero(diff) {
			collided = true
			continue
		}
		beta += 1 / diff
	}

	delta := alpha
	if den := 1 - alpha*beta; !poly.IsZero(den) {
		delta = alpha / den
	}

	return Step{
		Delta:     delta,
		Converged: !collided && cmplx.Abs(delta) <= tol,
		Collided:  collided,
	}
}
