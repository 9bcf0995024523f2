package aberth

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/matzehuels/aberth/pkg/poly"
)

// Bounds returns the radii of the annulus that contains every root of p:
//
//	outer = 1 + max|p[1..n-1]| / |p[0]|
//	inner = |p[n]| / (|p[n]| + max|p[1..n-1]|)
//
// inner is 0 when both the constant term and the interior coefficients
// vanish. p must be valid.
func Bounds(p poly.Polynomial) (inner, outer float64) {
	n := p.Degree()

	var maxMiddle float64
	for i := 1; i < n; i++ {
		maxMiddle = math.Max(maxMiddle, cmplx.Abs(p[i]))
	}

	outer = 1 + maxMiddle/cmplx.Abs(p.Leading())

	c := cmplx.Abs(p.Constant())
	if c+maxMiddle > 0 {
		inner = c / (c + maxMiddle)
	}
	return inner, outer
}

// InitialGuesses places one starting estimate per root at a uniformly random
// radius in [inner, outer] and a uniformly random angle in [0, 2π).
//
// r is the only source of non-determinism in a solve; pass a seeded source to
// get reproducible results.
func InitialGuesses(p poly.Polynomial, r *rand.Rand) []complex128 {
	n := p.Degree()
	if n < 1 {
		return nil
	}
	inner, outer := Bounds(p)

	guesses := make([]complex128, n)
	for i := range guesses {
		radius := inner + r.Float64()*(outer-inner)
		angle := r.Float64() * 2 * math.Pi
		guesses[i] = cmplx.Rect(radius, angle)
	}
	return guesses
}

// newRand returns a PCG source seeded from seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
