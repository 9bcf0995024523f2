package aberth

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/aberth/pkg/poly"
)

func TestCorrectionAtRootConverges(t *testing.T) {
	p := poly.Real(1, 0, -5, 0, 4)
	roots := []complex128{1, -1, 2, -2}

	for i := range roots {
		st := Correction(p, p.Derivative(), roots, i, 1e-12)
		assert.Zero(t, st.Delta, "root %d", i)
		assert.True(t, st.Converged, "root %d", i)
		assert.False(t, st.Collided, "root %d", i)
	}
}

func TestCorrectionMatchesFormula(t *testing.T) {
	p := poly.Real(1, 0, -5, 0, 4)
	dp := p.Derivative()
	roots := []complex128{0.5 + 0.1i, -1.2, 2.3 - 0.2i, -1.9 + 0.3i}

	z := roots[0]
	alpha := p.Eval(z) / dp.Eval(z)
	var beta complex128
	for _, w := range roots[1:] {
		beta += 1 / (z - w)
	}
	want := alpha / (1 - alpha*beta)

	st := Correction(p, dp, roots, 0, 1e-15)
	assert.Equal(t, want, st.Delta)
	assert.False(t, st.Converged)
}

func TestCorrectionZeroDerivative(t *testing.T) {
	// p = x^2 - 1 has a stationary point at 0.
	p := poly.Real(1, 0, -1)
	st := Correction(p, p.Derivative(), []complex128{0, 5}, 0, 1e-15)

	assert.Zero(t, st.Delta, "alpha must fall back to zero")
	assert.True(t, st.Converged)
	assert.False(t, st.Collided)
}

func TestCorrectionZeroDenominator(t *testing.T) {
	// p = x^2 at z=2 with the other estimate at 1: alpha = 1, beta = 1.
	p := poly.Real(1, 0, 0)
	st := Correction(p, p.Derivative(), []complex128{2, 1}, 0, 1e-15)

	assert.Equal(t, complex128(1), st.Delta, "delta must fall back to alpha")
	assert.False(t, st.Converged)
}

func TestCorrectionCollision(t *testing.T) {
	p := poly.FromRoots(1, 1, 2, 3)
	roots := []complex128{1, 1, 3}

	st := Correction(p, p.Derivative(), roots, 0, 1e-12)
	require.True(t, st.Collided)
	assert.False(t, st.Converged, "a collided estimate is never converged")
	assert.False(t, cmplx.IsNaN(st.Delta) || cmplx.IsInf(st.Delta))

	other := Correction(p, p.Derivative(), roots, 2, 1e-12)
	assert.False(t, other.Collided)
}

func TestCorrectionsWorkerInvariance(t *testing.T) {
	p := poly.Random(newRand(7), 37)
	roots := InitialGuesses(p, newRand(11))

	serial := Corrections(p, roots, 1e-15, 1)
	for _, w := range []int{2, 3, 8, 64} {
		parallel := Corrections(p, roots, 1e-15, w)
		require.Len(t, parallel, len(serial))
		for i := range serial {
			assert.Equal(t, serial[i], parallel[i], "workers=%d index=%d", w, i)
		}
	}
}

func TestCorrectionsDoesNotMutateRoots(t *testing.T) {
	p := poly.Real(1, 0, -5, 0, 4)
	roots := []complex128{0.5, -0.5, 3, -3}
	snapshot := append([]complex128(nil), roots...)

	_ = Corrections(p, roots, 1e-15, 4)
	assert.Equal(t, snapshot, roots)
}
