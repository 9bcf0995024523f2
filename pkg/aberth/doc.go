// Package aberth finds all roots of a complex polynomial at once with the
// Aberth–Ehrlich iteration.
//
// # Algorithm
//
// Starting from n estimates scattered over an annulus that bounds the roots
// (see Bounds and InitialGuesses), every pass computes for each estimate z_i
//
//	alpha_i = p(z_i) / p'(z_i)
//	beta_i  = Σ_{j≠i} 1 / (z_i - z_j)
//	z_i    -= alpha_i / (1 - alpha_i*beta_i)
//
// The Newton quotient alpha pulls the estimate toward a root while beta
// repels it from the other estimates, so the estimates spread over distinct
// roots. A solve stops when every correction of a pass is within tolerance
// (StatusConverged) or the budget runs out (StatusExhausted).
//
// # Concurrency
//
// Corrections within a pass are independent, passes are not. Each pass is
// two fork-join phases over disjoint index ranges: phase 1 reads the shared
// root vector and writes one Step per index, phase 2 applies the steps. The
// result does not depend on the worker count.
//
// # Degenerate steps
//
// A vanishing derivative yields alpha = 0, a vanishing Aberth denominator
// falls back to the plain Newton step, and coinciding estimates are left out
// of each other's repulsion sum. A collided estimate is never counted as
// converged in that pass and is nudged off its twin after the update; the
// total shows up in Result.Collisions.
package aberth
