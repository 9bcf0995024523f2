// Package poly provides dense complex polynomials.
//
// Coefficients are stored highest power first, so the slice
//
//	poly.Real(1, 0, -5, 0, 4)
//
// represents x^4 - 5x^2 + 4. Evaluation uses Horner's method and never
// allocates; the same routine evaluates a polynomial and its derivative.
//
// Complex arithmetic uses Go's built-in complex128. Values whose magnitude is
// below Epsilon are considered numerically zero, see IsZero.
package poly
