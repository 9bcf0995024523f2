package errors

import "math"

// ValidateDegree rejects polynomials of degree < 1. An empty coefficient list
// has degree -1 and a lone constant has degree 0; neither has roots to find.
func ValidateDegree(degree int) error {
	if degree < 1 {
		return New(ErrCodeInvalidPolynomial, "degree must be at least 1, got %d", degree)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite components.
func ValidateFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "value %v is not finite", v)
		}
	}
	return nil
}

// ValidateIterations checks an iteration budget.
func ValidateIterations(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidOptions, "max iterations must be positive, got %d", n)
	}
	return nil
}

// ValidateTolerance checks a convergence tolerance.
func ValidateTolerance(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		return New(ErrCodeInvalidOptions, "tolerance must be a positive finite number, got %v", tol)
	}
	return nil
}

// ValidateWorkers checks a worker count. Zero selects the default.
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidOptions, "workers must not be negative, got %d", n)
	}
	return nil
}
