package errors

import (
	"math"
	"testing"
)

func TestValidateDegree(t *testing.T) {
	tests := []struct {
		degree  int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{12, false},
	}

	for _, tt := range tests {
		err := ValidateDegree(tt.degree)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDegree(%d) error = %v, wantErr %v", tt.degree, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidPolynomial) {
			t.Errorf("ValidateDegree(%d) code = %v", tt.degree, GetCode(err))
		}
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite(0, -1.5, 1e300); err != nil {
		t.Errorf("finite values rejected: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateFinite(1, v); err == nil {
			t.Errorf("ValidateFinite(%v) expected error", v)
		}
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"iterations ok", ValidateIterations(100), false},
		{"iterations zero", ValidateIterations(0), true},
		{"iterations negative", ValidateIterations(-3), true},
		{"tolerance ok", ValidateTolerance(1e-15), false},
		{"tolerance zero", ValidateTolerance(0), true},
		{"tolerance negative", ValidateTolerance(-1e-9), true},
		{"tolerance nan", ValidateTolerance(math.NaN()), true},
		{"tolerance inf", ValidateTolerance(math.Inf(1)), true},
		{"workers default", ValidateWorkers(0), false},
		{"workers negative", ValidateWorkers(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", tt.err, tt.wantErr)
			}
			if tt.err != nil && !Is(tt.err, ErrCodeInvalidOptions) {
				t.Errorf("code = %v, want %v", GetCode(tt.err), ErrCodeInvalidOptions)
			}
		})
	}
}
