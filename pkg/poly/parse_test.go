package poly

import (
	"testing"

	"github.com/matzehuels/aberth/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Polynomial
	}{
		{"commas", "1, 0, -5, 0, 4", Real(1, 0, -5, 0, 4)},
		{"spaces", "2 -4", Real(2, -4)},
		{"complex", "1 -2i 3+4i", New(1, -2i, 3+4i)},
		{"bare i", "i, -i, 2+i", New(1i, -1i, 2+1i)},
		{"parenthesized", "(1+1i);1e-3", New(1+1i, 0.001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("coefficient %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", " , ", "1, x, 3", "1+"} {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) expected error", input)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Parse(%q) code = %v, want %v", input, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
	}
}
