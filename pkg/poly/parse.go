package poly

import (
	"strconv"
	"strings"

	"github.com/matzehuels/aberth/pkg/errors"
)

// Parse reads a coefficient list, highest power first. Coefficients may be
// separated by commas and/or whitespace:
//
//	"1, 0, -5, 0, 4"
//	"1 -2i 3+4i"
//
// The result is not validated; call Validate before solving.
func Parse(s string) (Polynomial, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no coefficients given")
	}
	return ParseFields(fields)
}

// ParseFields parses one coefficient per element.
func ParseFields(fields []string) (Polynomial, error) {
	p := make(Polynomial, 0, len(fields))
	for i, f := range fields {
		c, err := ParseCoefficient(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "coefficient %d", i)
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseCoefficient parses a real or complex literal such as "4", "-2.5e3",
// "3i", "-i" or "1-2i". Parentheses are optional.
func ParseCoefficient(s string) (complex128, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, errors.New(errors.ErrCodeInvalidInput, "empty coefficient")
	case "i", "+i":
		return 1i, nil
	case "-i":
		return -1i, nil
	}
	// strconv accepts "2+i" only as "2+1i".
	if strings.HasSuffix(s, "+i") || strings.HasSuffix(s, "-i") {
		s = s[:len(s)-1] + "1i"
	}
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid coefficient %q", s)
	}
	return c, nil
}
