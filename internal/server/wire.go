package server

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/pipeline"
	"github.com/matzehuels/aberth/pkg/poly"
)

// Complex is a complex number on the wire. It decodes from a JSON number,
// a string literal such as "1-2i", or an object {"re": 1, "im": -2}, and
// always encodes as an object. Non-finite parts encode as null.
type Complex complex128

// UnmarshalJSON implements json.Unmarshaler.
func (c *Complex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "empty coefficient")
	}

	switch data[0] {
	case '{':
		var obj struct {
			Re *float64 `json:"re"`
			Im *float64 `json:"im"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Re == nil && obj.Im == nil {
			return errors.New(errors.ErrCodeInvalidInput, "coefficient object needs re or im")
		}
		var re, im float64
		if obj.Re != nil {
			re = *obj.Re
		}
		if obj.Im != nil {
			im = *obj.Im
		}
		*c = Complex(complex(re, im))
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		z, err := poly.ParseCoefficient(s)
		if err != nil {
			return err
		}
		*c = Complex(z)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*c = Complex(complex(f, 0))
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (c Complex) MarshalJSON() ([]byte, error) {
	buf := []byte(`{"re":`)
	buf = appendFloat(buf, real(c))
	buf = append(buf, `,"im":`...)
	buf = appendFloat(buf, imag(c))
	return append(buf, '}'), nil
}

// Float is a float64 that encodes non-finite values as null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	return appendFloat(nil, float64(f)), nil
}

func appendFloat(buf []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(buf, "null"...)
	}
	return strconv.AppendFloat(buf, v, 'g', -1, 64)
}

// SolveRequest is the body of POST /v1/solve. Zero-valued options fall back
// to the server's configured defaults.
type SolveRequest struct {
	Coefficients  []Complex `json:"coefficients"`
	MaxIterations int       `json:"max_iterations,omitempty"`
	Tolerance     float64   `json:"tolerance,omitempty"`
	Workers       int       `json:"workers,omitempty"`
	Seed          uint64    `json:"seed,omitempty"`
	Refresh       bool      `json:"refresh,omitempty"`
}

// Polynomial converts the coefficients, highest power first.
func (r SolveRequest) Polynomial() poly.Polynomial {
	p := make(poly.Polynomial, len(r.Coefficients))
	for i, c := range r.Coefficients {
		p[i] = complex128(c)
	}
	return p
}

// SolveResponse is the body of a successful POST /v1/solve.
type SolveResponse struct {
	ID            string    `json:"id"`
	Polynomial    string    `json:"polynomial"`
	Roots         []Complex `json:"roots"`
	Iterations    int       `json:"iterations"`
	Status        string    `json:"status"`
	MaxCorrection Float     `json:"max_correction"`
	Collisions    int       `json:"collisions"`
	Residuals     []Float   `json:"residuals"`
	Seed          uint64    `json:"seed"`
	Cached        bool      `json:"cached"`
	DurationMS    float64   `json:"duration_ms"`
}

// FromResult builds the response for res.
func FromResult(id string, p poly.Polynomial, res *pipeline.Result) SolveResponse {
	out := SolveResponse{
		ID:            id,
		Polynomial:    p.String(),
		Roots:         make([]Complex, len(res.Roots)),
		Iterations:    res.Iterations,
		Status:        string(res.Status),
		MaxCorrection: Float(res.MaxCorrection),
		Collisions:    res.Collisions,
		Residuals:     make([]Float, len(res.Residuals)),
		Seed:          res.Seed,
		Cached:        res.CacheInfo.Hit,
		DurationMS:    float64(res.Stats.Duration.Microseconds()) / 1000,
	}
	for i, z := range res.Roots {
		out.Roots[i] = Complex(z)
	}
	for i, v := range res.Residuals {
		out.Residuals[i] = Float(v)
	}
	return out
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
