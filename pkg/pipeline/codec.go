package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/aberth/pkg/aberth"
	"github.com/matzehuels/aberth/pkg/cache"
	"github.com/matzehuels/aberth/pkg/poly"
)

// PolyHash returns a content hash of the coefficients. Negative zero hashes
// like positive zero.
func PolyHash(p poly.Polynomial) string {
	buf := make([]byte, 0, 16*len(p))
	for _, c := range p {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(real(c)+0))
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(imag(c)+0))
	}
	return cache.Hash(buf)
}

// cachedSolve is the on-cache form of a Result. Roots are stored as
// [re, im] pairs since encoding/json has no complex type.
type cachedSolve struct {
	Roots         [][2]float64 `json:"roots"`
	Iterations    int          `json:"iterations"`
	Status        string       `json:"status"`
	MaxCorrection float64      `json:"max_correction"`
	Collisions    int          `json:"collisions"`
	Seed          uint64       `json:"seed"`
	Residuals     []float64    `json:"residuals"`
}

func marshalResult(r *Result) ([]byte, error) {
	c := cachedSolve{
		Roots:         make([][2]float64, len(r.Roots)),
		Iterations:    r.Iterations,
		Status:        string(r.Status),
		MaxCorrection: r.MaxCorrection,
		Collisions:    r.Collisions,
		Seed:          r.Seed,
		Residuals:     r.Residuals,
	}
	for i, z := range r.Roots {
		c.Roots[i] = [2]float64{real(z), imag(z)}
	}
	return json.Marshal(c)
}

func unmarshalResult(data []byte) (*Result, error) {
	var c cachedSolve
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	switch aberth.Status(c.Status) {
	case aberth.StatusConverged, aberth.StatusExhausted:
	default:
		return nil, fmt.Errorf("unknown status %q", c.Status)
	}
	if len(c.Residuals) != len(c.Roots) {
		return nil, fmt.Errorf("%d residuals for %d roots", len(c.Residuals), len(c.Roots))
	}

	r := &Result{
		Roots:         make([]complex128, len(c.Roots)),
		Iterations:    c.Iterations,
		Status:        aberth.Status(c.Status),
		MaxCorrection: c.MaxCorrection,
		Collisions:    c.Collisions,
		Seed:          c.Seed,
		Residuals:     c.Residuals,
	}
	for i, pair := range c.Roots {
		r.Roots[i] = complex(pair[0], pair[1])
	}
	return r, nil
}
