package cache

import "strconv"

// SolveKeyOpts are the solve options that change the result.
// Worker count is deliberately absent: it never changes the roots.
type SolveKeyOpts struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	Seed          uint64  `json:"seed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey returns the key for a solve of the polynomial whose canonical
	// encoding hashes to polyHash.
	SolveKey(polyHash string, opts SolveKeyOpts) string
}

// DefaultKeyer produces keys of the form "solve:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(polyHash string, opts SolveKeyOpts) string {
	return hashKey("solve", polyHash, opts.MaxIterations,
		strconv.FormatFloat(opts.Tolerance, 'g', -1, 64), strconv.FormatUint(opts.Seed, 10))
}
