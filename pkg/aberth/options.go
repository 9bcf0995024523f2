package aberth

import (
	"math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aberth/pkg/errors"
)

const (
	// DefaultMaxIterations is the iteration budget when none is given.
	DefaultMaxIterations = 100

	// DefaultTolerance is the per-root correction magnitude below which a root
	// counts as converged. It sits at the edge of double precision.
	DefaultTolerance = 1e-15

	// DefaultSeed seeds the initial guesses when neither Seed nor Rand is set.
	DefaultSeed = uint64(42)

	// CollisionNudge is the relative distance by which a collided estimate is
	// pushed off its twin after the update phase.
	CollisionNudge = 1e-7
)

// Options configures a solve. The zero value is usable: every field falls
// back to its default.
type Options struct {
	// MaxIterations bounds the number of passes (default 100).
	MaxIterations int

	// Tolerance is the convergence threshold on |correction| (default 1e-15).
	Tolerance float64

	// Workers is the number of goroutines per phase. Zero uses GOMAXPROCS;
	// the value is capped at the degree. One runs everything inline.
	Workers int

	// Seed seeds the initial-guess generator. Zero means DefaultSeed.
	Seed uint64

	// Rand overrides the source built from Seed.
	Rand *rand.Rand

	// Initial supplies starting estimates instead of random guesses. Its
	// length must equal the degree. The slice is copied.
	Initial []complex128

	// Logger receives per-iteration debug output. Defaults to log.Default().
	Logger *log.Logger
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate checks option ranges. Call SetDefaults first.
func (o Options) Validate() error {
	if err := errors.ValidateIterations(o.MaxIterations); err != nil {
		return err
	}
	if err := errors.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	return errors.ValidateWorkers(o.Workers)
}

// workerCount resolves Workers against the degree.
func (o Options) workerCount(degree int) int {
	w := o.Workers
	if w == 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > degree {
		w = degree
	}
	if w < 1 {
		w = 1
	}
	return w
}
