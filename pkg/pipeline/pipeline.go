// Package pipeline runs cached polynomial solves for the CLI and the HTTP API.
//
// Both entry points go through a Runner so that validation, caching, timing
// and logging behave the same everywhere:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Solve(ctx, pipeline.Options{
//	    Polynomial: poly.Real(1, 0, -5, 0, 4),
//	    Tolerance:  1e-12,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Status, res.Roots)
//
// A solve is fully determined by the polynomial, the iteration budget, the
// tolerance and the seed, so the Runner caches results under a key built from
// exactly those. The worker count never changes the output and is not part of
// the key.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aberth/pkg/aberth"
	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/poly"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one solve.
type Options struct {
	Polynomial poly.Polynomial

	// MaxIterations, Tolerance and Seed fall back to the aberth defaults.
	MaxIterations int
	Tolerance     float64
	Seed          uint64

	// Workers is passed through to the solver. Zero uses GOMAXPROCS.
	Workers int

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool

	// Logger overrides the runner's logger for this solve.
	Logger *log.Logger
}

// ValidateAndSetDefaults fills zero-valued fields and validates the result.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Polynomial == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no polynomial given")
	}
	if err := o.Polynomial.Validate(); err != nil {
		return err
	}

	if o.MaxIterations == 0 {
		o.MaxIterations = aberth.DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = aberth.DefaultTolerance
	}
	if o.Seed == 0 {
		o.Seed = aberth.DefaultSeed
	}

	return o.solverOptions().Validate()
}

func (o *Options) solverOptions() aberth.Options {
	return aberth.Options{
		MaxIterations: o.MaxIterations,
		Tolerance:     o.Tolerance,
		Workers:       o.Workers,
		Seed:          o.Seed,
		Logger:        o.Logger,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is a solve plus the bookkeeping the outer surfaces report.
type Result struct {
	Roots         []complex128
	Iterations    int
	Status        aberth.Status
	MaxCorrection float64
	Collisions    int
	Seed          uint64

	// Residuals holds |p(root)| for each root, in root order.
	Residuals []float64

	// PolyHash identifies the polynomial in cache keys and API responses.
	PolyHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Converged reports whether the solve reached aberth.StatusConverged.
func (r *Result) Converged() bool {
	return r.Status == aberth.StatusConverged
}

// Stats contains execution statistics.
type Stats struct {
	Degree   int
	Duration time.Duration
}

// CacheInfo tracks whether the result came from the cache.
type CacheInfo struct {
	Hit bool
}

func newResult(p poly.Polynomial, res *aberth.Result) *Result {
	return &Result{
		Roots:         res.Roots,
		Iterations:    res.Iterations,
		Status:        res.Status,
		MaxCorrection: res.MaxCorrection,
		Collisions:    res.Collisions,
		Seed:          res.Seed,
		Residuals:     res.Residuals(p),
		Stats:         Stats{Degree: p.Degree()},
	}
}
