package aberth

import (
	"context"
	"math"
	"math/cmplx"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/observability"
	"github.com/matzehuels/aberth/pkg/poly"
)

// Status is the terminal state of a solve.
type Status string

const (
	// StatusConverged means every correction of the final pass was within
	// tolerance.
	StatusConverged Status = "converged"

	// StatusExhausted means the iteration budget ran out first. The roots are
	// the best estimates available; this is not an error.
	StatusExhausted Status = "exhausted"
)

// Result is the outcome of a solve.
type Result struct {
	// Roots holds one estimate per root. Roots[i] is the estimate that
	// started at initial guess i; the slice is not sorted.
	Roots []complex128

	// Iterations counts the passes performed, including the terminating one.
	Iterations int

	Status Status

	// MaxCorrection is the largest correction magnitude of the final pass.
	MaxCorrection float64

	// Collisions counts estimates that coincided with another estimate,
	// summed over all passes.
	Collisions int

	// Inner and Outer are the annulus radii used for the initial guesses.
	Inner, Outer float64

	// Seed is the seed the initial guesses were drawn from. It is zero when
	// Options.Rand or Options.Initial supplied them instead.
	Seed uint64
}

// Converged reports whether the solve reached StatusConverged.
func (r *Result) Converged() bool {
	return r.Status == StatusConverged
}

// Residuals returns |p(root)| for every root.
func (r *Result) Residuals(p poly.Polynomial) []float64 {
	res := make([]float64, len(r.Roots))
	for i, z := range r.Roots {
		res[i] = p.Residual(z)
	}
	return res
}

// Solve approximates all roots of p with the Aberth–Ehrlich iteration.
//
// Each pass runs in two phases separated by a barrier: first every
// correction is computed from the same snapshot of the root vector, then every
// estimate is updated. Both phases fan out over Options.Workers goroutines
// that own disjoint index ranges, so no locks are taken. The pass converges
// when every per-root flag is set; the flags are reduced after the barrier.
//
// ctx is checked between passes only. Invalid input fails before any pass
// with INVALID_POLYNOMIAL or INVALID_OPTIONS and fires no solver hooks; a
// solve that starts always reports both OnSolveStart and OnSolveComplete to
// the same hooks.
func Solve(ctx context.Context, p poly.Polynomial, opts Options) (*Result, error) {
	s, err := prepare(p, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Solver()
	start := time.Now()
	hooks.OnSolveStart(ctx, len(s.roots))

	res, err := s.run(ctx, hooks)

	status := ""
	iterations := 0
	if res != nil {
		status = string(res.Status)
		iterations = res.Iterations
	}
	hooks.OnSolveComplete(ctx, len(s.roots), iterations, status, time.Since(start), err)
	return res, err
}

// prepare validates the input and builds the solver state.
func prepare(p poly.Polynomial, opts Options) (*solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	n := p.Degree()
	if opts.Initial != nil && len(opts.Initial) != n {
		return nil, errors.New(errors.ErrCodeInvalidOptions,
			"%d initial estimates given for degree %d", len(opts.Initial), n)
	}
	return newSolver(p, opts), nil
}

// run iterates until convergence, budget exhaustion or cancellation.
func (s *solver) run(ctx context.Context, hooks observability.SolverHooks) (*Result, error) {
	logger := s.opts.Logger

	for k := 0; k < s.opts.MaxIterations; k++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "solve canceled after %d iterations", k)
		}

		converged, maxCorr, collided := s.iterate()
		s.result.MaxCorrection = maxCorr
		s.result.Collisions += collided

		hooks.OnIteration(ctx, k+1, maxCorr, collided)
		logger.Debug("iteration", "n", k+1, "max_correction", maxCorr, "collisions", collided)

		if converged {
			s.result.Iterations = k + 1
			s.result.Status = StatusConverged
			s.finish()
			return &s.result, nil
		}
	}

	s.result.Iterations = s.opts.MaxIterations
	s.result.Status = StatusExhausted
	s.finish()
	return &s.result, nil
}

// solver holds the state of one solve. Nothing in it outlives the call.
type solver struct {
	p, dp  poly.Polynomial
	tol    float64
	roots  []complex128
	steps  []Step
	ranges []span
	opts   Options
	result Result
}

type span struct{ lo, hi int }

func newSolver(p poly.Polynomial, opts Options) *solver {
	n := p.Degree()
	s := &solver{
		p:      p,
		dp:     p.Derivative(),
		tol:    opts.Tolerance,
		steps:  make([]Step, n),
		ranges: partition(n, opts.workerCount(n)),
		opts:   opts,
	}
	s.result.Inner, s.result.Outer = Bounds(p)

	switch {
	case opts.Initial != nil:
		s.roots = append([]complex128(nil), opts.Initial...)
	case opts.Rand != nil:
		s.roots = InitialGuesses(p, opts.Rand)
	default:
		s.roots = InitialGuesses(p, newRand(opts.Seed))
		s.result.Seed = opts.Seed
	}
	return s
}

// iterate performs one pass and returns the reduced convergence flag, the
// largest correction and the number of collided estimates.
func (s *solver) iterate() (converged bool, maxCorr float64, collided int) {
	s.correct()

	// Phase 2: writes s.roots[i] per owned index, reads only s.steps.
	n := len(s.roots)
	s.parallel(func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s.roots[i] -= s.steps[i].Delta
			if s.steps[i].Collided {
				s.roots[i] = separate(s.roots[i], i, n)
			}
		}
	})

	converged = true
	for _, st := range s.steps {
		converged = converged && st.Converged
		maxCorr = math.Max(maxCorr, cmplx.Abs(st.Delta))
		if st.Collided {
			collided++
		}
	}
	return converged, maxCorr, collided
}

// correct is phase 1: read-only over s.roots, writes s.steps[i] per owned
// index.
func (s *solver) correct() {
	s.parallel(func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s.steps[i] = Correction(s.p, s.dp, s.roots, i, s.tol)
		}
	})
}

// parallel runs fn over the index ranges and returns once all have finished.
func (s *solver) parallel(fn func(lo, hi int)) {
	if len(s.ranges) == 1 {
		fn(s.ranges[0].lo, s.ranges[0].hi)
		return
	}
	var g errgroup.Group
	for _, r := range s.ranges {
		g.Go(func() error {
			fn(r.lo, r.hi)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *solver) finish() {
	s.result.Roots = s.roots
	if s.result.Collisions > 0 {
		s.opts.Logger.Warn("colliding root estimates were separated",
			"collisions", s.result.Collisions,
			"degree", len(s.roots))
	}
}

// separate pushes z off a coinciding estimate in a direction that depends on
// its index, so twins move apart deterministically.
func separate(z complex128, i, n int) complex128 {
	scale := CollisionNudge * math.Max(1, cmplx.Abs(z))
	return z + cmplx.Rect(scale, 2*math.Pi*float64(i+1)/float64(n))
}

// partition splits [0, n) into w contiguous ranges of near-equal size.
func partition(n, w int) []span {
	size := (n + w - 1) / w
	spans := make([]span, 0, w)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, n)})
	}
	return spans
}

// Corrections runs the correction kernel for every index of roots with the
// given number of workers and returns the steps. It is the phase-1 half of a
// pass, exposed so callers can inspect a single pass without updating roots.
func Corrections(p poly.Polynomial, roots []complex128, tol float64, workers int) []Step {
	s := &solver{
		p:      p,
		dp:     p.Derivative(),
		tol:    tol,
		roots:  roots,
		steps:  make([]Step, len(roots)),
		ranges: partition(len(roots), max(1, min(workers, len(roots)))),
	}
	s.correct()
	return s.steps
}
