package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/aberth/pkg/aberth"
	"github.com/matzehuels/aberth/pkg/cache"
	"github.com/matzehuels/aberth/pkg/observability"
)

const keyTypeSolve = "solve"

// Runner encapsulates solve execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored results.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLSolve,
	}
}

// Solve validates opts, consults the cache and runs the solver on a miss.
func (r *Runner) Solve(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	start := time.Now()
	hash := PolyHash(opts.Polynomial)
	key := r.Keyer.SolveKey(hash, cache.SolveKeyOpts{
		MaxIterations: opts.MaxIterations,
		Tolerance:     opts.Tolerance,
		Seed:          opts.Seed,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key); ok {
			hooks.OnCacheHit(ctx, keyTypeSolve)
			res.PolyHash = hash
			res.Stats = Stats{Degree: opts.Polynomial.Degree(), Duration: time.Since(start)}
			res.CacheInfo.Hit = true
			logger.Debug("cache hit", "key", key)
			return res, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeSolve)
	}

	solved, err := aberth.Solve(ctx, opts.Polynomial, opts.solverOptions())
	if err != nil {
		return nil, err
	}
	res := newResult(opts.Polynomial, solved)
	res.PolyHash = hash
	res.Stats.Duration = time.Since(start)

	r.store(ctx, key, res, logger)

	if res.Converged() {
		logger.Info("solved polynomial",
			"degree", res.Stats.Degree,
			"iterations", res.Iterations,
			"duration", res.Stats.Duration)
	} else {
		logger.Warn("iteration budget exhausted",
			"degree", res.Stats.Degree,
			"iterations", res.Iterations,
			"max_correction", res.MaxCorrection)
	}
	return res, nil
}

// store writes res under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	data, err := marshalResult(res)
	if err != nil {
		logger.Warn("result not cached", "key", key, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeSolve, len(data))
}

// lookup returns a cached result. Read errors and undecodable entries count
// as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	res, err := unmarshalResult(data)
	if err != nil {
		return nil, false
	}
	return res, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
