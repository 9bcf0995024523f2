// Package pkg provides the core libraries for aberth, a simultaneous
// polynomial root finder.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [poly] - Complex polynomials: construction, Horner evaluation, parsing
//  2. [aberth] - The Aberth–Ehrlich iteration and its initial guesses
//  3. [cache] - Result caching (null, file and Redis backends)
//  4. [pipeline] - Orchestration (validate → cache lookup → solve → store)
//  5. [errors] and [observability] - Error codes and instrumentation hooks
//
// # Architecture
//
// The typical data flow:
//
//	coefficients or roots
//	         ↓
//	    [poly] package (build and validate the polynomial)
//	         ↓
//	    [pipeline] package (cache key from polynomial hash + options)
//	         ↓
//	    [aberth] package (annulus guesses, iterate until every correction is small)
//	         ↓
//	    roots, residuals and status (CLI table/JSON or HTTP response)
//
// # Quick Start
//
// Solve directly:
//
//	p := poly.Real(1, 0, -5, 0, 4)
//	res, err := aberth.Solve(ctx, p, aberth.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Status, res.Roots)
//
// Solve through the cached pipeline:
//
//	fc, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(fc, nil, logger)
//	defer runner.Close()
//	res, err := runner.Solve(ctx, pipeline.Options{Polynomial: p})
//
// # Determinism
//
// Initial guesses come from a PCG generator seeded by Options.Seed, and each
// iteration reads a snapshot of the estimates before writing any of them.
// The same polynomial, seed and options therefore give bit-identical roots
// for any worker count, which is what makes results cacheable.
//
// [poly]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/poly
// [aberth]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/aberth
// [cache]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/aberth/pkg/observability
package pkg
