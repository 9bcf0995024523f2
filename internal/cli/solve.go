package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/aberth/internal/config"
	"github.com/matzehuels/aberth/internal/server"
	"github.com/matzehuels/aberth/pkg/aberth"
	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/pipeline"
	"github.com/matzehuels/aberth/pkg/poly"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// solveFlags holds the flags shared by solve and batch.
type solveFlags struct {
	maxIter int
	tol     float64
	workers int
	seed    uint64
	format  string
	noCache bool
	refresh bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxIter, "max-iter", 0, "iteration budget (default from config, 100)")
	cmd.Flags().Float64Var(&f.tol, "tol", 0, "convergence tolerance on |correction| (default from config, 1e-15)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "goroutines per phase (default from config, 0 = GOMAXPROCS)")
	cmd.Flags().Uint64Var(&f.seed, "seed", aberth.DefaultSeed, "seed for the initial guesses")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and store fresh ones")
}

func (f *solveFlags) validate() error {
	switch f.format {
	case formatTable, formatJSON:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want table or json)", f.format)
}

// options builds pipeline options. Flags win over the config file only when
// given explicitly.
func (f *solveFlags) options(cmd *cobra.Command, cfg config.Solver, p poly.Polynomial) pipeline.Options {
	opts := pipeline.Options{
		Polynomial:    p,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Workers:       cfg.Workers,
		Seed:          f.seed,
		Refresh:       f.refresh,
	}
	if cmd.Flags().Changed("max-iter") {
		opts.MaxIterations = f.maxIter
	}
	if cmd.Flags().Changed("tol") {
		opts.Tolerance = f.tol
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags  solveFlags
		roots  string
		random int
	)

	cmd := &cobra.Command{
		Use:   "solve [coefficients...]",
		Short: "Find all roots of a polynomial",
		Long: `Find all roots of a polynomial given by its coefficients, highest power first.

Coefficients may be separated by spaces or commas and may be complex
(1+2i, -3i, 2.5e-3-1i). Use -- before coefficients that start with a minus.`,
		Example: `  aberth solve -- 1 0 -5 0 4
  aberth solve "1, 0, -5, 0, 4" --tol 1e-12
  aberth solve --roots "1, 2, 3+i"
  aberth solve --random 12 --seed 7 -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			p, err := polynomialFrom(args, roots, random, flags.seed)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(cmd, c.Config.Solver, p)
			opts.Logger = loggerFromContext(ctx)
			res, err := runner.Solve(ctx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.format == formatJSON {
				return writeJSON(out, server.FromResult(uuid.NewString(), p, res))
			}
			printSolve(out, p, res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&roots, "roots", "", "build the polynomial from these roots instead")
	cmd.Flags().IntVar(&random, "random", 0, "solve a random polynomial of this degree (coefficients drawn from --seed)")

	return cmd
}

// polynomialFrom builds the polynomial from exactly one of the three sources.
func polynomialFrom(args []string, roots string, random int, seed uint64) (poly.Polynomial, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, roots != "", random != 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"give exactly one of: coefficients, --roots, --random")
	}

	switch {
	case roots != "":
		rs, err := poly.Parse(roots)
		if err != nil {
			return nil, err
		}
		return poly.FromRoots(1, rs...), nil
	case random != 0:
		if random < 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--random needs a positive degree, got %d", random)
		}
		r := rand.New(rand.NewPCG(seed, ^seed))
		return poly.Random(r, random), nil
	default:
		return poly.Parse(strings.Join(args, " "))
	}
}

// printSolve renders one result as a heading, a root table and a summary.
func printSolve(w io.Writer, p poly.Polynomial, res *pipeline.Result) {
	fmt.Fprintln(w, StyleTitle.Render(p.String()))

	rows := make([][]string, len(res.Roots))
	for i, z := range res.Roots {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			poly.FormatComplex(z),
			strconv.FormatFloat(res.Residuals[i], 'e', 2, 64),
		}
	}
	fmt.Fprintln(w, renderTable([]string{"#", "root", "|p(root)|"}, rows, nil))

	if res.Converged() {
		printSuccess(w, "converged in %s iterations", StyleNumber.Render(strconv.Itoa(res.Iterations)))
	} else {
		printWarning(w, "iteration budget exhausted after %d iterations", res.Iterations)
	}
	printStats(w, []string{
		"max correction " + strconv.FormatFloat(res.MaxCorrection, 'e', 2, 64),
		fmt.Sprintf("%d collisions", res.Collisions),
		fmt.Sprintf("seed %d", res.Seed),
		res.Stats.Duration.String(),
	}, res.CacheInfo.Hit)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
