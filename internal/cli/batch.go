package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/aberth/internal/server"
	"github.com/matzehuels/aberth/pkg/errors"
	"github.com/matzehuels/aberth/pkg/pipeline"
	"github.com/matzehuels/aberth/pkg/poly"
)

// batchFile is the layout of a batch TOML file:
//
//	[[polynomial]]
//	name = "quartic"
//	coefficients = [1, 0, -5, 0, 4]
//
//	[[polynomial]]
//	name = "gaussian"
//	roots = ["1+i", "1-i", 2]
//	seed = 7
//	max_iterations = 200
type batchFile struct {
	Polynomial []batchEntry `toml:"polynomial"`
}

type batchEntry struct {
	Name         string  `toml:"name"`
	Coefficients []any   `toml:"coefficients"`
	Roots        []any   `toml:"roots"`
	Seed         uint64  `toml:"seed"`
	MaxIter      int     `toml:"max_iterations"`
	Tolerance    float64 `toml:"tolerance"`
}

// polynomial builds the entry's polynomial from coefficients or roots.
func (e batchEntry) polynomial() (poly.Polynomial, error) {
	switch {
	case len(e.Coefficients) > 0 && len(e.Roots) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "give coefficients or roots, not both")
	case len(e.Roots) > 0:
		rs, err := tomlComplexes(e.Roots)
		if err != nil {
			return nil, err
		}
		return poly.FromRoots(1, rs...), nil
	default:
		cs, err := tomlComplexes(e.Coefficients)
		if err != nil {
			return nil, err
		}
		return poly.New(cs...), nil
	}
}

// tomlComplexes converts TOML array values (integers, floats or complex
// literal strings) to complex numbers.
func tomlComplexes(values []any) ([]complex128, error) {
	out := make([]complex128, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case int64:
			out[i] = complex(float64(x), 0)
		case float64:
			out[i] = complex(x, 0)
		case string:
			z, err := poly.ParseCoefficient(x)
			if err != nil {
				return nil, err
			}
			out[i] = z
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "value %d: unsupported type %T", i+1, v)
		}
	}
	return out, nil
}

// loadBatch reads and validates a batch file.
func loadBatch(path string) ([]batchEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read batch file")
	}

	var f batchFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if len(f.Polynomial) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: no [[polynomial]] entries", path)
	}

	for i := range f.Polynomial {
		if f.Polynomial[i].Name == "" {
			f.Polynomial[i].Name = "#" + strconv.Itoa(i+1)
		}
	}
	return f.Polynomial, nil
}

// batchOutcome pairs an entry with its result or error.
type batchOutcome struct {
	name string
	p    poly.Polynomial
	res  *pipeline.Result
	err  error
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags  solveFlags
		noSpin bool
	)

	cmd := &cobra.Command{
		Use:   "batch FILE.toml",
		Short: "Solve every polynomial in a TOML file",
		Long: `Solve every [[polynomial]] entry of a TOML file. Entries give either
coefficients (highest power first) or roots, and may override seed,
max_iterations and tolerance. Failed entries are reported and do not stop
the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			entries, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			outcomes := make([]batchOutcome, 0, len(entries))
			failed := 0

			for _, e := range entries {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(errors.ErrCodeCanceled, err, "batch canceled")
				}

				o := batchOutcome{name: e.Name}
				o.p, o.err = e.polynomial()
				if o.err == nil {
					opts := flags.options(cmd, c.Config.Solver, o.p)
					if e.Seed != 0 {
						opts.Seed = e.Seed
					}
					if e.MaxIter != 0 {
						opts.MaxIterations = e.MaxIter
					}
					if e.Tolerance != 0 {
						opts.Tolerance = e.Tolerance
					}
					opts.Logger = logger.With("polynomial", e.Name)

					var sp *Spinner
					if !noSpin && flags.format == formatTable {
						sp = newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Solving "+e.Name)
						sp.Start()
					}
					o.res, o.err = runner.Solve(ctx, opts)
					switch {
					case sp == nil:
					case sp.Cancelled():
						sp.Stop()
					case o.err != nil:
						sp.StopWithError(e.Name + ": " + errors.UserMessage(o.err))
					default:
						sp.StopWithSuccess(fmt.Sprintf("%s: %s after %d iterations", e.Name, o.res.Status, o.res.Iterations))
					}
				}
				if o.err != nil {
					failed++
					logger.Warn("entry failed", "polynomial", e.Name, "error", o.err)
				}
				outcomes = append(outcomes, o)
			}
			prog.done(fmt.Sprintf("Solved %d of %d polynomials", len(entries)-failed, len(entries)))

			out := cmd.OutOrStdout()
			if flags.format == formatJSON {
				if err := writeJSON(out, batchJSON(outcomes)); err != nil {
					return err
				}
			} else {
				printBatch(out, outcomes)
			}

			return batchError(outcomes)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noSpin, "no-spinner", false, "disable the progress spinner")

	return cmd
}

// batchError summarizes failed entries. The code is INVALID_INPUT when every
// failure was bad input and INTERNAL_ERROR otherwise.
func batchError(outcomes []batchOutcome) error {
	failed := 0
	code := errors.ErrCodeInvalidInput
	for _, o := range outcomes {
		if o.err == nil {
			continue
		}
		failed++
		if !errors.IsInvalid(o.err) {
			code = errors.ErrCodeInternal
		}
	}
	if failed == 0 {
		return nil
	}
	return errors.New(code, "%d of %d polynomials failed", failed, len(outcomes))
}

// batchItem is one element of the JSON batch output.
type batchItem struct {
	Name  string                `json:"name"`
	Error string                `json:"error,omitempty"`
	Solve *server.SolveResponse `json:"solve,omitempty"`
}

func batchJSON(outcomes []batchOutcome) []batchItem {
	items := make([]batchItem, len(outcomes))
	for i, o := range outcomes {
		items[i].Name = o.name
		if o.err != nil {
			items[i].Error = errors.UserMessage(o.err)
			continue
		}
		resp := server.FromResult(uuid.NewString(), o.p, o.res)
		items[i].Solve = &resp
	}
	return items
}

func printBatch(w io.Writer, outcomes []batchOutcome) {
	headers := []string{"name", "degree", "status", "iterations", "max correction", "time", "cache"}
	rows := make([][]string, len(outcomes))
	failed := make(map[int]bool)

	for i, o := range outcomes {
		if o.err != nil {
			failed[i] = true
			rows[i] = []string{o.name, "-", "error", "-", "-", "-", errors.UserMessage(o.err)}
			continue
		}
		cached := iconFresh
		if o.res.CacheInfo.Hit {
			cached = iconCached
		}
		rows[i] = []string{
			o.name,
			strconv.Itoa(o.res.Stats.Degree),
			string(o.res.Status),
			strconv.Itoa(o.res.Iterations),
			strconv.FormatFloat(o.res.MaxCorrection, 'e', 2, 64),
			o.res.Stats.Duration.String(),
			cached,
		}
	}
	fmt.Fprintln(w, renderTable(headers, rows, failed))

	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		printKeyValue(w, o.name, o.p.String())
		for i, z := range o.res.Roots {
			printDetail(w, "%2d  %s", i+1, poly.FormatComplex(z))
		}
	}
	if len(failed) > 0 {
		printError(w, "%d of %d polynomials failed", len(failed), len(outcomes))
	} else {
		printSuccess(w, "all %d polynomials solved", len(outcomes))
	}
}
