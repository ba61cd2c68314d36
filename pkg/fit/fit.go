// Package fit wraps the Levenberg-Marquardt nonlinear least-squares
// optimizer behind a small curve-fitting API with box bounds and explicit
// convergence options.
//
// The optimizer itself (github.com/maorshutman/lm) is unconstrained; box
// bounds are enforced by projecting the parameter vector into the box both
// inside the residual evaluation and on the final result. Infeasible bounds
// are rejected before any optimizer call.
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
)

var (
	// ErrShapeMismatch is returned when x and y have different lengths.
	ErrShapeMismatch = errors.New("x and y have different lengths")

	// ErrBoundsMismatch is returned when bounds and seed lengths disagree.
	ErrBoundsMismatch = errors.New("bounds length does not match parameter count")

	// ErrInfeasibleBounds is returned when a lower bound exceeds its upper
	// bound or the seed lies outside the box.
	ErrInfeasibleBounds = errors.New("infeasible bounds")

	// ErrNoConvergence is returned when the optimizer exhausts MaxNfev
	// without meeting the requested tolerances.
	ErrNoConvergence = errors.New("optimizer did not converge")

	// ErrNoData is returned for an empty training set.
	ErrNoData = errors.New("no data points to fit")
)

// Bounds is a pair of same-length vectors constraining each parameter.
// Use math.Inf for unbounded sides.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Options holds the supported optimizer tolerances. The zero value selects
// the documented defaults.
type Options struct {
	// Ftol is the objective (sum of squared residuals) tolerance.
	// Default 1e-8.
	Ftol float64

	// Xtol is the parameter-step tolerance. Default 1e-8.
	Xtol float64

	// MaxNfev caps optimizer iterations. Default 100*(dim+1).
	MaxNfev int

	// Verbose > 0 enables per-iteration reporting by the optimizer.
	Verbose int
}

func (o Options) withDefaults(dim int) Options {
	if o.Ftol <= 0 {
		o.Ftol = 1e-8
	}
	if o.Xtol <= 0 {
		o.Xtol = 1e-8
	}
	if o.MaxNfev <= 0 {
		o.MaxNfev = 100 * (dim + 1)
	}
	return o
}

// Curve fits model to the points (x, y) by least squares, seeded at seed and
// constrained to bounds. It returns the fitted parameter vector.
//
// The residual minimized is model(x, p) - y. The returned parameters always
// lie inside the box.
func Curve(model func(x, p []float64) []float64, x, y []float64, bounds Bounds, seed []float64, opts Options) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d x values vs %d y values: %w", len(x), len(y), ErrShapeMismatch)
	}
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if err := validateBounds(bounds, seed); err != nil {
		return nil, err
	}

	dim := len(seed)
	opts = opts.withDefaults(dim)

	residual := func(dst, p []float64) {
		boxed := project(p, bounds)
		pred := model(x, boxed)
		for i := range dst {
			dst[i] = pred[i] - y[i]
		}
	}

	jac := lm.NumJac{Func: residual}
	problem := lm.LMProblem{
		Dim:        dim,
		Size:       len(x),
		Func:       residual,
		Jac:        jac.Jac,
		InitParams: append([]float64(nil), seed...),
		Tau:        1e-6,
		Eps1:       opts.Xtol,
		Eps2:       opts.Ftol,
	}

	results, err := lm.LM(problem, &lm.Settings{
		Iterations:   opts.MaxNfev,
		ObjectiveTol: opts.Ftol,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	return project(results.X, bounds), nil
}

func validateBounds(b Bounds, seed []float64) error {
	if len(b.Lower) != len(seed) || len(b.Upper) != len(seed) {
		return fmt.Errorf("%d lower, %d upper, %d params: %w",
			len(b.Lower), len(b.Upper), len(seed), ErrBoundsMismatch)
	}
	for i := range seed {
		if b.Lower[i] > b.Upper[i] {
			return fmt.Errorf("param %d: lower %g > upper %g: %w", i, b.Lower[i], b.Upper[i], ErrInfeasibleBounds)
		}
		if seed[i] < b.Lower[i] || seed[i] > b.Upper[i] {
			return fmt.Errorf("param %d: seed %g outside [%g, %g]: %w",
				i, seed[i], b.Lower[i], b.Upper[i], ErrInfeasibleBounds)
		}
	}
	return nil
}

// project clamps p into the box without mutating it.
func project(p []float64, b Bounds) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = math.Min(math.Max(v, b.Lower[i]), b.Upper[i])
	}
	return out
}

// Unbounded returns a Bounds value with every side open, for n parameters.
func Unbounded(n int) Bounds {
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := range lo {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	return Bounds{Lower: lo, Upper: hi}
}
