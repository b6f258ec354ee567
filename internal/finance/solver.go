package finance

import "math"

// SolverConfig bounds an iterative root-finder. Tolerance applies to the
// residual of the quantity being matched, not to the interval width.
type SolverConfig struct {
	MaxIterations int
	Tolerance     float64
}

// Default solver budgets. The debt tolerance is in DSCR units, the tariff
// tolerance in IRR units.
var (
	DefaultDebtSolverConfig   = SolverConfig{MaxIterations: 100, Tolerance: 1e-4}
	DefaultTariffSolverConfig = SolverConfig{MaxIterations: 100, Tolerance: 1e-6}
)

// SolverResult carries a solved scalar together with the schedule that
// produced it and convergence diagnostics.
type SolverResult struct {
	Value      float64
	Schedule   Schedule
	Converged  bool
	Residual   float64
	Iterations int
}

// SizeDebt finds the debt fraction in [0, 1] whose worst-year DSCR equals
// the target, at a fixed tariff. Coverage improves without bound as the debt
// fraction shrinks, so the residual is monotone and bisection always
// brackets. Two edge policies apply: a tariff leaving no operating margin
// supports no debt at all (fraction 0, covenant vacuous), and full leverage
// that still covers the target with margin is reported capped at 1 rather
// than treated as an error.
func SizeDebt(a Assumptions, tariff float64, cfg SolverConfig) (SolverResult, error) {
	residualAt := func(f float64) (float64, Schedule) {
		schedule := GenerateSchedule(a, tariff, f)
		min, ok := schedule.MinDSCR()
		if !ok {
			return math.Inf(1), schedule
		}
		return min - a.TargetDSCR, schedule
	}

	zeroDebt := GenerateSchedule(a, tariff, 0)
	if zeroDebt[len(zeroDebt)-1].EBITDA <= 0 {
		return SolverResult{Value: 0, Schedule: zeroDebt, Converged: true}, nil
	}

	if res, schedule := residualAt(1); res >= 0 {
		return SolverResult{Value: 1, Schedule: schedule, Converged: true, Residual: res, Iterations: 1}, nil
	}

	lo, hi := 0.0, 1.0
	var residual float64
	for i := 1; i <= cfg.MaxIterations; i++ {
		mid := (lo + hi) / 2
		res, schedule := residualAt(mid)
		if math.Abs(res) < cfg.Tolerance {
			return SolverResult{Value: mid, Schedule: schedule, Converged: true, Residual: res, Iterations: i}, nil
		}
		if res > 0 {
			lo = mid
		} else {
			hi = mid
		}
		residual = res
	}
	return SolverResult{}, &NonConvergenceError{Solver: "debt sizing", Iterations: cfg.MaxIterations, Residual: residual}
}

// DebtFractionFunc supplies the debt fraction to model at a candidate
// tariff. A fixed capital structure ignores the tariff; the nested solve
// re-sizes debt for every candidate.
type DebtFractionFunc func(tariff float64) (float64, error)

// FixedDebtFraction adapts an already-resolved capital structure for
// SolveTariff.
func FixedDebtFraction(cs CapitalStructure) DebtFractionFunc {
	return func(float64) (float64, error) { return cs.DebtPct, nil }
}

// SolveTariff finds the tariff at which the post-tax equity IRR equals the
// cost of equity; that tariff is the project's LCOE. The search starts at
// the break-even-EBITDA tariff, expands the upper bound geometrically until
// the residual changes sign, then bisects. The equity return grows
// monotonically with the tariff, so the bracket is valid.
func SolveTariff(a Assumptions, debtFractionFor DebtFractionFunc, cfg SolverConfig) (SolverResult, error) {
	residualAt := func(tariff float64) (float64, Schedule, error) {
		f, err := debtFractionFor(tariff)
		if err != nil {
			return 0, nil, err
		}
		schedule := GenerateSchedule(a, tariff, f)
		flows := schedule.EquityCashflows()
		irr, err := IRR(flows)
		if err != nil {
			// No sign change: either the tariff cannot repay anyone yet
			// (all outflows, push the tariff up) or there is no equity at
			// risk against positive flows (push it down).
			for _, cf := range flows {
				if cf > 0 {
					return math.Inf(1), schedule, nil
				}
			}
			return math.Inf(-1), schedule, nil
		}
		return irr - a.CostOfEquity, schedule, nil
	}

	energy := a.annualEnergyMWh()

	// Break-even EBITDA seed: revenue exactly covers operating costs, so the
	// equity return there is below any non-negative target.
	lo := a.annualOperatingCosts() / energy
	step := a.totalCapitalCost() / float64(a.ProjectLifetimeYears) / energy
	hi := lo + step

	iterations := 0
	residual, schedule, err := residualAt(hi)
	iterations++
	if err != nil {
		return SolverResult{}, err
	}
	for residual < 0 {
		if iterations >= cfg.MaxIterations {
			return SolverResult{}, &NonConvergenceError{Solver: "tariff", Iterations: iterations, Residual: residual}
		}
		lo = hi
		step *= 2
		hi = lo + step
		residual, schedule, err = residualAt(hi)
		iterations++
		if err != nil {
			return SolverResult{}, err
		}
	}

	for iterations < cfg.MaxIterations {
		mid := (lo + hi) / 2
		residual, schedule, err = residualAt(mid)
		iterations++
		if err != nil {
			return SolverResult{}, err
		}
		if math.Abs(residual) < cfg.Tolerance {
			return SolverResult{Value: mid, Schedule: schedule, Converged: true, Residual: residual, Iterations: iterations}, nil
		}
		if residual > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return SolverResult{}, &NonConvergenceError{Solver: "tariff", Iterations: iterations, Residual: residual}
}
