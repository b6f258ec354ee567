package finance

// Result is the complete output of an LCOE computation: the final cashflow
// schedule, the breakeven tariff (LCOE, $/MWh), the equity IRR achieved at
// that tariff, and a copy of the assumptions with the capital structure and
// derived fields filled in.
type Result struct {
	Schedule    Schedule    `json:"schedule"`
	LCOE        float64     `json:"lcoe"`
	EquityIRR   float64     `json:"equity_irr"`
	Assumptions Assumptions `json:"assumptions"`
}

// Options override the default solver budgets.
type Options struct {
	DebtSolver   SolverConfig
	TariffSolver SolverConfig
}

// DefaultOptions returns the standard solver budgets.
func DefaultOptions() Options {
	return Options{
		DebtSolver:   DefaultDebtSolverConfig,
		TariffSolver: DefaultTariffSolverConfig,
	}
}

// ComputeLCOE validates the assumptions, fixes the capital structure (sizing
// debt against the target DSCR when the caller left the split open), and
// solves for the tariff at which the post-tax equity IRR equals the cost of
// equity. Output is all-or-nothing: any validation or solver failure is
// returned as-is with no partial result.
func ComputeLCOE(a Assumptions) (Result, error) {
	return ComputeLCOEWithOptions(a, DefaultOptions())
}

// ComputeLCOEWithOptions is ComputeLCOE with explicit solver budgets.
//
// When the capital structure is open, the two root-finders nest: every
// candidate tariff of the outer equity-IRR solve first sizes debt at that
// tariff. At the converged tariff both fixed points therefore hold on the
// same schedule: the worst-year DSCR equals the target and the equity IRR
// equals the cost of equity.
func ComputeLCOEWithOptions(a Assumptions, opts Options) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}

	var debtFractionFor DebtFractionFunc
	if cs, specified := a.ResolveCapitalStructure(); specified {
		debtFractionFor = FixedDebtFraction(cs)
	} else {
		debtFractionFor = func(tariff float64) (float64, error) {
			sized, err := SizeDebt(a, tariff, opts.DebtSolver)
			if err != nil {
				return 0, err
			}
			return sized.Value, nil
		}
	}

	solved, err := SolveTariff(a, debtFractionFor, opts.TariffSolver)
	if err != nil {
		return Result{}, err
	}

	debtFraction, err := debtFractionFor(solved.Value)
	if err != nil {
		return Result{}, err
	}
	equityIRR, err := IRR(solved.Schedule.EquityCashflows())
	if err != nil {
		return Result{}, &NonConvergenceError{Solver: "tariff", Iterations: solved.Iterations, Residual: solved.Residual}
	}

	final := CapitalStructure{DebtPct: debtFraction, EquityPct: 1 - debtFraction}
	return Result{
		Schedule:    solved.Schedule,
		LCOE:        solved.Value,
		EquityIRR:   equityIRR,
		Assumptions: a.adjusted(final),
	}, nil
}
