// Package finance models the cashflows and financing of a renewable energy
// generation project and solves for its levelized cost of energy: the
// breakeven tariff at which the post-tax equity IRR equals the investor's
// cost of equity.
package finance

import "math"

// HoursPerYear converts installed capacity and capacity factor into annual
// energy output.
const HoursPerYear = 8760

// splitTolerance is how far a supplied debt+equity split may deviate from
// summing to exactly one.
const splitTolerance = 1e-6

// Assumptions are the techno-economic inputs for a single project. Rates are
// decimals (0.05 for 5%), capacities are MW, costs are dollars.
//
// The two capital-structure legs are optional: leave both unset to have the
// engine size debt so that the worst-year debt service coverage ratio equals
// TargetDSCR. The trailing derived fields are never read from input; they are
// populated on the adjusted copy returned by ComputeLCOE.
type Assumptions struct {
	CapacityMW           float64  `json:"capacity_mw"`
	CapacityFactor       float64  `json:"capacity_factor"`
	CapexPerMW           float64  `json:"capital_expenditure_per_mw"`
	OMCostPctOfCapex     float64  `json:"o_m_cost_pct_of_capital_cost"`
	DebtPct              *float64 `json:"debt_pct_of_capital_cost,omitempty"`
	EquityPct            *float64 `json:"equity_pct_of_capital_cost,omitempty"`
	CostOfDebt           float64  `json:"cost_of_debt"`
	CostOfEquity         float64  `json:"cost_of_equity"`
	TaxRate              float64  `json:"tax_rate"`
	ProjectLifetimeYears int      `json:"project_lifetime_years"`
	TargetDSCR           float64  `json:"dcsr"`

	// Derived outputs, populated on the adjusted copy only.
	CapitalCost     float64 `json:"capital_cost,omitempty"`
	WACC            float64 `json:"wacc,omitempty"`
	TaxAdjustedWACC float64 `json:"tax_adjusted_wacc,omitempty"`
}

// CapitalStructure is a resolved debt/equity split, both legs as fractions of
// total capital cost.
type CapitalStructure struct {
	DebtPct   float64
	EquityPct float64
}

// Validate checks every assumption against its declared range and the
// consistency of a fully specified capital structure. It returns a
// *ValidationError naming the first offending field.
func (a Assumptions) Validate() error {
	if a.CapacityMW <= 0 {
		return &ValidationError{Field: "capacity_mw", Reason: "must be greater than 0"}
	}
	if a.CapacityFactor <= 0 || a.CapacityFactor > 1 {
		return &ValidationError{Field: "capacity_factor", Reason: "must be in (0, 1]"}
	}
	if a.CapexPerMW <= 0 {
		return &ValidationError{Field: "capital_expenditure_per_mw", Reason: "must be greater than 0"}
	}
	if a.OMCostPctOfCapex < 0 {
		return &ValidationError{Field: "o_m_cost_pct_of_capital_cost", Reason: "must not be negative"}
	}
	if a.CostOfDebt < 0 {
		return &ValidationError{Field: "cost_of_debt", Reason: "must not be negative"}
	}
	if a.CostOfEquity < 0 {
		return &ValidationError{Field: "cost_of_equity", Reason: "must not be negative"}
	}
	if a.TaxRate < 0 || a.TaxRate >= 1 {
		return &ValidationError{Field: "tax_rate", Reason: "must be in [0, 1)"}
	}
	if a.ProjectLifetimeYears < 1 {
		return &ValidationError{Field: "project_lifetime_years", Reason: "must be a positive integer"}
	}
	if a.TargetDSCR <= 0 {
		return &ValidationError{Field: "dcsr", Reason: "must be greater than 0"}
	}
	if a.DebtPct != nil && (*a.DebtPct < 0 || *a.DebtPct > 1) {
		return &ValidationError{Field: "debt_pct_of_capital_cost", Reason: "must be in [0, 1]"}
	}
	if a.EquityPct != nil && (*a.EquityPct < 0 || *a.EquityPct > 1) {
		return &ValidationError{Field: "equity_pct_of_capital_cost", Reason: "must be in [0, 1]"}
	}
	if a.DebtPct != nil && a.EquityPct != nil {
		if math.Abs(*a.DebtPct+*a.EquityPct-1) > splitTolerance {
			return &ValidationError{
				Field:  "equity_pct_of_capital_cost",
				Reason: "debt and equity percentages must sum to 1",
			}
		}
	}
	return nil
}

// ResolveCapitalStructure returns the supplied split, deriving the missing
// leg when only one is given. ok is false when neither leg was supplied,
// which signals the debt-sizing solver to run.
func (a Assumptions) ResolveCapitalStructure() (cs CapitalStructure, ok bool) {
	switch {
	case a.DebtPct != nil && a.EquityPct != nil:
		return CapitalStructure{DebtPct: *a.DebtPct, EquityPct: *a.EquityPct}, true
	case a.DebtPct != nil:
		return CapitalStructure{DebtPct: *a.DebtPct, EquityPct: 1 - *a.DebtPct}, true
	case a.EquityPct != nil:
		return CapitalStructure{DebtPct: 1 - *a.EquityPct, EquityPct: *a.EquityPct}, true
	}
	return CapitalStructure{}, false
}

func (a Assumptions) totalCapitalCost() float64 {
	return a.CapacityMW * a.CapexPerMW
}

func (a Assumptions) annualEnergyMWh() float64 {
	return a.CapacityMW * a.CapacityFactor * HoursPerYear
}

func (a Assumptions) annualOperatingCosts() float64 {
	return a.OMCostPctOfCapex * a.totalCapitalCost()
}

// adjusted returns a copy with the capital structure fixed and every derived
// field populated. The receiver is a value, so the caller's record is never
// touched.
func (a Assumptions) adjusted(cs CapitalStructure) Assumptions {
	debt, equity := cs.DebtPct, cs.EquityPct
	a.DebtPct = &debt
	a.EquityPct = &equity
	a.CapitalCost = a.totalCapitalCost()
	a.WACC = WACC(cs, a.CostOfDebt, a.CostOfEquity)
	a.TaxAdjustedWACC = TaxAdjustedWACC(cs, a.CostOfDebt, a.CostOfEquity, a.TaxRate)
	return a
}
