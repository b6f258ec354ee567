package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validAssumptions is the 30 MW utility-scale solar reference case used
// throughout the package tests.
func validAssumptions() Assumptions {
	return Assumptions{
		CapacityMW:           30,
		CapacityFactor:       0.097,
		CapexPerMW:           670_000,
		OMCostPctOfCapex:     0.02,
		CostOfDebt:           0.04,
		CostOfEquity:         0.12,
		TaxRate:              0.25,
		ProjectLifetimeYears: 20,
		TargetDSCR:           1.3,
	}
}

func f64(v float64) *float64 { return &v }

func TestValidateAcceptsReferenceCase(t *testing.T) {
	require.NoError(t, validAssumptions().Validate())
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*Assumptions)
	}{
		{"zero capacity", "capacity_mw", func(a *Assumptions) { a.CapacityMW = 0 }},
		{"negative capacity", "capacity_mw", func(a *Assumptions) { a.CapacityMW = -5 }},
		{"zero capacity factor", "capacity_factor", func(a *Assumptions) { a.CapacityFactor = 0 }},
		{"capacity factor above one", "capacity_factor", func(a *Assumptions) { a.CapacityFactor = 1.2 }},
		{"zero capex", "capital_expenditure_per_mw", func(a *Assumptions) { a.CapexPerMW = 0 }},
		{"negative o&m", "o_m_cost_pct_of_capital_cost", func(a *Assumptions) { a.OMCostPctOfCapex = -0.01 }},
		{"negative cost of debt", "cost_of_debt", func(a *Assumptions) { a.CostOfDebt = -0.01 }},
		{"negative cost of equity", "cost_of_equity", func(a *Assumptions) { a.CostOfEquity = -0.01 }},
		{"tax rate of one", "tax_rate", func(a *Assumptions) { a.TaxRate = 1 }},
		{"zero lifetime", "project_lifetime_years", func(a *Assumptions) { a.ProjectLifetimeYears = 0 }},
		{"zero dscr target", "dcsr", func(a *Assumptions) { a.TargetDSCR = 0 }},
		{"debt pct above one", "debt_pct_of_capital_cost", func(a *Assumptions) { a.DebtPct = f64(1.5) }},
		{"negative equity pct", "equity_pct_of_capital_cost", func(a *Assumptions) { a.EquityPct = f64(-0.2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssumptions()
			tt.mutate(&a)

			var verr *ValidationError
			require.ErrorAs(t, a.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateRejectsInconsistentSplit(t *testing.T) {
	a := validAssumptions()
	a.DebtPct = f64(0.6)
	a.EquityPct = f64(0.6)

	var verr *ValidationError
	require.ErrorAs(t, a.Validate(), &verr)
}

func TestValidateAcceptsSplitWithinTolerance(t *testing.T) {
	a := validAssumptions()
	a.DebtPct = f64(0.8)
	a.EquityPct = f64(0.2 + 5e-7)

	require.NoError(t, a.Validate())
}

func TestResolveCapitalStructureDerivesMissingLeg(t *testing.T) {
	a := validAssumptions()
	a.DebtPct = f64(0.7)
	cs, ok := a.ResolveCapitalStructure()
	require.True(t, ok)
	assert.InDelta(t, 0.7, cs.DebtPct, 1e-12)
	assert.InDelta(t, 0.3, cs.EquityPct, 1e-12)

	b := validAssumptions()
	b.EquityPct = f64(0.25)
	cs, ok = b.ResolveCapitalStructure()
	require.True(t, ok)
	assert.InDelta(t, 0.75, cs.DebtPct, 1e-12)
	assert.InDelta(t, 0.25, cs.EquityPct, 1e-12)
}

func TestResolveCapitalStructureUnspecified(t *testing.T) {
	_, ok := validAssumptions().ResolveCapitalStructure()
	assert.False(t, ok)
}

func TestWACCFormulas(t *testing.T) {
	cs := CapitalStructure{DebtPct: 0.8, EquityPct: 0.2}
	assert.InDelta(t, 0.8*0.05+0.2*0.10, WACC(cs, 0.05, 0.10), 1e-12)
	assert.InDelta(t, 0.8*0.05*0.7+0.2*0.10, TaxAdjustedWACC(cs, 0.05, 0.10, 0.3), 1e-12)
}
