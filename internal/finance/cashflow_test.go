package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateScheduleShapeAndDebtRetirement(t *testing.T) {
	a := validAssumptions()
	s := GenerateSchedule(a, 80, 0.7)

	require.Len(t, s, a.ProjectLifetimeYears+1)

	capital := 30 * 670_000.0
	assert.InDelta(t, -(capital * 0.3), s[0].EquityCashflow, 1e-6)
	assert.InDelta(t, capital*0.7, s[0].DebtBalance, 1e-6)

	// Level-payment amortization: total debt service is constant while debt
	// is outstanding, and the balance never goes negative.
	service := s[1].Interest + s[1].Principal
	for _, p := range s[1:] {
		if p.DSCR != nil {
			assert.InDelta(t, service, p.Interest+p.Principal, 1e-6)
		}
		assert.GreaterOrEqual(t, p.DebtBalance, 0.0)
	}
	assert.Zero(t, s[len(s)-1].DebtBalance)
}

func TestGenerateScheduleRowValues(t *testing.T) {
	a := validAssumptions()
	s := GenerateSchedule(a, 100, 0.5)

	energy := 30 * 0.097 * 8760.0
	capital := 20_100_000.0
	assert.InDelta(t, energy, s[1].EnergyMWh, 1e-9)
	assert.InDelta(t, energy*100, s[1].Revenue, 1e-6)
	assert.InDelta(t, 0.02*capital, s[1].OperatingCosts, 1e-6)
	assert.InDelta(t, s[1].Revenue-s[1].OperatingCosts, s[1].EBITDA, 1e-6)
	assert.InDelta(t, capital/20, s[1].Depreciation, 1e-6)
	assert.InDelta(t, 0.5*capital*0.04, s[1].Interest, 1e-6)
	assert.InDelta(t, s[1].EBITDA-s[1].Interest-s[1].Depreciation, s[1].TaxableIncome, 1e-6)
	assert.InDelta(t, s[1].EBITDA-s[1].Interest-s[1].Principal-s[1].Tax, s[1].EquityCashflow, 1e-6)

	require.NotNil(t, s[1].DSCR)
	assert.InDelta(t, s[1].EBITDA/(s[1].Interest+s[1].Principal), *s[1].DSCR, 1e-9)
}

func TestGenerateScheduleZeroDebt(t *testing.T) {
	a := validAssumptions()
	s := GenerateSchedule(a, 80, 0)

	assert.InDelta(t, -20_100_000.0, s[0].EquityCashflow, 1e-6)
	for _, p := range s {
		assert.Nil(t, p.DSCR)
		assert.Zero(t, p.Interest)
		assert.Zero(t, p.Principal)
		assert.Zero(t, p.DebtBalance)
	}

	_, ok := s.MinDSCR()
	assert.False(t, ok)
}

func TestGenerateScheduleTaxFlooredAtZero(t *testing.T) {
	a := validAssumptions()
	// A thin tariff with heavy leverage leaves early taxable income negative.
	s := GenerateSchedule(a, 30, 0.9)

	assert.Negative(t, s[1].TaxableIncome)
	assert.Zero(t, s[1].Tax)
}

func TestGenerateScheduleDeterministic(t *testing.T) {
	a := validAssumptions()
	require.Equal(t, GenerateSchedule(a, 77.7, 0.55), GenerateSchedule(a, 77.7, 0.55))
}

func TestAnnuityPayment(t *testing.T) {
	// 1000 at 10% over 10 years is the textbook 162.745... payment.
	assert.InDelta(t, 162.7454, annuityPayment(1000, 0.10, 10), 1e-4)
	// Zero rate degenerates to straight principal repayment.
	assert.InDelta(t, 100, annuityPayment(1000, 0, 10), 1e-12)
	assert.Zero(t, annuityPayment(0, 0.10, 10))
}
