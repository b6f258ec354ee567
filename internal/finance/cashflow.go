package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Period is one row of the cashflow schedule. Year 0 carries only the equity
// outflow and the opening debt balance. DSCR is nil for years with no debt
// service due, which keeps an undefined (infinite) ratio out of the JSON
// representation.
type Period struct {
	Year           int      `json:"year"`
	EnergyMWh      float64  `json:"energy_mwh"`
	Revenue        float64  `json:"revenue"`
	OperatingCosts float64  `json:"operating_costs"`
	EBITDA         float64  `json:"ebitda"`
	Interest       float64  `json:"interest"`
	Principal      float64  `json:"principal"`
	DebtBalance    float64  `json:"debt_balance"`
	Depreciation   float64  `json:"depreciation"`
	TaxableIncome  float64  `json:"taxable_income"`
	Tax            float64  `json:"tax"`
	EquityCashflow float64  `json:"equity_cashflow"`
	DSCR           *float64 `json:"dscr,omitempty"`
}

// Schedule is the full per-year cashflow model: year 0 through the final
// project year, always ProjectLifetimeYears+1 rows.
type Schedule []Period

// GenerateSchedule builds the project cashflow at a given tariff ($/MWh) and
// debt fraction. Energy output and operating costs are constant across years;
// debt amortizes on a level-payment schedule over the full project life;
// depreciation is straight-line; tax is floored at zero each year with no
// loss carryforward. The function is pure: identical inputs produce identical
// rows.
func GenerateSchedule(a Assumptions, tariff, debtFraction float64) Schedule {
	years := a.ProjectLifetimeYears
	capital := a.totalCapitalCost()
	energy := a.annualEnergyMWh()
	opex := a.annualOperatingCosts()
	debt := debtFraction * capital
	payment := annuityPayment(debt, a.CostOfDebt, years)
	depreciation := capital / float64(years)

	schedule := make(Schedule, 0, years+1)
	schedule = append(schedule, Period{
		Year:           0,
		DebtBalance:    debt,
		EquityCashflow: -(capital - debt),
	})

	balance := debt
	for year := 1; year <= years; year++ {
		var interest, principal float64
		if balance > 0 {
			interest = balance * a.CostOfDebt
			principal = math.Min(payment-interest, balance)
			balance -= principal
			// Absorb float residue so the balance lands exactly on zero in
			// the final amortization year.
			if balance < capital*1e-12 {
				balance = 0
			}
		}

		revenue := energy * tariff
		ebitda := revenue - opex
		taxable := ebitda - interest - depreciation
		tax := a.TaxRate * math.Max(0, taxable)

		p := Period{
			Year:           year,
			EnergyMWh:      energy,
			Revenue:        revenue,
			OperatingCosts: opex,
			EBITDA:         ebitda,
			Interest:       interest,
			Principal:      principal,
			DebtBalance:    balance,
			Depreciation:   depreciation,
			TaxableIncome:  taxable,
			Tax:            tax,
			EquityCashflow: ebitda - interest - principal - tax,
		}
		if service := interest + principal; service > 0 {
			dscr := ebitda / service
			p.DSCR = &dscr
		}
		schedule = append(schedule, p)
	}
	return schedule
}

// EquityCashflows returns the post-tax equity cashflow sequence, year 0
// first.
func (s Schedule) EquityCashflows() []float64 {
	flows := make([]float64, len(s))
	for i, p := range s {
		flows[i] = p.EquityCashflow
	}
	return flows
}

// MinDSCR returns the worst annual debt service coverage ratio over the
// years with debt outstanding. ok is false when the schedule carries no debt
// service at all.
func (s Schedule) MinDSCR() (min float64, ok bool) {
	var ratios []float64
	for _, p := range s {
		if p.DSCR != nil {
			ratios = append(ratios, *p.DSCR)
		}
	}
	if len(ratios) == 0 {
		return 0, false
	}
	return floats.Min(ratios), true
}

// annuityPayment is the constant yearly debt service that amortizes
// principal at rate over the given number of years.
func annuityPayment(principal, rate float64, years int) float64 {
	if principal == 0 || years == 0 {
		return 0
	}
	if rate == 0 {
		return principal / float64(years)
	}
	return principal * rate / (1 - math.Pow(1+rate, -float64(years)))
}
