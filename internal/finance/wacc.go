package finance

// WACC blends the cost of debt and the cost of equity by their
// capital-structure weights.
func WACC(cs CapitalStructure, costOfDebt, costOfEquity float64) float64 {
	return cs.DebtPct*costOfDebt + cs.EquityPct*costOfEquity
}

// TaxAdjustedWACC applies the interest tax shield to the debt leg.
func TaxAdjustedWACC(cs CapitalStructure, costOfDebt, costOfEquity, taxRate float64) float64 {
	return cs.DebtPct*costOfDebt*(1-taxRate) + cs.EquityPct*costOfEquity
}
