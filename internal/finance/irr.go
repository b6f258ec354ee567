package finance

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// errNoIRRBracket is returned when a cashflow sequence never changes sign,
// leaving the internal rate of return undefined.
var errNoIRRBracket = errors.New("cashflows do not change sign; irr is undefined")

// NPV discounts cashflows at the given rate, with cashflows[0] occurring
// today and each subsequent flow one year later.
func NPV(rate float64, cashflows []float64) float64 {
	discounted := make([]float64, len(cashflows))
	for i, cf := range cashflows {
		discounted[i] = cf / math.Pow(1+rate, float64(i))
	}
	return floats.Sum(discounted)
}

// IRR finds the rate at which the net present value of the sequence is zero,
// by bisection. The sequence must contain at least one negative and one
// positive cashflow.
func IRR(cashflows []float64) (float64, error) {
	hasNegative, hasPositive := false, false
	for _, cf := range cashflows {
		hasNegative = hasNegative || cf < 0
		hasPositive = hasPositive || cf > 0
	}
	if !hasNegative || !hasPositive {
		return 0, errNoIRRBracket
	}

	// NPV tends to +inf as the rate approaches -1 (late flows dominate) and
	// to cashflows[0] as the rate grows, so for the conventional
	// outflow-then-inflow profile the root is bracketed below.
	lo, hi := -0.9999, 10.0
	for NPV(hi, cashflows) > 0 {
		hi *= 2
		if hi > 1e6 {
			return 0, errNoIRRBracket
		}
	}
	for i := 0; i < 120; i++ {
		mid := (lo + hi) / 2
		if NPV(mid, cashflows) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
