package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPVAtZeroRateIsPlainSum(t *testing.T) {
	flows := []float64{-100, 40, 40, 40}
	assert.InDelta(t, 20, NPV(0, flows), 1e-9)
}

func TestNPVDiscountsLaterFlows(t *testing.T) {
	flows := []float64{-100, 110}
	assert.InDelta(t, -100+110/1.1, NPV(0.10, flows), 1e-9)
}

func TestIRRTwoPeriod(t *testing.T) {
	r, err := IRR([]float64{-100, 110})
	require.NoError(t, err)
	assert.InDelta(t, 0.10, r, 1e-9)
}

func TestIRRAnnuity(t *testing.T) {
	// A level annuity priced at 10% must return an IRR of 10%.
	payment := annuityPayment(1000, 0.10, 10)
	flows := []float64{-1000}
	for i := 0; i < 10; i++ {
		flows = append(flows, payment)
	}

	r, err := IRR(flows)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, r, 1e-9)
}

func TestIRRNegativeReturn(t *testing.T) {
	r, err := IRR([]float64{-100, 50, 40})
	require.NoError(t, err)
	assert.Less(t, r, 0.0)
	assert.InDelta(t, 0, NPV(r, []float64{-100, 50, 40}), 1e-6)
}

func TestIRRRequiresSignChange(t *testing.T) {
	_, err := IRR([]float64{-1, -2, -3})
	require.Error(t, err)

	_, err = IRR([]float64{1, 2, 3})
	require.Error(t, err)

	_, err = IRR([]float64{0, 0})
	require.Error(t, err)
}

func TestIRRRecoversHighRates(t *testing.T) {
	// 1 in, 5 out a year later: 400%.
	r, err := IRR([]float64{-1, 5})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, r, 1e-6)
	assert.False(t, math.IsNaN(r))
}
