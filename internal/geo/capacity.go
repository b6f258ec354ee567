package geo

// CapacityFactorFromDailyYield converts an average daily specific yield
// (kWh per kWp per day, as published by solar resource datasets) into a
// dimensionless capacity factor.
func CapacityFactorFromDailyYield(kwhPerKwpPerDay float64) float64 {
	return kwhPerKwpPerDay / 24
}
