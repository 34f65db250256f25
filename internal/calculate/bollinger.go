package calculate

import "math"

// calculateBollingerBands returns the upper, middle and lower bands: the
// middle is the SMA of the last period closes, the outer bands sit stdDev
// population standard deviations away from it.
func calculateBollingerBands(prices []float64, period int, stdDev float64) (float64, float64, float64) {
	middle := calculateSMA(prices, period)

	var variance float64
	for i := len(prices) - period; i < len(prices); i++ {
		variance += math.Pow(prices[i]-middle, 2)
	}
	sd := math.Sqrt(variance / float64(period))

	return middle + (sd * stdDev), middle, middle - (sd * stdDev)
}
