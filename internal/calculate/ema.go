package calculate

// calculateSMA returns the simple moving average of the last period closes.
func calculateSMA(prices []float64, period int) float64 {
	var sum float64
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period)
}

// calculateEMA returns the exponential moving average of the closes,
// seeded with the SMA of the first period values and smoothed with the
// standard 2/(period+1) multiplier.
func calculateEMA(prices []float64, period int) float64 {
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema
}
