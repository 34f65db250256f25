package calculate

// calculateMACD returns the MACD line (fast EMA minus slow EMA), the signal
// line (EMA of the MACD line) and the histogram (MACD minus signal).
func calculateMACD(prices []float64, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	macdLine := calculateEMA(prices, fastPeriod) - calculateEMA(prices, slowPeriod)

	// Build the MACD series over expanding windows so the signal line has
	// history to smooth over.
	macdHistory := make([]float64, 0, len(prices)-slowPeriod+1)
	for i := slowPeriod - 1; i < len(prices); i++ {
		window := prices[:i+1]
		macdHistory = append(macdHistory, calculateEMA(window, fastPeriod)-calculateEMA(window, slowPeriod))
	}

	signalLine := 0.0
	if len(macdHistory) >= signalPeriod {
		signalLine = calculateEMA(macdHistory, signalPeriod)
	}

	return macdLine, signalLine, macdLine - signalLine
}
