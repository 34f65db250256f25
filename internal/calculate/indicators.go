// Package calculate computes technical indicators from a close-price series.
// Everything here is a pure function of its input: no I/O, no clocks, no
// shared state, so concurrent calls are always safe.
package calculate

import (
	"marketcast/models"
)

// MinSeriesLength is the minimum number of closes required before any
// indicator is computed. Shorter input fails outright; values are never
// padded or defaulted.
const MinSeriesLength = 50

// Fixed indicator parameters. The voting scheme downstream is calibrated to
// these periods, so they are deliberately not configurable.
const (
	rsiPeriod        = 14
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
	bbPeriod         = 20
	bbStdDev         = 2.0
	smaPeriod        = 20
	emaPeriod        = 12
)

// Compute calculates the full indicator snapshot for a chronological series
// of closes. Returns InsufficientDataError when fewer than MinSeriesLength
// points are supplied.
func Compute(prices []float64) (*models.IndicatorSnapshot, error) {
	if len(prices) < MinSeriesLength {
		return nil, &models.InsufficientDataError{Have: len(prices), Want: MinSeriesLength}
	}

	rsi := calculateRSI(prices, rsiPeriod)
	macd, macdSignal, macdHist := calculateMACD(prices, macdFastPeriod, macdSlowPeriod, macdSignalPeriod)
	bbUpper, bbMiddle, bbLower := calculateBollingerBands(prices, bbPeriod, bbStdDev)

	return &models.IndicatorSnapshot{
		RSI14:      clamp(rsi, 0, 100),
		MACD:       macd,
		MACDSignal: macdSignal,
		MACDHist:   macdHist,
		BBUpper:    bbUpper,
		BBMiddle:   bbMiddle,
		BBLower:    bbLower,
		SMA20:      calculateSMA(prices, smaPeriod),
		EMA12:      calculateEMA(prices, emaPeriod),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
