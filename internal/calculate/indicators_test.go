package calculate

import (
	"errors"
	"math"
	"testing"

	"marketcast/models"
)

func generateSeries(n int, generator func(i int) float64) []float64 {
	prices := make([]float64, n)
	for i := 0; i < n; i++ {
		prices[i] = generator(i)
	}
	return prices
}

func TestComputeInsufficientData(t *testing.T) {
	prices := generateSeries(30, func(i int) float64 { return 100 + float64(i) })

	_, err := Compute(prices)
	if err == nil {
		t.Fatal("expected error for 30-point series, got nil")
	}

	var insufficientErr *models.InsufficientDataError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientDataError, got %T: %v", err, err)
	}
	if insufficientErr.Have != 30 || insufficientErr.Want != MinSeriesLength {
		t.Errorf("InsufficientDataError = have %d want %d, expected have 30 want %d",
			insufficientErr.Have, insufficientErr.Want, MinSeriesLength)
	}
}

func TestRSIBounds(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{
			name:   "steady uptrend",
			prices: generateSeries(50, func(i int) float64 { return 100 + float64(i)*2 }),
		},
		{
			name:   "steady downtrend",
			prices: generateSeries(50, func(i int) float64 { return 200 - float64(i)*2 }),
		},
		{
			name:   "zigzag",
			prices: generateSeries(50, func(i int) float64 { return 100 + float64(i%2)*3 }),
		},
		{
			name:   "flat",
			prices: generateSeries(50, func(i int) float64 { return 100 }),
		},
		{
			name:   "volatile trend",
			prices: generateSeries(60, func(i int) float64 { return 100 + float64(i)*1.5 + float64(i%5)*4 }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Compute(tt.prices)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			if snap.RSI14 < 0 || snap.RSI14 > 100 {
				t.Errorf("RSI14 = %v, want within [0, 100]", snap.RSI14)
			}
		})
	}
}

func TestRSIExtremes(t *testing.T) {
	rising := generateSeries(50, func(i int) float64 { return 100 + float64(i) })
	snap, err := Compute(rising)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if snap.RSI14 != 100 {
		t.Errorf("RSI14 for all-gains series = %v, want 100", snap.RSI14)
	}

	falling := generateSeries(50, func(i int) float64 { return 200 - float64(i) })
	snap, err = Compute(falling)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	if snap.RSI14 != 0 {
		t.Errorf("RSI14 for all-losses series = %v, want 0", snap.RSI14)
	}
}

func TestFlatSeriesDegenerates(t *testing.T) {
	snap, err := Compute(generateSeries(50, func(i int) float64 { return 100 }))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if snap.SMA20 != 100 || snap.EMA12 != 100 {
		t.Errorf("flat series: SMA20 = %v, EMA12 = %v, want 100 each", snap.SMA20, snap.EMA12)
	}
	if snap.BBUpper != 100 || snap.BBMiddle != 100 || snap.BBLower != 100 {
		t.Errorf("flat series: bands = (%v, %v, %v), want collapsed at 100",
			snap.BBUpper, snap.BBMiddle, snap.BBLower)
	}
	if snap.MACD != 0 || snap.MACDHist != 0 {
		t.Errorf("flat series: MACD = %v, hist = %v, want 0 each", snap.MACD, snap.MACDHist)
	}
}

func TestBollingerOrdering(t *testing.T) {
	prices := generateSeries(55, func(i int) float64 { return 100 + float64(i%7)*3 })
	snap, err := Compute(prices)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if snap.BBLower > snap.BBMiddle || snap.BBMiddle > snap.BBUpper {
		t.Errorf("band ordering violated: lower %v, middle %v, upper %v",
			snap.BBLower, snap.BBMiddle, snap.BBUpper)
	}
	if snap.BBMiddle != snap.SMA20 {
		t.Errorf("middle band %v != SMA20 %v", snap.BBMiddle, snap.SMA20)
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	prices := generateSeries(60, func(i int) float64 { return 100 + float64(i)*0.8 + float64(i%4)*2 })
	snap, err := Compute(prices)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if diff := math.Abs(snap.MACDHist - (snap.MACD - snap.MACDSignal)); diff > 1e-9 {
		t.Errorf("histogram %v != macd %v - signal %v", snap.MACDHist, snap.MACD, snap.MACDSignal)
	}
}

func TestComputeDeterministic(t *testing.T) {
	prices := generateSeries(50, func(i int) float64 { return 100 + float64(i)*1.2 + float64(i%3)*5 })

	first, err := Compute(prices)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	second, err := Compute(prices)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	if *first != *second {
		t.Errorf("Compute() not deterministic: %+v vs %+v", first, second)
	}
}

func TestUptrendSnapshotShape(t *testing.T) {
	prices := generateSeries(50, func(i int) float64 { return 100 + float64(i)*2 })
	snap, err := Compute(prices)
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}

	last := prices[len(prices)-1]
	if snap.RSI14 <= 60 {
		t.Errorf("uptrend RSI14 = %v, want > 60", snap.RSI14)
	}
	if snap.MACDHist <= 0 {
		t.Errorf("uptrend MACD histogram = %v, want > 0", snap.MACDHist)
	}
	if last <= snap.SMA20 || snap.EMA12 <= snap.SMA20 {
		t.Errorf("uptrend trend alignment violated: price %v, EMA12 %v, SMA20 %v",
			last, snap.EMA12, snap.SMA20)
	}
}
