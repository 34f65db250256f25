package accuracy

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcast/models"
)

func validatedRow(symbol string, market models.MarketType, validatedAt time.Time, correct bool) models.ValidatedPrediction {
	return models.ValidatedPrediction{
		Prediction: models.PredictionRecord{
			ID:         fmt.Sprintf("pred-%s-%d", symbol, validatedAt.UnixNano()),
			Symbol:     symbol,
			MarketType: market,
		},
		Outcome: models.Outcome{
			ValidatedAt:      validatedAt,
			DirectionCorrect: correct,
		},
	}
}

func TestAggregateEmpty(t *testing.T) {
	stat, err := Aggregate(nil, Options{Days: 7})
	require.NoError(t, err)

	assert.Equal(t, 0, stat.TotalPredictions)
	assert.Equal(t, 0, stat.CorrectDirections)
	assert.Equal(t, 0.0, stat.AccuracyPercentage)
	assert.Empty(t, stat.Buckets)
}

func TestAggregateDaysRange(t *testing.T) {
	for _, days := range []int{0, -1, 366} {
		_, err := Aggregate(nil, Options{Days: days})
		require.Error(t, err, "days=%d", days)

		var validationErr *models.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	}

	for _, days := range []int{1, 365} {
		_, err := Aggregate(nil, Options{Days: days})
		assert.NoError(t, err, "days=%d", days)
	}
}

func TestAggregatePercentage(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ValidatedPrediction{
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-1*time.Hour), true),
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-2*time.Hour), true),
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-3*time.Hour), false),
	}

	stat, err := Aggregate(rows, Options{Days: 7, Now: now})
	require.NoError(t, err)

	assert.Equal(t, 3, stat.TotalPredictions)
	assert.Equal(t, 2, stat.CorrectDirections)
	assert.InDelta(t, 66.67, stat.AccuracyPercentage, 0.01)
}

func TestAggregateWindowFilter(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ValidatedPrediction{
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-1*time.Hour), true),
		// Outside the 7-day window.
		validatedRow("BTCUSD", models.MarketCrypto, now.AddDate(0, 0, -8), true),
		// In the future relative to the anchor.
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(time.Hour), true),
	}

	stat, err := Aggregate(rows, Options{Days: 7, Now: now})
	require.NoError(t, err)

	assert.Equal(t, 1, stat.TotalPredictions)
}

func TestAggregateSymbolAndMarketFilters(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ValidatedPrediction{
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-1*time.Hour), true),
		validatedRow("ETHUSD", models.MarketCrypto, now.Add(-2*time.Hour), false),
		validatedRow("XAUUSD", models.MarketGold, now.Add(-3*time.Hour), true),
	}

	stat, err := Aggregate(rows, Options{Days: 7, Now: now, Symbol: "BTCUSD"})
	require.NoError(t, err)
	assert.Equal(t, 1, stat.TotalPredictions)
	assert.Equal(t, 100.0, stat.AccuracyPercentage)

	stat, err = Aggregate(rows, Options{Days: 7, Now: now, MarketType: models.MarketGold})
	require.NoError(t, err)
	assert.Equal(t, 1, stat.TotalPredictions)

	stat, err = Aggregate(rows, Options{Days: 7, Now: now, MarketType: models.MarketCrypto})
	require.NoError(t, err)
	assert.Equal(t, 2, stat.TotalPredictions)
	assert.Equal(t, 50.0, stat.AccuracyPercentage)
}

func TestAggregateDailyBuckets(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ValidatedPrediction{
		validatedRow("BTCUSD", models.MarketCrypto, time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC), true),
		validatedRow("BTCUSD", models.MarketCrypto, time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC), false),
		validatedRow("BTCUSD", models.MarketCrypto, time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC), true),
	}

	stat, err := Aggregate(rows, Options{Days: 7, Now: now, DailyBuckets: true})
	require.NoError(t, err)
	require.Len(t, stat.Buckets, 2)

	// Buckets come back sorted by day.
	assert.Equal(t, "2026-08-18", stat.Buckets[0].Day)
	assert.Equal(t, 1, stat.Buckets[0].TotalPredictions)
	assert.Equal(t, 100.0, stat.Buckets[0].AccuracyPercentage)

	assert.Equal(t, "2026-08-19", stat.Buckets[1].Day)
	assert.Equal(t, 2, stat.Buckets[1].TotalPredictions)
	assert.Equal(t, 50.0, stat.Buckets[1].AccuracyPercentage)

	assert.Equal(t, 3, stat.TotalPredictions)
	assert.Equal(t, 2, stat.CorrectDirections)
}

func TestAggregateWithoutBucketsOmitsBreakdown(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	rows := []models.ValidatedPrediction{
		validatedRow("BTCUSD", models.MarketCrypto, now.Add(-time.Hour), true),
	}

	stat, err := Aggregate(rows, Options{Days: 7, Now: now})
	require.NoError(t, err)
	assert.Nil(t, stat.Buckets)
}
