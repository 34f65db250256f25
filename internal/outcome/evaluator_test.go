package outcome

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcast/models"
)

func duePrediction(confidence int, direction models.Direction) *models.PredictionRecord {
	return &models.PredictionRecord{
		ID:                 "pred-1",
		Symbol:             "BTCUSD",
		MarketType:         models.MarketCrypto,
		Timeframe:          models.Timeframe1h,
		CreatedAt:          time.Now().UTC().Add(-2 * time.Hour),
		CurrentPrice:       46800.50,
		PredictedPrice:     47250.00,
		PredictedDirection: direction,
		ConfidenceScore:    confidence,
		ConfidenceLevel:    models.ConfidenceLevelFor(confidence),
	}
}

func TestEvaluateCorrectUpPrediction(t *testing.T) {
	e := NewEvaluator(nil)
	prediction := duePrediction(78, models.DirectionUp)

	out, err := e.Evaluate(prediction, 47100.00, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, "pred-1", out.PredictionID)
	assert.Equal(t, models.DirectionUp, out.ActualDirection)
	assert.True(t, out.DirectionCorrect)
	assert.InDelta(t, -150.00, out.PriceDiff, 1e-9)
	assert.InDelta(t, -0.31746, out.PercentDiff, 1e-4)
	assert.Equal(t, models.SuccessFull, out.SuccessLevel)
	assert.NotEmpty(t, out.ID)
}

func TestEvaluateNotYetDue(t *testing.T) {
	e := NewEvaluator(nil)
	prediction := duePrediction(78, models.DirectionUp)
	prediction.CreatedAt = time.Now().UTC().Add(-10 * time.Minute)

	_, err := e.Evaluate(prediction, 47100.00, time.Now().UTC())
	require.Error(t, err)

	var notYetDue *models.NotYetDueError
	require.True(t, errors.As(err, &notYetDue))
	assert.Equal(t, "pred-1", notYetDue.PredictionID)
	assert.Equal(t, prediction.DueAt(), notYetDue.DueAt)
}

func TestEvaluateRejectsNonPositivePrice(t *testing.T) {
	e := NewEvaluator(nil)

	_, err := e.Evaluate(duePrediction(78, models.DirectionUp), 0, time.Now().UTC())
	require.Error(t, err)

	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestEvaluateDeterministic(t *testing.T) {
	e := NewEvaluator(nil)
	prediction := duePrediction(78, models.DirectionUp)
	at := time.Now().UTC()

	first, err := e.Evaluate(prediction, 47100.00, at)
	require.NoError(t, err)
	second, err := e.Evaluate(prediction, 47100.00, at)
	require.NoError(t, err)

	// Only the generated ID differs between runs.
	assert.Equal(t, first.ActualDirection, second.ActualDirection)
	assert.Equal(t, first.PriceDiff, second.PriceDiff)
	assert.Equal(t, first.PercentDiff, second.PercentDiff)
	assert.Equal(t, first.DirectionCorrect, second.DirectionCorrect)
	assert.Equal(t, first.SuccessLevel, second.SuccessLevel)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEvaluateUnchangedPriceIsSideways(t *testing.T) {
	e := NewEvaluator(nil)
	prediction := duePrediction(55, models.DirectionUp)

	out, err := e.Evaluate(prediction, prediction.CurrentPrice, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, models.DirectionSideways, out.ActualDirection)
	assert.False(t, out.DirectionCorrect)
}

func TestSuccessLevelFor(t *testing.T) {
	tests := []struct {
		name             string
		directionCorrect bool
		absPercentDiff   float64
		want             models.SuccessLevel
	}{
		{"correct and tight", true, 0.5, models.SuccessFull},
		{"correct at full boundary", true, 1.0, models.SuccessPartial},
		{"correct but far off", true, 3.0, models.SuccessPartial},
		{"wrong but close", false, 0.5, models.SuccessPartial},
		{"wrong at miss boundary", false, 2.0, models.SuccessPartial},
		{"wrong and far off", false, 2.01, models.SuccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, successLevelFor(tt.directionCorrect, tt.absPercentDiff))
		})
	}
}

type recordingAnalyzer struct {
	calls chan models.Outcome
}

func (a *recordingAnalyzer) AnalyzeOutcome(_ models.PredictionRecord, out models.Outcome) {
	a.calls <- out
}

func TestSurprisingOutcomeNotifiesAnalyzer(t *testing.T) {
	analyzer := &recordingAnalyzer{calls: make(chan models.Outcome, 1)}
	e := NewEvaluator(analyzer)

	// Low confidence yet correct: surprising.
	prediction := duePrediction(30, models.DirectionUp)
	out, err := e.Evaluate(prediction, 47100.00, time.Now().UTC())
	require.NoError(t, err)

	select {
	case got := <-analyzer.calls:
		assert.Equal(t, out.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("analyzer was not notified of surprising outcome")
	}
}

func TestExpectedOutcomeSkipsAnalyzer(t *testing.T) {
	analyzer := &recordingAnalyzer{calls: make(chan models.Outcome, 1)}
	e := NewEvaluator(analyzer)

	// High confidence and correct: exactly what was promised, no call.
	_, err := e.Evaluate(duePrediction(85, models.DirectionUp), 47100.00, time.Now().UTC())
	require.NoError(t, err)

	// Medium confidence never triggers the analyzer either way.
	_, err = e.Evaluate(duePrediction(55, models.DirectionDown), 47100.00, time.Now().UTC())
	require.NoError(t, err)

	select {
	case <-analyzer.calls:
		t.Fatal("analyzer called for an unsurprising outcome")
	case <-time.After(100 * time.Millisecond):
	}
}
