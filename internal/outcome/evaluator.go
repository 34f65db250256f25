// Package outcome validates predictions against realized prices. The
// evaluation itself is a pure function: given the same prediction and actual
// price, it always produces the same classification, so duplicate deliveries
// are safe and deduplication can live entirely in the storage layer.
package outcome

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/models"
)

// Success classification thresholds on |percent_diff|.
const (
	fullMatchPct = 1.0
	missPct      = 2.0
)

// Evaluator computes realized outcomes for due predictions. The optional
// analyzer is notified of surprising results on a fire-and-forget goroutine.
type Evaluator struct {
	analyzer models.OutcomeAnalyzer // may be nil
	logger   zerolog.Logger
}

// NewEvaluator creates an Evaluator. Pass a nil analyzer to disable the
// advisory side channel.
func NewEvaluator(analyzer models.OutcomeAnalyzer) *Evaluator {
	return &Evaluator{
		analyzer: analyzer,
		logger:   log.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate computes the Outcome for a prediction given the realized price.
// It fails with NotYetDueError when called before the prediction's horizon
// has elapsed; it never validates against a premature price.
func (e *Evaluator) Evaluate(prediction *models.PredictionRecord, actualPrice float64, validatedAt time.Time) (*models.Outcome, error) {
	if actualPrice <= 0 {
		return nil, &models.ValidationError{Field: "actual_price", Reason: "must be positive"}
	}
	if due := prediction.DueAt(); validatedAt.Before(due) {
		return nil, &models.NotYetDueError{PredictionID: prediction.ID, DueAt: due}
	}

	actualDirection := models.DirectionSideways
	if actualPrice > prediction.CurrentPrice {
		actualDirection = models.DirectionUp
	} else if actualPrice < prediction.CurrentPrice {
		actualDirection = models.DirectionDown
	}

	priceDiff := actualPrice - prediction.PredictedPrice
	percentDiff := priceDiff / prediction.PredictedPrice * 100
	directionCorrect := actualDirection == prediction.PredictedDirection

	out := &models.Outcome{
		ID:               uuid.NewString(),
		PredictionID:     prediction.ID,
		ValidatedAt:      validatedAt,
		ActualPrice:      actualPrice,
		ActualDirection:  actualDirection,
		PriceDiff:        priceDiff,
		PercentDiff:      percentDiff,
		DirectionCorrect: directionCorrect,
		SuccessLevel:     successLevelFor(directionCorrect, math.Abs(percentDiff)),
	}

	if e.analyzer != nil && isSurprising(prediction, out) {
		// Advisory only: runs detached and its result never touches the
		// numeric fields above.
		go e.analyzer.AnalyzeOutcome(*prediction, *out)
	}

	e.logger.Debug().
		Str("prediction_id", prediction.ID).
		Str("success_level", string(out.SuccessLevel)).
		Bool("direction_correct", directionCorrect).
		Float64("percent_diff", percentDiff).
		Msg("prediction validated")

	return out, nil
}

// successLevelFor is the pure classification: FULL needs the direction right
// and the price within 1%; NONE needs the direction wrong and the price off
// by more than 2%; everything in between is PARTIAL.
func successLevelFor(directionCorrect bool, absPercentDiff float64) models.SuccessLevel {
	switch {
	case directionCorrect && absPercentDiff < fullMatchPct:
		return models.SuccessFull
	case !directionCorrect && absPercentDiff > missPct:
		return models.SuccessNone
	default:
		return models.SuccessPartial
	}
}

// isSurprising flags the two confidence/correctness mismatch cells: low
// confidence but correct, and high confidence but wrong.
func isSurprising(prediction *models.PredictionRecord, out *models.Outcome) bool {
	switch prediction.ConfidenceLevel {
	case models.ConfidenceLow:
		return out.DirectionCorrect
	case models.ConfidenceHigh:
		return !out.DirectionCorrect
	}
	return false
}
