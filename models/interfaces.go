package models

import "context"

// PriceModel is an optional external model that supplies its own price
// estimate for a symbol/timeframe. The generator blends it 50/50 with the
// technical estimate; it is never used alone and any failure falls back to
// the technical estimate.
type PriceModel interface {
	// EstimatePrice returns the model's predicted price and a confidence
	// contribution that is folded into the prediction's confidence score.
	EstimatePrice(ctx context.Context, symbol string, marketType MarketType,
		currentPrice float64, timeframe Timeframe) (price float64, confidence int, err error)
}

// OutcomeAnalyzer receives surprising validated outcomes (low confidence but
// correct, or high confidence but wrong) on an advisory side channel. Its
// output never changes the stored Outcome and its failure never blocks
// outcome creation.
type OutcomeAnalyzer interface {
	AnalyzeOutcome(prediction PredictionRecord, outcome Outcome)
}
