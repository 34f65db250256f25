// Package predict turns an indicator snapshot and a sentiment score into
// directional price predictions, one per requested timeframe.
package predict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/internal/calculate"
	"marketcast/models"
)

// MagnitudeTable maps each timeframe to the maximum expected relative move
// at full signal strength. Longer horizons must carry larger magnitudes so
// batch predictions grow monotonically more extreme with the horizon.
type MagnitudeTable map[models.Timeframe]float64

// DefaultMagnitudes returns the stock magnitude table.
func DefaultMagnitudes() MagnitudeTable {
	return MagnitudeTable{
		models.Timeframe30m: 0.005,
		models.Timeframe1h:  0.008,
		models.Timeframe3h:  0.015,
		models.Timeframe6h:  0.025,
	}
}

// Generator produces prediction records. It holds no mutable state, so a
// single Generator is safe for arbitrary concurrent use.
type Generator struct {
	magnitudes MagnitudeTable
	model      models.PriceModel // optional, may be nil
	logger     zerolog.Logger
}

// NewGenerator creates a Generator with the given magnitude table and an
// optional external price model. Pass nil to run purely on technicals.
func NewGenerator(magnitudes MagnitudeTable, model models.PriceModel) *Generator {
	if magnitudes == nil {
		magnitudes = DefaultMagnitudes()
	}
	return &Generator{
		magnitudes: magnitudes,
		model:      model,
		logger:     log.With().Str("component", "predictor").Logger(),
	}
}

// Predict produces a single prediction for one timeframe.
func (g *Generator) Predict(ctx context.Context, symbol string, marketType models.MarketType,
	currentPrice float64, prices []float64, sentiment float64, timeframe models.Timeframe) (*models.PredictionRecord, error) {

	if err := validateInput(symbol, marketType, currentPrice, prices, sentiment); err != nil {
		return nil, err
	}
	if !timeframe.Valid() {
		return nil, &models.ValidationError{Field: "timeframe", Reason: "must be one of 30m, 1h, 3h, 6h"}
	}

	snap, err := calculate.Compute(prices)
	if err != nil {
		return nil, err
	}

	return g.fromSnapshot(ctx, symbol, marketType, currentPrice, sentiment, timeframe, snap), nil
}

// PredictAll produces one prediction per supported timeframe. The indicator
// snapshot is computed once and shared, so the four records differ only in
// the per-timeframe magnitude.
func (g *Generator) PredictAll(ctx context.Context, symbol string, marketType models.MarketType,
	currentPrice float64, prices []float64, sentiment float64) ([]*models.PredictionRecord, error) {

	if err := validateInput(symbol, marketType, currentPrice, prices, sentiment); err != nil {
		return nil, err
	}

	snap, err := calculate.Compute(prices)
	if err != nil {
		return nil, err
	}

	timeframes := models.AllTimeframes()
	records := make([]*models.PredictionRecord, 0, len(timeframes))
	for _, tf := range timeframes {
		records = append(records, g.fromSnapshot(ctx, symbol, marketType, currentPrice, sentiment, tf, snap))
	}
	return records, nil
}

// fromSnapshot runs the signal model against an already computed snapshot.
func (g *Generator) fromSnapshot(ctx context.Context, symbol string, marketType models.MarketType,
	currentPrice, sentiment float64, timeframe models.Timeframe, snap *models.IndicatorSnapshot) *models.PredictionRecord {

	votes := castVotes(snap, currentPrice)
	s := blendSignal(votes.strength(), sentiment)
	direction := directionFor(s)

	predicted := currentPrice * (1 + s*g.magnitudes[timeframe])
	confidence := confidenceScore(votes, sentiment, direction)

	// Blend in the external model when available. A failing model never
	// fails the prediction: the technical estimate stands on its own.
	if g.model != nil {
		modelPrice, modelConfidence, err := g.model.EstimatePrice(ctx, symbol, marketType, currentPrice, timeframe)
		if err != nil {
			g.logger.Warn().Err(err).Str("symbol", symbol).Str("timeframe", string(timeframe)).
				Msg("external model unavailable, using technical estimate")
		} else {
			predicted = (predicted + modelPrice) / 2
			confidence += modelConfidence
			if confidence > 100 {
				confidence = 100
			}
			if confidence < 0 {
				confidence = 0
			}
		}
	}

	record := &models.PredictionRecord{
		ID:                 uuid.NewString(),
		Symbol:             symbol,
		MarketType:         marketType,
		Timeframe:          timeframe,
		CreatedAt:          time.Now().UTC(),
		CurrentPrice:       currentPrice,
		PredictedPrice:     predicted,
		PredictedDirection: direction,
		ConfidenceScore:    confidence,
		ConfidenceLevel:    models.ConfidenceLevelFor(confidence),
		SentimentScore:     sentiment,
		Snapshot:           *snap,
		Reasoning:          buildReasoning(votes, snap, sentiment, direction),
	}

	g.logger.Debug().
		Str("symbol", symbol).
		Str("timeframe", string(timeframe)).
		Str("direction", string(direction)).
		Int("confidence", confidence).
		Float64("signal", s).
		Msg("prediction generated")

	return record
}

// validateInput rejects malformed requests before any computation runs. No
// partial predictions are ever emitted.
func validateInput(symbol string, marketType models.MarketType, currentPrice float64,
	prices []float64, sentiment float64) error {

	if symbol == "" {
		return &models.ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if !marketType.Valid() {
		return &models.ValidationError{Field: "market_type", Reason: "must be crypto or gold"}
	}
	if currentPrice <= 0 {
		return &models.ValidationError{Field: "current_price", Reason: "must be positive"}
	}
	if len(prices) < calculate.MinSeriesLength {
		return &models.ValidationError{Field: "prices",
			Reason: (&models.InsufficientDataError{Have: len(prices), Want: calculate.MinSeriesLength}).Error()}
	}
	if !(sentiment >= -1 && sentiment <= 1) {
		return &models.ValidationError{Field: "sentiment_score", Reason: "must be within [-1, 1]"}
	}
	return nil
}
