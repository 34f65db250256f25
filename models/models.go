package models

import (
	"time"
)

// MarketType identifies the asset class a prediction belongs to.
type MarketType string

const (
	MarketCrypto MarketType = "crypto"
	MarketGold   MarketType = "gold"
)

// Valid reports whether the market type is one of the supported values.
func (m MarketType) Valid() bool {
	return m == MarketCrypto || m == MarketGold
}

// Direction is a predicted or realized price direction.
type Direction string

const (
	DirectionUp       Direction = "UP"
	DirectionDown     Direction = "DOWN"
	DirectionSideways Direction = "SIDEWAYS"
)

// ConfidenceLevel is the tiered view of a numeric confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// ConfidenceLevelFor maps a 0-100 score to its tier: LOW <=40, MEDIUM 41-70, HIGH >=71.
func ConfidenceLevelFor(score int) ConfidenceLevel {
	switch {
	case score <= 40:
		return ConfidenceLow
	case score <= 70:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// SuccessLevel classifies how well a validated prediction matched reality.
type SuccessLevel string

const (
	SuccessNone    SuccessLevel = "NONE"
	SuccessPartial SuccessLevel = "PARTIAL"
	SuccessFull    SuccessLevel = "FULL"
)

// IndicatorSnapshot holds the technical indicators computed once per price series.
type IndicatorSnapshot struct {
	RSI14      float64 `json:"rsi14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_histogram"`
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	SMA20      float64 `json:"sma20"`
	EMA12      float64 `json:"ema12"`
}

// PredictionRecord is a single directional price prediction. Immutable once created.
type PredictionRecord struct {
	ID                 string            `json:"id"`
	Symbol             string            `json:"symbol"`
	MarketType         MarketType        `json:"market_type"`
	Timeframe          Timeframe         `json:"timeframe"`
	CreatedAt          time.Time         `json:"created_at"`
	CurrentPrice       float64           `json:"current_price"`
	PredictedPrice     float64           `json:"predicted_price"`
	PredictedDirection Direction         `json:"predicted_direction"`
	ConfidenceScore    int               `json:"confidence_score"`
	ConfidenceLevel    ConfidenceLevel   `json:"confidence_level"`
	SentimentScore     float64           `json:"sentiment_score"`
	Snapshot           IndicatorSnapshot `json:"indicator_snapshot"`
	Reasoning          string            `json:"reasoning"`
}

// DueAt returns the moment the prediction becomes eligible for validation.
func (p *PredictionRecord) DueAt() time.Time {
	return p.CreatedAt.Add(p.Timeframe.Horizon())
}

// Outcome is the realized result of exactly one prediction. Created once, never mutated.
type Outcome struct {
	ID               string       `json:"id"`
	PredictionID     string       `json:"prediction_id"`
	ValidatedAt      time.Time    `json:"validated_at"`
	ActualPrice      float64      `json:"actual_price"`
	ActualDirection  Direction    `json:"actual_direction"`
	PriceDiff        float64      `json:"price_diff"`
	PercentDiff      float64      `json:"percent_diff"`
	DirectionCorrect bool         `json:"direction_correct"`
	SuccessLevel     SuccessLevel `json:"success_level"`
}

// ValidatedPrediction is an Outcome joined to the PredictionRecord it validated.
type ValidatedPrediction struct {
	Prediction PredictionRecord `json:"prediction"`
	Outcome    Outcome          `json:"outcome"`
}

// AccuracyBucket is a per-day slice of an accuracy aggregate.
type AccuracyBucket struct {
	Day                string  `json:"day"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectDirections  int     `json:"correct_directions"`
	AccuracyPercentage float64 `json:"accuracy_percentage"`
}

// AccuracyStat is a read-derived aggregate over validated predictions.
// It is recomputed on demand and never stored as a mutable entity.
type AccuracyStat struct {
	TotalPredictions   int              `json:"total_predictions"`
	CorrectDirections  int              `json:"correct_directions"`
	AccuracyPercentage float64          `json:"accuracy_percentage"`
	Buckets            []AccuracyBucket `json:"buckets,omitempty"`
}
