package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketcast/models"
)

// InsertOutcome stores an outcome unless one already exists for the same
// prediction. Duplicate submissions are a silent idempotent return: the
// stored outcome comes back with created=false and no second row is ever
// written. The dedupe is done in SQL via the prediction_id unique index, so
// concurrent duplicate deliveries cannot race past it.
func (db *DB) InsertOutcome(ctx context.Context, o *models.Outcome) (*models.Outcome, bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO outcomes (
			id, prediction_id, validated_at, actual_price, actual_direction,
			price_diff, percent_diff, direction_correct, success_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (prediction_id) DO NOTHING
	`,
		o.ID, o.PredictionID, o.ValidatedAt, o.ActualPrice, o.ActualDirection,
		o.PriceDiff, o.PercentDiff, o.DirectionCorrect, o.SuccessLevel,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert outcome: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("insert outcome: %w", err)
	}
	if inserted > 0 {
		return o, true, nil
	}

	existing, err := db.GetOutcomeByPrediction(ctx, o.PredictionID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetOutcomeByPrediction retrieves the outcome recorded for a prediction.
// Returns models.ErrNotFound when the prediction has not been validated yet.
func (db *DB) GetOutcomeByPrediction(ctx context.Context, predictionID string) (*models.Outcome, error) {
	var o models.Outcome
	err := db.QueryRowContext(ctx, `
		SELECT id, prediction_id, validated_at, actual_price, actual_direction,
			price_diff, percent_diff, direction_correct, success_level
		FROM outcomes
		WHERE prediction_id = $1
	`, predictionID).Scan(
		&o.ID, &o.PredictionID, &o.ValidatedAt, &o.ActualPrice, &o.ActualDirection,
		&o.PriceDiff, &o.PercentDiff, &o.DirectionCorrect, &o.SuccessLevel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get outcome by prediction: %w", err)
	}
	return &o, nil
}

// ListValidated scans outcomes joined to their predictions, validated at or
// after since, optionally filtered by symbol and market type. Results feed
// the accuracy aggregator.
func (db *DB) ListValidated(ctx context.Context, since time.Time, symbol string, marketType string) ([]models.ValidatedPrediction, error) {
	query := `
		SELECT
			p.id, p.symbol, p.market_type, p.timeframe, p.created_at,
			p.current_price, p.predicted_price, p.predicted_direction,
			p.confidence_score, p.confidence_level, p.sentiment_score,
			p.rsi14, p.macd, p.macd_signal, p.macd_histogram,
			p.bb_upper, p.bb_middle, p.bb_lower, p.sma20, p.ema12, p.reasoning,
			o.id, o.prediction_id, o.validated_at, o.actual_price, o.actual_direction,
			o.price_diff, o.percent_diff, o.direction_correct, o.success_level
		FROM outcomes o
		JOIN predictions p ON p.id = o.prediction_id
		WHERE o.validated_at >= $1`
	args := []any{since}

	if symbol != "" {
		args = append(args, symbol)
		query += fmt.Sprintf(" AND p.symbol = $%d", len(args))
	}
	if marketType != "" {
		args = append(args, marketType)
		query += fmt.Sprintf(" AND p.market_type = $%d", len(args))
	}
	query += " ORDER BY o.validated_at ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list validated: %w", err)
	}
	defer rows.Close()

	var result []models.ValidatedPrediction
	for rows.Next() {
		var v models.ValidatedPrediction
		p := &v.Prediction
		o := &v.Outcome
		if err := rows.Scan(
			&p.ID, &p.Symbol, &p.MarketType, &p.Timeframe, &p.CreatedAt,
			&p.CurrentPrice, &p.PredictedPrice, &p.PredictedDirection,
			&p.ConfidenceScore, &p.ConfidenceLevel, &p.SentimentScore,
			&p.Snapshot.RSI14, &p.Snapshot.MACD, &p.Snapshot.MACDSignal, &p.Snapshot.MACDHist,
			&p.Snapshot.BBUpper, &p.Snapshot.BBMiddle, &p.Snapshot.BBLower,
			&p.Snapshot.SMA20, &p.Snapshot.EMA12, &p.Reasoning,
			&o.ID, &o.PredictionID, &o.ValidatedAt, &o.ActualPrice, &o.ActualDirection,
			&o.PriceDiff, &o.PercentDiff, &o.DirectionCorrect, &o.SuccessLevel,
		); err != nil {
			return nil, fmt.Errorf("list validated: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list validated: %w", err)
	}
	return result, nil
}
