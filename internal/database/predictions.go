package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketcast/models"
)

// SavePrediction stores a newly generated prediction record.
func (db *DB) SavePrediction(ctx context.Context, p *models.PredictionRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, symbol, market_type, timeframe, created_at,
			current_price, predicted_price, predicted_direction,
			confidence_score, confidence_level, sentiment_score,
			rsi14, macd, macd_signal, macd_histogram,
			bb_upper, bb_middle, bb_lower, sma20, ema12, reasoning
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`,
		p.ID, p.Symbol, p.MarketType, p.Timeframe, p.CreatedAt,
		p.CurrentPrice, p.PredictedPrice, p.PredictedDirection,
		p.ConfidenceScore, p.ConfidenceLevel, p.SentimentScore,
		p.Snapshot.RSI14, p.Snapshot.MACD, p.Snapshot.MACDSignal, p.Snapshot.MACDHist,
		p.Snapshot.BBUpper, p.Snapshot.BBMiddle, p.Snapshot.BBLower,
		p.Snapshot.SMA20, p.Snapshot.EMA12, p.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// GetPrediction retrieves a prediction by id. Returns models.ErrNotFound
// when no such prediction exists.
func (db *DB) GetPrediction(ctx context.Context, id string) (*models.PredictionRecord, error) {
	row := db.QueryRowContext(ctx, `
		SELECT
			id, symbol, market_type, timeframe, created_at,
			current_price, predicted_price, predicted_direction,
			confidence_score, confidence_level, sentiment_score,
			rsi14, macd, macd_signal, macd_histogram,
			bb_upper, bb_middle, bb_lower, sma20, ema12, reasoning
		FROM predictions
		WHERE id = $1
	`, id)

	p, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*models.PredictionRecord, error) {
	var p models.PredictionRecord
	err := row.Scan(
		&p.ID, &p.Symbol, &p.MarketType, &p.Timeframe, &p.CreatedAt,
		&p.CurrentPrice, &p.PredictedPrice, &p.PredictedDirection,
		&p.ConfidenceScore, &p.ConfidenceLevel, &p.SentimentScore,
		&p.Snapshot.RSI14, &p.Snapshot.MACD, &p.Snapshot.MACDSignal, &p.Snapshot.MACDHist,
		&p.Snapshot.BBUpper, &p.Snapshot.BBMiddle, &p.Snapshot.BBLower,
		&p.Snapshot.SMA20, &p.Snapshot.EMA12, &p.Reasoning,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
