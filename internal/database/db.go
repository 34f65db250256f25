// Package database persists prediction and outcome records in PostgreSQL.
// Both tables are append-only: rows are inserted once and never updated.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DB represents a database connection.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection and bootstraps the schema.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db, log.With().Str("component", "database").Logger()}, nil
}

// createTables creates the necessary tables if they don't exist. The unique
// index on outcomes.prediction_id is what makes outcome creation idempotent:
// at most one outcome can ever exist per prediction.
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS predictions (
			id UUID PRIMARY KEY,
			symbol TEXT NOT NULL,
			market_type TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			current_price DOUBLE PRECISION NOT NULL,
			predicted_price DOUBLE PRECISION NOT NULL,
			predicted_direction TEXT NOT NULL,
			confidence_score INTEGER NOT NULL,
			confidence_level TEXT NOT NULL,
			sentiment_score DOUBLE PRECISION NOT NULL,
			rsi14 DOUBLE PRECISION NOT NULL,
			macd DOUBLE PRECISION NOT NULL,
			macd_signal DOUBLE PRECISION NOT NULL,
			macd_histogram DOUBLE PRECISION NOT NULL,
			bb_upper DOUBLE PRECISION NOT NULL,
			bb_middle DOUBLE PRECISION NOT NULL,
			bb_lower DOUBLE PRECISION NOT NULL,
			sma20 DOUBLE PRECISION NOT NULL,
			ema12 DOUBLE PRECISION NOT NULL,
			reasoning TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating predictions table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS outcomes (
			id UUID PRIMARY KEY,
			prediction_id UUID NOT NULL UNIQUE REFERENCES predictions(id),
			validated_at TIMESTAMPTZ NOT NULL,
			actual_price DOUBLE PRECISION NOT NULL,
			actual_direction TEXT NOT NULL,
			price_diff DOUBLE PRECISION NOT NULL,
			percent_diff DOUBLE PRECISION NOT NULL,
			direction_correct BOOLEAN NOT NULL,
			success_level TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating outcomes table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS outcomes_validated_at_idx ON outcomes (validated_at)
	`)
	if err != nil {
		return fmt.Errorf("creating outcomes index: %w", err)
	}

	return nil
}
