package models

import "time"

// Timeframe is the horizon after which a prediction is checked against reality.
type Timeframe string

const (
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe3h  Timeframe = "3h"
	Timeframe6h  Timeframe = "6h"
)

// AllTimeframes returns the supported timeframes in ascending horizon order.
func AllTimeframes() []Timeframe {
	return []Timeframe{Timeframe30m, Timeframe1h, Timeframe3h, Timeframe6h}
}

// Valid reports whether the timeframe is one of the supported values.
func (tf Timeframe) Valid() bool {
	switch tf {
	case Timeframe30m, Timeframe1h, Timeframe3h, Timeframe6h:
		return true
	}
	return false
}

// Horizon returns the validation delay for the timeframe.
func (tf Timeframe) Horizon() time.Duration {
	switch tf {
	case Timeframe30m:
		return 30 * time.Minute
	case Timeframe1h:
		return time.Hour
	case Timeframe3h:
		return 3 * time.Hour
	case Timeframe6h:
		return 6 * time.Hour
	}
	return 0
}

// ParseTimeframe converts a wire string into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", &ValidationError{Field: "timeframe", Reason: "must be one of 30m, 1h, 3h, 6h"}
	}
	return tf, nil
}
