package predict

import (
	"fmt"
	"strings"

	"marketcast/models"
)

// Design constants of the signal model. The dead zone keeps the direction
// from flapping between SIDEWAYS and UP/DOWN on near-zero blended signals.
const (
	technicalWeight   = 0.6
	sentimentWeight   = 0.4
	directionDeadZone = 0.15
	bandProximity     = 0.10 // fraction of band width counted as "at the band"
)

// voteSet holds the four technical votes, each -1, 0 or +1.
type voteSet struct {
	rsi   int
	macd  int
	trend int
	bands int
}

func (v voteSet) sum() int {
	return v.rsi + v.macd + v.trend + v.bands
}

// strength maps the vote sum onto [-1, 1].
func (v voteSet) strength() float64 {
	return float64(v.sum()) / 4.0
}

// castVotes derives the fixed four-vote technical signal from a snapshot.
func castVotes(snap *models.IndicatorSnapshot, currentPrice float64) voteSet {
	var v voteSet

	if snap.RSI14 > 60 {
		v.rsi = 1
	} else if snap.RSI14 < 40 {
		v.rsi = -1
	}

	if snap.MACDHist > 0 {
		v.macd = 1
	} else if snap.MACDHist < 0 {
		v.macd = -1
	}

	if currentPrice > snap.SMA20 && snap.EMA12 > snap.SMA20 {
		v.trend = 1
	} else if currentPrice < snap.SMA20 && snap.EMA12 < snap.SMA20 {
		v.trend = -1
	}

	// Proximity to a band is measured against the band width so the vote is
	// scale-free. A collapsed band (flat series) casts no vote.
	if width := snap.BBUpper - snap.BBLower; width > 0 {
		if snap.BBUpper-currentPrice <= bandProximity*width {
			v.bands = -1 // overbought, reversal risk
		} else if currentPrice-snap.BBLower <= bandProximity*width {
			v.bands = 1 // oversold, bounce risk
		}
	}

	return v
}

// blendSignal combines technical strength with sentiment, clamped to [-1, 1].
func blendSignal(technical, sentiment float64) float64 {
	s := technicalWeight*technical + sentimentWeight*sentiment
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// directionFor maps the blended signal to a direction. Signals inside the
// dead zone, including exact vote cancellation with zero sentiment, resolve
// to SIDEWAYS.
func directionFor(s float64) models.Direction {
	if s > directionDeadZone {
		return models.DirectionUp
	}
	if s < -directionDeadZone {
		return models.DirectionDown
	}
	return models.DirectionSideways
}

func directionSign(d models.Direction) int {
	switch d {
	case models.DirectionUp:
		return 1
	case models.DirectionDown:
		return -1
	}
	return 0
}

func sign(f float64) int {
	if f > 0 {
		return 1
	}
	if f < 0 {
		return -1
	}
	return 0
}

// buildReasoning renders the contributing signals as a short human-readable
// string. It reads the same votes and sentiment used for the numeric output,
// so the text can never contradict the prediction.
func buildReasoning(v voteSet, snap *models.IndicatorSnapshot, sentiment float64, direction models.Direction) string {
	var parts []string

	switch v.rsi {
	case 1:
		parts = append(parts, fmt.Sprintf("bullish RSI at %.1f", snap.RSI14))
	case -1:
		parts = append(parts, fmt.Sprintf("bearish RSI at %.1f", snap.RSI14))
	}

	switch v.macd {
	case 1:
		parts = append(parts, "positive MACD crossover")
	case -1:
		parts = append(parts, "negative MACD crossover")
	}

	switch v.trend {
	case 1:
		parts = append(parts, "price above SMA20 with aligned EMA12")
	case -1:
		parts = append(parts, "price below SMA20 with aligned EMA12")
	}

	switch v.bands {
	case 1:
		parts = append(parts, "price near lower Bollinger band")
	case -1:
		parts = append(parts, "price near upper Bollinger band")
	}

	switch sign(sentiment) {
	case 1:
		parts = append(parts, fmt.Sprintf("sentiment positive at %.2f", sentiment))
	case -1:
		parts = append(parts, fmt.Sprintf("sentiment negative at %.2f", sentiment))
	default:
		parts = append(parts, "sentiment neutral")
	}

	if len(parts) == 1 && direction == models.DirectionSideways {
		parts = append([]string{"mixed technical signals"}, parts...)
	}

	text := strings.Join(parts, ", ")
	return strings.ToUpper(text[:1]) + text[1:]
}

// confidenceScore implements the fixed confidence model: start at 50, +10
// per technical vote agreeing in sign with the final direction (at most 40),
// plus up to 10 scaled by |sentiment| when sentiment agrees in sign with the
// direction, minus the same when it disagrees. Clamped to [0, 100].
func confidenceScore(v voteSet, sentiment float64, direction models.Direction) int {
	score := 50.0
	dirSign := directionSign(direction)

	for _, vote := range []int{v.rsi, v.macd, v.trend, v.bands} {
		if vote == dirSign {
			score += 10
		}
	}

	sentSign := sign(sentiment)
	if sentSign != 0 && dirSign != 0 {
		if sentSign == dirSign {
			score += 10 * abs(sentiment)
		} else {
			score -= 10 * abs(sentiment)
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score + 0.5)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
