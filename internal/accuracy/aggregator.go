// Package accuracy rolls validated outcomes into accuracy statistics. It is
// purely read-side: no state, no side effects, safe to call concurrently and
// repeatedly over the same window.
package accuracy

import (
	"sort"
	"time"

	"marketcast/models"
)

// Options filter and shape an aggregation request.
type Options struct {
	Days         int               // window size in days, must be within [1, 365]
	Symbol       string            // optional symbol filter, empty matches all
	MarketType   models.MarketType // optional market filter, empty matches all
	Now          time.Time         // window anchor; zero value means time.Now()
	DailyBuckets bool              // include a per-calendar-day breakdown
}

// Aggregate computes accuracy statistics over validated predictions. The
// accuracy of an empty result set is defined as 0, never a division by zero.
func Aggregate(rows []models.ValidatedPrediction, opts Options) (*models.AccuracyStat, error) {
	if opts.Days < 1 || opts.Days > 365 {
		return nil, &models.ValidationError{Field: "days", Reason: "must be within [1, 365]"}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	since := now.AddDate(0, 0, -opts.Days)

	stat := &models.AccuracyStat{}
	byDay := make(map[string]*models.AccuracyBucket)

	for _, row := range rows {
		if row.Outcome.ValidatedAt.Before(since) || row.Outcome.ValidatedAt.After(now) {
			continue
		}
		if opts.Symbol != "" && row.Prediction.Symbol != opts.Symbol {
			continue
		}
		if opts.MarketType != "" && row.Prediction.MarketType != opts.MarketType {
			continue
		}

		stat.TotalPredictions++
		if row.Outcome.DirectionCorrect {
			stat.CorrectDirections++
		}

		if opts.DailyBuckets {
			day := row.Outcome.ValidatedAt.UTC().Format("2006-01-02")
			bucket, ok := byDay[day]
			if !ok {
				bucket = &models.AccuracyBucket{Day: day}
				byDay[day] = bucket
			}
			bucket.TotalPredictions++
			if row.Outcome.DirectionCorrect {
				bucket.CorrectDirections++
			}
		}
	}

	stat.AccuracyPercentage = percentage(stat.CorrectDirections, stat.TotalPredictions)

	if opts.DailyBuckets && len(byDay) > 0 {
		days := make([]string, 0, len(byDay))
		for day := range byDay {
			days = append(days, day)
		}
		sort.Strings(days)

		stat.Buckets = make([]models.AccuracyBucket, 0, len(days))
		for _, day := range days {
			bucket := byDay[day]
			bucket.AccuracyPercentage = percentage(bucket.CorrectDirections, bucket.TotalPredictions)
			stat.Buckets = append(stat.Buckets, *bucket)
		}
	}

	return stat, nil
}

func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
