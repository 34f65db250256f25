package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketcast/internal/accuracy"
	"marketcast/internal/cache"
	"marketcast/models"
)

// predictRequest is the inbound market-context event, optionally narrowed to
// a single timeframe via prediction_type.
type predictRequest struct {
	Symbol         string    `json:"symbol" binding:"required"`
	MarketType     string    `json:"market_type" binding:"required"`
	CurrentPrice   float64   `json:"current_price" binding:"required"`
	Prices         []float64 `json:"prices" binding:"required"`
	SentimentScore float64   `json:"sentiment_score"`
	PredictionType string    `json:"prediction_type"`
}

type outcomeRequest struct {
	PredictionID string  `json:"prediction_id" binding:"required"`
	ActualPrice  float64 `json:"actual_price" binding:"required"`
}

// handlePredict generates one prediction for the requested timeframe.
func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeframe, err := models.ParseTimeframe(req.PredictionType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	record, err := s.generator.Predict(c.Request.Context(), req.Symbol, models.MarketType(req.MarketType),
		req.CurrentPrice, req.Prices, req.SentimentScore, timeframe)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if err := s.store.SavePrediction(c.Request.Context(), record); err != nil {
		s.logger.Error().Err(err).Msg("saving prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store prediction"})
		return
	}

	s.observePrediction(record, time.Since(start))
	s.hub.Broadcast(record)

	c.JSON(http.StatusCreated, gin.H{"data": record})
}

// handlePredictBatch generates one prediction per supported timeframe from a
// single indicator snapshot.
func (s *Server) handlePredictBatch(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	records, err := s.generator.PredictAll(c.Request.Context(), req.Symbol, models.MarketType(req.MarketType),
		req.CurrentPrice, req.Prices, req.SentimentScore)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	for _, record := range records {
		if err := s.store.SavePrediction(c.Request.Context(), record); err != nil {
			s.logger.Error().Err(err).Msg("saving prediction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store predictions"})
			return
		}
	}

	elapsed := time.Since(start)
	for _, record := range records {
		s.observePrediction(record, elapsed)
		s.hub.Broadcast(record)
	}

	c.JSON(http.StatusCreated, gin.H{"data": records})
}

// handleSubmitOutcome validates a due prediction against its realized price.
// Re-submitting an already validated prediction returns the stored outcome
// with 200 instead of creating a duplicate.
func (s *Server) handleSubmitOutcome(c *gin.Context) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := s.store.GetPrediction(c.Request.Context(), req.PredictionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
			return
		}
		s.logger.Error().Err(err).Msg("loading prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load prediction"})
		return
	}

	result, err := s.evaluator.Evaluate(prediction, req.ActualPrice, time.Now().UTC())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	stored, created, err := s.store.InsertOutcome(c.Request.Context(), result)
	if err != nil {
		s.logger.Error().Err(err).Msg("storing outcome failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store outcome"})
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
		if s.metrics != nil {
			s.metrics.OutcomesTotal.WithLabelValues(string(stored.SuccessLevel)).Inc()
		}
	}
	c.JSON(code, gin.H{"data": stored})
}

// handleAccuracy recomputes (or serves from cache) the accuracy aggregate
// for a window/symbol/market filter.
func (s *Server) handleAccuracy(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
		return
	}
	symbol := c.Query("symbol")
	marketType := c.Query("market_type")
	buckets := c.Query("buckets") == "daily"

	// Bucketed responses are not cached: the key space is small and the
	// breakdown is mostly used for ad-hoc inspection.
	key := cache.Key(days, symbol, marketType)
	if s.cache != nil && !buckets {
		if stat, ok := s.cache.GetAccuracy(c.Request.Context(), key); ok {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			c.JSON(http.StatusOK, gin.H{"data": stat})
			return
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	start := time.Now()
	now := time.Now().UTC()
	rows, err := s.store.ListValidated(c.Request.Context(), now.AddDate(0, 0, -days), symbol, marketType)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing validated predictions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load outcomes"})
		return
	}

	stat, err := accuracy.Aggregate(rows, accuracy.Options{
		Days:         days,
		Symbol:       symbol,
		MarketType:   models.MarketType(marketType),
		Now:          now,
		DailyBuckets: buckets,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if s.metrics != nil {
		s.metrics.AccuracyDuration.Observe(time.Since(start).Seconds())
	}
	if s.cache != nil && !buckets {
		s.cache.SetAccuracy(c.Request.Context(), key, stat)
	}

	c.JSON(http.StatusOK, gin.H{"data": stat})
}

func (s *Server) observePrediction(record *models.PredictionRecord, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.PredictionsTotal.WithLabelValues(string(record.Timeframe), string(record.PredictedDirection)).Inc()
	s.metrics.PredictDuration.Observe(elapsed.Seconds())
}

// statusFor maps the pipeline error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		validationErr   *models.ValidationError
		insufficientErr *models.InsufficientDataError
		notYetDueErr    *models.NotYetDueError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &insufficientErr):
		return http.StatusBadRequest
	case errors.As(err, &notYetDueErr):
		return http.StatusTooEarly
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
