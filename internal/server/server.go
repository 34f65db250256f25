// Package server exposes the prediction pipeline over HTTP: prediction
// requests, outcome submissions, accuracy queries, a WebSocket feed of new
// predictions, health and Prometheus endpoints.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/internal/metrics"
	"marketcast/internal/outcome"
	"marketcast/internal/predict"
	"marketcast/models"
)

// Store is the persistence boundary the handlers depend on.
type Store interface {
	SavePrediction(ctx context.Context, p *models.PredictionRecord) error
	GetPrediction(ctx context.Context, id string) (*models.PredictionRecord, error)
	InsertOutcome(ctx context.Context, o *models.Outcome) (*models.Outcome, bool, error)
	ListValidated(ctx context.Context, since time.Time, symbol, marketType string) ([]models.ValidatedPrediction, error)
}

// AccuracyCache is the optional read cache for accuracy aggregates.
type AccuracyCache interface {
	GetAccuracy(ctx context.Context, key string) (*models.AccuracyStat, bool)
	SetAccuracy(ctx context.Context, key string, stat *models.AccuracyStat)
	Ping(ctx context.Context) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wires the pipeline components behind the HTTP API.
type Server struct {
	store     Store
	generator *predict.Generator
	evaluator *outcome.Evaluator
	cache     AccuracyCache    // may be nil
	metrics   *metrics.Metrics // may be nil
	hub       *Hub
	logger    zerolog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithCache enables the accuracy read cache.
func WithCache(c AccuracyCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New assembles the server and starts its WebSocket hub.
func New(store Store, generator *predict.Generator, evaluator *outcome.Evaluator, opts ...Option) *Server {
	s := &Server{
		store:     store,
		generator: generator,
		evaluator: evaluator,
		hub:       NewHub(),
		logger:    log.With().Str("component", "http_server").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.hub.Run()
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", s.hub.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/predictions", s.handlePredict)
		v1.POST("/predictions/batch", s.handlePredictBatch)
		v1.POST("/outcomes", s.handleSubmitOutcome)
		v1.GET("/accuracy", s.handleAccuracy)
	}

	return r
}

// requestLogger logs one line per request through the component logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}
	code := 200

	if p, ok := s.store.(Pinger); ok {
		if err := p.PingContext(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = 503
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(c.Request.Context()); err != nil {
			status["cache"] = err.Error()
		}
	}

	c.JSON(code, status)
}
