package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/internal/cache"
	"marketcast/internal/config"
	"marketcast/internal/database"
	"marketcast/internal/metrics"
	"marketcast/internal/modelclient"
	"marketcast/internal/notify"
	"marketcast/internal/outcome"
	"marketcast/internal/predict"
	"marketcast/internal/server"
	"marketcast/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Optional collaborators: each one is skipped when unconfigured.
	var model models.PriceModel
	if cfg.ModelURL != "" {
		model = modelclient.New(cfg.ModelURL, time.Duration(cfg.ModelTimeout)*time.Second)
		log.Info().Str("url", cfg.ModelURL).Msg("external price model enabled")
	}

	var analyzer models.OutcomeAnalyzer
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramAnalyzer(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("telegram analyzer disabled")
		} else {
			analyzer = tg
			log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("telegram outcome analyzer enabled")
		}
	}

	generator := predict.NewGenerator(cfg.Magnitudes(), model)
	evaluator := outcome.NewEvaluator(analyzer)

	opts := []server.Option{server.WithMetrics(metrics.New())}
	if cfg.RedisAddr != "" && cfg.AccuracyCacheTTL > 0 {
		rc, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			time.Duration(cfg.AccuracyCacheTTL)*time.Second)
		if err != nil {
			log.Warn().Err(err).Msg("accuracy cache disabled")
		} else {
			defer rc.Close()
			opts = append(opts, server.WithCache(rc))
			log.Info().Str("addr", cfg.RedisAddr).Msg("accuracy cache enabled")
		}
	}

	srv := server.New(db, generator, evaluator, opts...)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
