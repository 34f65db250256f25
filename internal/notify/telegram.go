// Package notify delivers advisory analysis of surprising outcomes to a
// Telegram chat. Delivery failures are logged and never surface to the
// outcome pipeline.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"marketcast/models"
)

// TelegramAnalyzer posts surprising outcome summaries to a fixed chat.
type TelegramAnalyzer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

var _ models.OutcomeAnalyzer = (*TelegramAnalyzer)(nil)

// NewTelegramAnalyzer authorizes the bot and returns the analyzer.
func NewTelegramAnalyzer(token string, chatID int64) (*TelegramAnalyzer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramAnalyzer{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_analyzer").Logger(),
	}, nil
}

// AnalyzeOutcome formats and sends a summary of a surprising outcome.
func (t *TelegramAnalyzer) AnalyzeOutcome(prediction models.PredictionRecord, outcome models.Outcome) {
	headline := "Low-confidence prediction turned out correct"
	if !outcome.DirectionCorrect {
		headline = "High-confidence prediction missed"
	}

	text := fmt.Sprintf(
		"%s\n\nSymbol: %s (%s)\nTimeframe: %s\nPredicted: %s @ %.4f (confidence %d, %s)\nActual: %s @ %.4f (%.2f%% off)\nSuccess: %s\nReasoning: %s",
		headline,
		prediction.Symbol, prediction.MarketType,
		prediction.Timeframe,
		prediction.PredictedDirection, prediction.PredictedPrice,
		prediction.ConfidenceScore, prediction.ConfidenceLevel,
		outcome.ActualDirection, outcome.ActualPrice, outcome.PercentDiff,
		outcome.SuccessLevel,
		prediction.Reasoning,
	)

	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.logger.Warn().Err(err).Str("prediction_id", prediction.ID).Msg("telegram delivery failed")
	}
}
