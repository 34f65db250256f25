// Package modelclient talks to an optional external price model over HTTP.
// The generator treats it as advisory: any error here degrades to the pure
// technical estimate.
package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"marketcast/models"
)

// Client is a rate-limited, retrying HTTP client for the model endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	logger     zerolog.Logger
}

// New creates a model client for the given endpoint.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5), // 5 requests per second
		baseURL:    baseURL,
		logger:     log.With().Str("component", "model_client").Logger(),
	}
}

var _ models.PriceModel = (*Client)(nil)

type estimateRequest struct {
	Symbol       string  `json:"symbol"`
	MarketType   string  `json:"market_type"`
	CurrentPrice float64 `json:"current_price"`
	Timeframe    string  `json:"timeframe"`
}

type estimateResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
	Confidence     int     `json:"confidence"`
}

// EstimatePrice asks the model for its price estimate and confidence
// contribution for one symbol/timeframe.
func (c *Client) EstimatePrice(ctx context.Context, symbol string, marketType models.MarketType,
	currentPrice float64, timeframe models.Timeframe) (float64, int, error) {

	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(estimateRequest{
		Symbol:       symbol,
		MarketType:   string(marketType),
		CurrentPrice: currentPrice,
		Timeframe:    string(timeframe),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/v1/estimate"
	c.logger.Debug().Str("url", url).Str("symbol", symbol).Msg("Requesting model estimate")

	// Use exponential backoff for retries
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return 0, 0, fmt.Errorf("after retries: %w", err)
	}

	var data estimateResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return 0, 0, fmt.Errorf("parsing JSON: %w", err)
	}

	if data.PredictedPrice <= 0 {
		return 0, 0, fmt.Errorf("model returned non-positive price: %f", data.PredictedPrice)
	}

	return data.PredictedPrice, data.Confidence, nil
}
