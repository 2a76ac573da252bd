package coinmarketcap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/currensee/currency_converter_app/internal/apperrors"
	portsprov "github.com/currensee/currency_converter_app/internal/core/ports/providers"
	"github.com/currensee/currency_converter_app/pkg/config"
)

const apiKeyHeader = "X-CMC_PRO_API_KEY"

// Client talks to the CoinMarketCap v1 quotes endpoint. There is no fallback
// endpoint for this provider; every error propagates to the caller.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// quoteResponse is the shape of GET /cryptocurrency/quotes/latest.
// The price sits at data[symbol].quote[fiatSymbol].price.
type quoteResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Quote map[string]struct {
			Price *float64 `json:"price"`
		} `json:"quote"`
	} `json:"data"`
}

// NewClient creates a CoinMarketCap client with a bounded request timeout.
func NewClient(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.APIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetQuote returns the price of one unit of cryptoSymbol expressed in
// fiatSymbol.
func (c *Client) GetQuote(ctx context.Context, cryptoSymbol, fiatSymbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/cryptocurrency/quotes/latest?symbol=%s&convert=%s",
		c.baseURL, url.QueryEscape(cryptoSymbol), url.QueryEscape(fiatSymbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, fmt.Errorf("%w: %v", apperrors.ErrInterrupted, err)
		}
		return 0, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamStatus, resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrSchemaMismatch, err)
	}
	if body.Status.ErrorCode != 0 {
		return 0, fmt.Errorf("%w: error_code=%d message=%s",
			apperrors.ErrUpstreamStatus, body.Status.ErrorCode, body.Status.ErrorMessage)
	}

	entry, ok := body.Data[cryptoSymbol]
	if !ok {
		return 0, fmt.Errorf("%w: symbol %s missing from response data", apperrors.ErrSchemaMismatch, cryptoSymbol)
	}
	quote, ok := entry.Quote[fiatSymbol]
	if !ok {
		return 0, fmt.Errorf("%w: quote for %s missing from response", apperrors.ErrSchemaMismatch, fiatSymbol)
	}
	if quote.Price == nil {
		return 0, fmt.Errorf("%w: quote for %s has no price", apperrors.ErrSchemaMismatch, fiatSymbol)
	}

	return *quote.Price, nil
}

// Ensure Client implements providers.CryptoRateProvider
var _ portsprov.CryptoRateProvider = (*Client)(nil)
