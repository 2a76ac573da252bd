package exchangerateapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/currensee/currency_converter_app/internal/apperrors"
	"github.com/currensee/currency_converter_app/internal/core/domain"
	portsprov "github.com/currensee/currency_converter_app/internal/core/ports/providers"
	"github.com/currensee/currency_converter_app/pkg/config"
)

// Client talks to the ExchangeRate-API v6 REST endpoints. It only translates
// wire schemas into normalized results; the conversion service owns fallback
// policy.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// codesResponse is the shape of GET /{key}/codes.
type codesResponse struct {
	Result         string     `json:"result"`
	ErrorType      string     `json:"error-type,omitempty"`
	SupportedCodes [][]string `json:"supported_codes"`
}

// pairResponse is the shape of GET /{key}/pair/{base}/{target}[/{amount}].
// conversion_result is absent when no amount segment was sent.
type pairResponse struct {
	Result           string   `json:"result"`
	ErrorType        string   `json:"error-type,omitempty"`
	BaseCode         string   `json:"base_code"`
	TargetCode       string   `json:"target_code"`
	ConversionRate   *float64 `json:"conversion_rate"`
	ConversionResult *float64 `json:"conversion_result"`
}

// latestResponse is the shape of GET /{key}/latest/{base}.
type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// NewClient creates an ExchangeRate-API client with a bounded request timeout.
func NewClient(cfg config.ProviderConfig, timeout time.Duration) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.APIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetCodes retrieves the full supported-currency list.
func (c *Client) GetCodes(ctx context.Context) ([]domain.Currency, error) {
	url := fmt.Sprintf("%s/%s/codes", c.baseURL, c.apiKey)

	var body codesResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if err := checkResult(body.Result, body.ErrorType); err != nil {
		return nil, err
	}
	if body.SupportedCodes == nil {
		return nil, fmt.Errorf("%w: response missing 'supported_codes'", apperrors.ErrSchemaMismatch)
	}

	currencies := make([]domain.Currency, 0, len(body.SupportedCodes))
	for _, pair := range body.SupportedCodes {
		if len(pair) < 2 {
			return nil, fmt.Errorf("%w: malformed supported_codes entry", apperrors.ErrSchemaMismatch)
		}
		currencies = append(currencies, domain.Currency{CurrencyCode: pair[0], Name: pair[1]})
	}
	return currencies, nil
}

// GetPairRate quotes a single pair via the pair endpoint. The amount path
// segment is only appended when positive; the provider omits
// conversion_result otherwise.
func (c *Client) GetPairRate(ctx context.Context, baseCode, targetCode string, amount float64) (*portsprov.PairQuote, error) {
	url := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, c.apiKey, baseCode, targetCode)
	if amount > 0 {
		url += "/" + strconv.FormatFloat(amount, 'f', -1, 64)
	}

	var body pairResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if err := checkResult(body.Result, body.ErrorType); err != nil {
		return nil, err
	}
	if body.ConversionRate == nil {
		return nil, fmt.Errorf("%w: response missing 'conversion_rate'", apperrors.ErrSchemaMismatch)
	}

	return &portsprov.PairQuote{
		Rate:             *body.ConversionRate,
		ConversionResult: body.ConversionResult,
	}, nil
}

// GetLatestRates retrieves the bulk rate table quoted against baseCode.
func (c *Client) GetLatestRates(ctx context.Context, baseCode string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, baseCode)

	var body latestResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if err := checkResult(body.Result, body.ErrorType); err != nil {
		return nil, err
	}
	if body.ConversionRates == nil {
		return nil, fmt.Errorf("%w: response missing 'conversion_rates'", apperrors.ErrSchemaMismatch)
	}
	return body.ConversionRates, nil
}

// getJSON performs a GET and decodes the response, mapping failures onto the
// provider error taxonomy.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", apperrors.ErrInterrupted, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", apperrors.ErrUpstreamStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrSchemaMismatch, err)
	}
	return nil
}

// checkResult validates the v6 envelope; the API reports business errors with
// HTTP 200 and result != "success".
func checkResult(result, errorType string) error {
	if result == "" {
		return fmt.Errorf("%w: response missing 'result'", apperrors.ErrSchemaMismatch)
	}
	if result != "success" {
		return fmt.Errorf("%w: result=%s error-type=%s", apperrors.ErrUpstreamStatus, result, errorType)
	}
	return nil
}

// Ensure Client implements providers.FiatRateProvider
var _ portsprov.FiatRateProvider = (*Client)(nil)
