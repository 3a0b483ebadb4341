package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RateSource fetches exchange data from a remote rate provider.
type RateSource interface {
	// ConvertAmount converts a specific amount between two currencies and
	// returns the remote result without local rounding.
	ConvertAmount(ctx context.Context, from, to Currency, amount float64) (float64, error)

	// Quote returns the scalar rate for a (source, target) currency pair.
	Quote(ctx context.Context, source, target Currency) (float64, error)
}

// Client is a RateSource backed by a currencylayer-style HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
}

var _ RateSource = (*Client)(nil)

// NewClient creates a rate source client. Every request is bounded by timeout
// in addition to the caller's context.
func NewClient(baseURL, accessKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		accessKey:  accessKey,
	}
}

// apiError is the error detail carried by a success=false response.
type apiError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

type convertResponse struct {
	Success bool     `json:"success"`
	Result  float64  `json:"result"`
	Error   apiError `json:"error"`
}

type liveResponse struct {
	Success bool               `json:"success"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   apiError           `json:"error"`
}

// ConvertAmount calls the /convert endpoint for a specific amount.
func (c *Client) ConvertAmount(ctx context.Context, from, to Currency, amount float64) (float64, error) {
	query := url.Values{}
	query.Set("access_key", c.accessKey)
	query.Set("from", string(from))
	query.Set("to", string(to))
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	var payload convertResponse
	if err := c.get(ctx, "/convert", query, &payload); err != nil {
		return 0, fmt.Errorf("%w: %s->%s: %w", ErrConversionFailed, from, to, err)
	}
	if !payload.Success {
		return 0, fmt.Errorf("%w: %s->%s: rate source error: %s", ErrConversionFailed, from, to, payload.Error.Info)
	}
	return payload.Result, nil
}

// Quote calls the /live endpoint for a single (source, target) pair.
// A pair with identical source and target is always exactly 1 and never hits the network.
func (c *Client) Quote(ctx context.Context, source, target Currency) (float64, error) {
	if source == target {
		return 1, nil
	}

	query := url.Values{}
	query.Set("access_key", c.accessKey)
	query.Set("source", string(source))
	query.Set("currencies", string(target))
	query.Set("format", "1")

	var payload liveResponse
	if err := c.get(ctx, "/live", query, &payload); err != nil {
		return 0, fmt.Errorf("%w: %s->%s: %w", ErrConversionFailed, source, target, err)
	}
	if !payload.Success {
		return 0, fmt.Errorf("%w: %s->%s: rate source error: %s", ErrConversionFailed, source, target, payload.Error.Info)
	}
	rate, ok := payload.Quotes[string(source)+string(target)]
	if !ok {
		return 0, fmt.Errorf("%w: %s->%s: quote missing from rate source response", ErrConversionFailed, source, target)
	}
	return rate, nil
}

// get performs a GET request against the rate API and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
