package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// ErrMissingAPIKey signals an unset provider credential. The endpoint fails
// closed with a 500; the process keeps running.
var ErrMissingAPIKey = errors.New("twelvedata api key not configured")

const defaultBaseURL = "https://api.twelvedata.com"

// Client talks to the Twelve Data REST API for indicator and time-series data.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

// New creates a Twelve Data client.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// RSI fetches the Relative Strength Index series and returns the payload
// verbatim, after rejecting provider-embedded error statuses.
func (c *Client) RSI(ctx context.Context, symbol, interval string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    c.baseURL + "/rsi",
		QueryParams: url.Values{
			"symbol":   {symbol},
			"interval": {interval},
			"apikey":   {c.apiKey},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("rsi request: %w", err)
	}

	if err := embeddedError(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// TimeSeries fetches up to outputSize bars, most recent first.
func (c *Client) TimeSeries(ctx context.Context, symbol, interval string, outputSize int) (*models.TimeSeriesResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var resp models.TimeSeriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    c.baseURL + "/time_series",
		QueryParams: url.Values{
			"symbol":     {symbol},
			"interval":   {interval},
			"outputsize": {strconv.Itoa(outputSize)},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("time series request: %w", err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestClose returns the close of the single most recent bar.
func (c *Client) LatestClose(ctx context.Context, symbol, interval string) (string, error) {
	resp, err := c.TimeSeries(ctx, symbol, interval, 1)
	if err != nil {
		return "", err
	}
	if len(resp.Values) == 0 || resp.Values[0].Close == "" {
		return "", fmt.Errorf("malformed time series response: no close value")
	}
	return resp.Values[0].Close, nil
}

// embeddedError checks for {"status":"error"} inside an otherwise 200 payload.
func embeddedError(raw []byte) error {
	var probe struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("parse provider response: %w", err)
	}
	if probe.Status == "error" {
		if probe.Message != "" {
			return fmt.Errorf("provider error: %s", probe.Message)
		}
		return fmt.Errorf("provider error")
	}
	return nil
}
