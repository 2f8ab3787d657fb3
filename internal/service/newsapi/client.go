package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	xhttp "StockCast/pkg/http"
)

// ErrMissingAPIKey signals an unset provider credential.
var ErrMissingAPIKey = errors.New("news api key not configured")

const defaultBaseURL = "https://newsapi.org"

// Client fetches stock-market headlines from the news search provider.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

// New creates a news client.
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

// TopStockNews returns the provider payload verbatim for the fixed
// "stock market" query, newest first, English only.
func (c *Client) TopStockNews(ctx context.Context) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    c.baseURL + "/v2/everything",
		QueryParams: url.Values{
			"q":        {"stock market"},
			"sortBy":   {"publishedAt"},
			"language": {"en"},
			"apiKey":   {c.apiKey},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}
	return raw, nil
}
