package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// The search endpoint rejects requests without a browser-like user agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client performs symbol search against the Yahoo Finance quote-search API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a Yahoo search client. No credential is required.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Search resolves a free-text query into quote suggestions. A provider
// response with no quotes yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]models.QuoteSuggestion, error) {
	var resp models.YahooSearchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    c.baseURL + "/v1/finance/search",
		Headers: map[string]string{
			"User-Agent": userAgent,
		},
		QueryParams: url.Values{
			"q":                {query},
			"quotesCount":      {"10"},
			"newsCount":        {"0"},
			"enableFuzzyQuery": {"false"},
			"quotesQueryId":    {"tss_match_phrase_query"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("symbol search request: %w", err)
	}

	suggestions := make([]models.QuoteSuggestion, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		suggestions = append(suggestions, models.QuoteSuggestion{
			Symbol: q.Symbol,
			Name:   q.DisplayName(),
		})
	}
	return suggestions, nil
}
