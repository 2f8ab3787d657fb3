package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TimeSeriesValue is a single bar from the time-series provider.
type TimeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// TimeSeriesMeta describes the series returned by the provider.
type TimeSeriesMeta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// TimeSeriesResponse is the parsed time-series payload. Status/Message carry
// the provider's own error signaling ("error" status with 200 responses).
type TimeSeriesResponse struct {
	Meta    TimeSeriesMeta    `json:"meta"`
	Values  []TimeSeriesValue `json:"values"`
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
}

// Err returns the provider-reported error, if any.
func (r *TimeSeriesResponse) Err() error {
	if r.Status == "error" {
		if r.Message != "" {
			return fmt.Errorf("provider error: %s", r.Message)
		}
		return fmt.Errorf("provider error")
	}
	return nil
}

// Closes extracts the close column as floats, most recent first, rejecting
// bars whose close is missing or non-numeric.
func (r *TimeSeriesResponse) Closes() ([]float64, error) {
	out := make([]float64, 0, len(r.Values))
	for i, v := range r.Values {
		if v.Close == "" {
			return nil, fmt.Errorf("missing close at index %d", i)
		}
		f, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// YahooQuote is a single symbol-search hit.
type YahooQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
}

// DisplayName picks shortname, then longname, then the symbol itself.
func (q YahooQuote) DisplayName() string {
	if q.ShortName != "" {
		return q.ShortName
	}
	if q.LongName != "" {
		return q.LongName
	}
	return q.Symbol
}

// YahooSearchResponse is the parsed quote-search payload.
type YahooSearchResponse struct {
	Quotes []YahooQuote `json:"quotes"`
}

// StockDataResponse merges the indicator payload, the raw time series, and
// the estimate for a single stock-data request.
type StockDataResponse struct {
	RSI        json.RawMessage     `json:"rsi"`
	TimeSeries *TimeSeriesResponse `json:"timeSeries"`
	Prediction StockPrediction     `json:"prediction"`
}

// StockPrediction is the 2-decimal view of the estimate.
type StockPrediction struct {
	NextDay   float64 `json:"nextDay"`
	LastPrice float64 `json:"lastPrice"`
}
