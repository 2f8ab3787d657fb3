package models

// StockDataRequest asks for indicator data plus an estimate for one symbol.
type StockDataRequest struct {
	Symbol   string `query:"symbol" validate:"required"`
	Interval string `query:"interval" default:"1day"`
}

// SymbolSearchRequest is the typeahead query.
type SymbolSearchRequest struct {
	Query string `query:"query" validate:"required"`
}

// ListPredictionsRequest fetches a user's prediction history.
type ListPredictionsRequest struct {
	UserID string `query:"userId" validate:"required"`
}

// StorePredictionRequest persists an estimate the user accepted. Only the
// user identifier is validated here; the record fields pass through as the
// client sent them, with the store assigning id and timestamp.
type StorePredictionRequest struct {
	UserID         string `json:"userId" validate:"required"`
	Symbol         string `json:"symbol"`
	PredictedPrice string `json:"predictedPrice"`
	LastPrice      string `json:"lastPrice"`
	Interval       string `json:"interval" default:"1day"`
}

// UpdateActualPricesRequest triggers a reconciliation sweep. A missing user
// identifier is an authentication failure, not a validation failure.
type UpdateActualPricesRequest struct {
	UserID string `json:"userId"`
}

// UpdateActualPricesResponse reports the sweep outcome.
type UpdateActualPricesResponse struct {
	Message            string                 `json:"message"`
	UpdatedCount       int                    `json:"updatedCount"`
	UpdatedPredictions []ReconciledPrediction `json:"updatedPredictions"`
}
