package models

import "time"

// PredictionRecord is one estimate made by one user for one symbol.
// ID and CreatedAt are store-assigned; ActualPrice stays empty until the
// reconciliation sweep observes the real price, and is never overwritten.
type PredictionRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Symbol         string    `json:"symbol"`
	Interval       string    `json:"interval"`
	LastPrice      string    `json:"lastPrice"`
	PredictedPrice string    `json:"predictedPrice"`
	CreatedAt      time.Time `json:"createdAt"`
	ActualPrice    string    `json:"actualPrice,omitempty"`
}

// Reconciled reports whether the record already carries an observed price.
func (p *PredictionRecord) Reconciled() bool {
	return p.ActualPrice != ""
}

// ReconciledPrediction is the per-record result of a sweep update.
type ReconciledPrediction struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	ActualPrice string `json:"actualPrice"`
}

// QuoteSuggestion is an ephemeral search hit for the symbol typeahead.
type QuoteSuggestion struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// EstimateInput is an ordered series of historical closes, index 0 most recent.
type EstimateInput struct {
	HistoricalPrices []float64
	Symbol           string
	Interval         string
}

// EstimateOutput carries the forecasted next price and the echoed last price.
type EstimateOutput struct {
	PredictedPrice float64
	LastPrice      float64
}

// Prediction lifecycle event types.
const (
	EventPredictionCreated    = "prediction.created"
	EventPredictionReconciled = "prediction.reconciled"
)

// PredictionEvent is the Kafka payload for lifecycle events.
type PredictionEvent struct {
	Type       string                 `json:"type"`
	UserID     string                 `json:"userId"`
	Record     *PredictionRecord      `json:"record,omitempty"`
	Reconciled []ReconciledPrediction `json:"reconciled,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}
