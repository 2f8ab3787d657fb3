package api

import (
	"context"
	"net/http"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	newsCacheKey    = "news:top"
	searchCachePfx  = "search:"
	defaultNewsTTL  = 5 * time.Minute
	defaultQueryTTL = 1 * time.Minute

	// News endpoint budget per client: burst of 5, one request per 2s refill.
	newsBurst  = 5
	newsRefill = 0.5
)

// Watcher registers a user for periodic reconciliation sweeps.
type Watcher interface {
	Watch(userID string) error
}

// Handler exposes the HTTP surface: news, symbol search, stock data with an
// estimate, and the per-user prediction record endpoints.
type Handler struct {
	stockData   *usecase.StockDataUseCase
	predictions *usecase.PredictionsUseCase
	reconciler  *usecase.Reconciler
	news        domrepo.NewsProvider
	search      domrepo.SymbolSearch

	cache     cache.Service
	limiter   *ratelimit.Limiter
	watcher   Watcher
	wsHandler echo.HandlerFunc
	l         *applogger.Logger

	newsTTL   time.Duration
	searchTTL time.Duration

	// marketConfigured is false when the time-series provider credential is
	// absent; the sweep endpoint then fails closed instead of crashing.
	marketConfigured bool
}

type Option func(*Handler)

// WithCache enables response caching for the news and search proxies.
func WithCache(c cache.Service) Option {
	return func(h *Handler) { h.cache = c }
}

// WithRateLimiter throttles the news proxy per client address.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithWatcher keeps users with prediction history under periodic sweeps.
func WithWatcher(w Watcher) Option {
	return func(h *Handler) { h.watcher = w }
}

// WithWebsocket mounts the live-update endpoint.
func WithWebsocket(fn echo.HandlerFunc) Option {
	return func(h *Handler) { h.wsHandler = fn }
}

// WithCacheTTLs overrides the news and search cache lifetimes.
func WithCacheTTLs(news, search time.Duration) Option {
	return func(h *Handler) {
		if news > 0 {
			h.newsTTL = news
		}
		if search > 0 {
			h.searchTTL = search
		}
	}
}

// WithMarketConfigured records whether the time-series credential is set.
func WithMarketConfigured(ok bool) Option {
	return func(h *Handler) { h.marketConfigured = ok }
}

func NewHandler(
	stockData *usecase.StockDataUseCase,
	predictions *usecase.PredictionsUseCase,
	reconciler *usecase.Reconciler,
	news domrepo.NewsProvider,
	search domrepo.SymbolSearch,
	opts ...Option,
) *Handler {
	h := &Handler{
		stockData:        stockData,
		predictions:      predictions,
		reconciler:       reconciler,
		news:             news,
		search:           search,
		newsTTL:          defaultNewsTTL,
		searchTTL:        defaultQueryTTL,
		marketConfigured: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetLogger injects a structured logger.
func (h *Handler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/news", h.GetNews)
	e.GET("/api/stock-search", h.SearchSymbols)
	e.GET("/api/stock-data", h.GetStockData)
	e.GET("/api/get-predictions", h.ListPredictions)
	e.POST("/api/store-prediction", h.StorePrediction)
	e.POST("/api/update-actual-prices", h.UpdateActualPrices)
	if h.wsHandler != nil {
		e.GET("/ws/predictions", h.wsHandler)
	}
}

// GetNews proxies the provider's stock-market headline search verbatim.
func (h *Handler) GetNews(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()+":news", newsBurst, newsRefill) {
		return xhttp.Message(c, http.StatusTooManyRequests, "Too many requests")
	}

	ctx := c.Request().Context()

	var cached []byte
	if h.cacheGet(ctx, newsCacheKey, &cached) {
		return c.JSONBlob(http.StatusOK, cached)
	}

	payload, err := h.news.TopStockNews(ctx)
	if err != nil {
		h.logError("news fetch failed", err)
		return xhttp.Message(c, http.StatusInternalServerError, "Error fetching news")
	}

	h.cacheSet(ctx, newsCacheKey, []byte(payload), h.newsTTL)
	return c.JSONBlob(http.StatusOK, payload)
}

// SearchSymbols resolves a free-text query into {symbol,name} suggestions.
// A provider returning no quotes is a 200 with an empty array.
func (h *Handler) SearchSymbols(c echo.Context) error {
	req := new(models.SymbolSearchRequest)
	if msg := xhttp.ReadAndValidateRequest(c, req); msg != "" {
		return xhttp.Message(c, http.StatusBadRequest, "Search query is required")
	}

	ctx := c.Request().Context()
	key := searchCachePfx + req.Query

	var cached []models.QuoteSuggestion
	if h.cacheGet(ctx, key, &cached) {
		return xhttp.OK(c, cached)
	}

	quotes, err := h.search.Search(ctx, req.Query)
	if err != nil {
		h.logError("symbol search failed", err)
		return xhttp.Message(c, http.StatusInternalServerError, "Error fetching search results")
	}

	h.cacheSet(ctx, key, quotes, h.searchTTL)
	return xhttp.OK(c, quotes)
}

// GetStockData fetches indicator and time-series data and attaches an
// estimate. Validation runs before any upstream call.
func (h *Handler) GetStockData(c echo.Context) error {
	req := new(models.StockDataRequest)
	if msg := xhttp.ReadAndValidateRequest(c, req); msg != "" {
		return xhttp.Message(c, http.StatusBadRequest, "Stock symbol is required")
	}

	data, err := h.stockData.Get(c.Request().Context(), req.Symbol, req.Interval)
	if err != nil {
		h.logError("stock data fetch failed", err)
		return xhttp.Message(c, http.StatusInternalServerError, "Error fetching stock data")
	}
	return xhttp.OK(c, data)
}

// ListPredictions returns the user's records, newest first. This is also the
// moment the user's records come under periodic reconciliation.
func (h *Handler) ListPredictions(c echo.Context) error {
	req := new(models.ListPredictionsRequest)
	if msg := xhttp.ReadAndValidateRequest(c, req); msg != "" {
		return xhttp.Message(c, http.StatusBadRequest, "User ID is required")
	}

	h.watch(req.UserID)

	recs, err := h.predictions.List(c.Request().Context(), req.UserID)
	if err != nil {
		h.logError("predictions fetch failed", err)
		return xhttp.MessageWithDetails(c, http.StatusInternalServerError, "Error fetching predictions", err)
	}
	return xhttp.OK(c, recs)
}

// StorePrediction persists an estimate the user accepted.
func (h *Handler) StorePrediction(c echo.Context) error {
	req := new(models.StorePredictionRequest)
	if msg := xhttp.ReadAndValidateRequest(c, req); msg != "" {
		return xhttp.Message(c, http.StatusBadRequest, "User ID is required")
	}

	if err := h.predictions.Store(c.Request().Context(), req); err != nil {
		h.logError("prediction store failed", err)
		return xhttp.Message(c, http.StatusInternalServerError, "Error storing prediction")
	}
	return xhttp.Message(c, http.StatusOK, "Prediction stored successfully")
}

// UpdateActualPrices runs one reconciliation sweep for the caller. A missing
// user identifier is an authentication failure, and an absent provider
// credential fails closed.
func (h *Handler) UpdateActualPrices(c echo.Context) error {
	req := new(models.UpdateActualPricesRequest)
	if err := c.Bind(req); err != nil || req.UserID == "" {
		return xhttp.Message(c, http.StatusUnauthorized, "Authentication required")
	}

	if !h.marketConfigured {
		h.logError("sweep requested without provider credential", nil)
		return xhttp.Message(c, http.StatusInternalServerError, "API key not configured")
	}

	h.watch(req.UserID)

	updated, err := h.reconciler.Sweep(c.Request().Context(), req.UserID)
	if err != nil {
		h.logError("reconciliation sweep failed", err)
		return xhttp.FromAppError(c, err, "Error updating predictions")
	}

	return xhttp.OK(c, models.UpdateActualPricesResponse{
		Message:            "Predictions updated successfully",
		UpdatedCount:       len(updated),
		UpdatedPredictions: updated,
	})
}

func (h *Handler) watch(userID string) {
	if h.watcher == nil {
		return
	}
	if err := h.watcher.Watch(userID); err != nil && h.l != nil {
		h.l.Warn("failed to schedule sweeps",
			applogger.String("user_id", userID),
			applogger.Error(err),
		)
	}
}

func (h *Handler) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	return h.cache.Get(ctx, key, dest) == nil
}

func (h *Handler) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, value, ttl); err != nil && h.l != nil {
		h.l.Debug("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (h *Handler) logError(msg string, err error) {
	if h.l == nil {
		return
	}
	if err != nil {
		h.l.Error(msg, applogger.Error(err))
		return
	}
	h.l.Error(msg)
}
