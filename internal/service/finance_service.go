// Package service exposes the analytics engine and the backing store over
// JSON/HTTP handlers. Handlers load fully materialized collections from the
// store and hand them to the pure engine functions; the engine itself never
// performs I/O.
package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsightapp/backend/internal/analytics"
	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/config"
	"github.com/finsightapp/backend/internal/model"
	"github.com/finsightapp/backend/internal/store"
)

// listPageSize is the page size used when draining the store for
// analytics runs.
const listPageSize = 1000

// FinanceService glues the store and the analytics engine together behind
// HTTP handlers.
type FinanceService struct {
	store       store.Store
	categorizer *analytics.Categorizer
	cfg         config.Config
	log         zerolog.Logger
}

// NewFinanceService creates the service with the given store and
// configuration.
func NewFinanceService(st store.Store, cfg config.Config, log zerolog.Logger) *FinanceService {
	return &FinanceService{
		store:       st,
		categorizer: analytics.NewCategorizer(cfg.KeywordTable(), cfg.IncomeCategoryList()),
		cfg:         cfg,
		log:         log,
	}
}

// Routes registers all handlers on a new mux.
func (s *FinanceService) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("PUT /v1/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /v1/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /v1/transactions/import", s.handleImportTransactions)
	mux.HandleFunc("POST /v1/transactions/recategorize", s.handleRecategorize)

	mux.HandleFunc("POST /v1/limits", s.handleCreateCategoryLimit)
	mux.HandleFunc("GET /v1/limits", s.handleListCategoryLimits)
	mux.HandleFunc("PUT /v1/limits/{id}", s.handleUpdateCategoryLimit)
	mux.HandleFunc("DELETE /v1/limits/{id}", s.handleDeleteCategoryLimit)

	mux.HandleFunc("POST /v1/recurring", s.handleCreateRecurring)
	mux.HandleFunc("GET /v1/recurring", s.handleListRecurring)
	mux.HandleFunc("PUT /v1/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /v1/recurring/{id}", s.handleDeleteRecurring)

	mux.HandleFunc("GET /v1/analytics/budget", s.handleBudgetAnalysis)
	mux.HandleFunc("GET /v1/analytics/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/analytics/duplicates", s.handleDuplicates)
	mux.HandleFunc("GET /v1/analytics/subscriptions", s.handleSubscriptions)
	mux.HandleFunc("GET /v1/analytics/streak", s.handleSavingsStreak)

	mux.HandleFunc("GET /v1/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /v1/settings", s.handlePutSettings)

	return mux
}

// writeJSON serializes v to the response with the given status.
func (s *FinanceService) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP statuses.
func (s *FinanceService) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// errBadRequest marks caller errors for status mapping; wrap it with
// fmt.Errorf("%w: ...").
var errBadRequest = errors.New("bad request")

// loadAllTransactions drains every page of the user's transactions,
// optionally bounded by a date range.
func (s *FinanceService) loadAllTransactions(r *http.Request, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	var all []model.Transaction
	pageToken := ""
	for {
		page, nextToken, err := s.store.ListTransactions(r.Context(), userID, startDate, endDate, listPageSize, pageToken)
		if err != nil {
			return nil, err
		}
		for _, tx := range page {
			all = append(all, *tx)
		}
		if nextToken == "" {
			return all, nil
		}
		pageToken = nextToken
	}
}

// periodConfigFor loads the user's stored period settings.
func (s *FinanceService) periodConfigFor(r *http.Request, userID string) (analytics.PeriodConfig, *model.AnalyticsSettings, error) {
	settings, err := s.store.GetAnalyticsSettings(r.Context(), userID)
	if err != nil {
		return analytics.PeriodConfig{}, nil, err
	}
	return analytics.PeriodConfigFromSettings(*settings), settings, nil
}
