package service

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/finsightapp/backend/internal/analytics"
	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/model"
)

type budgetResponse struct {
	Results  []model.BudgetAnalysis `json:"results"`
	Currency string                 `json:"currency,omitempty"`
}

// handleBudgetAnalysis runs the budget analyzer over the user's
// transactions for the current (payday or calendar) period. Optional query
// parameters: period=monthly|weekly, alertsOnly=true, currency=<code> to
// convert spent totals with the static rate table.
func (s *FinanceService) handleBudgetAnalysis(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	periodCfg, _, err := s.periodConfigFor(r, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, err := s.loadAllTransactions(r, claims.UID, nil, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limitPtrs, err := s.store.ListCategoryLimits(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limits := make([]model.CategoryLimit, 0, len(limitPtrs))
	for _, l := range limitPtrs {
		limits = append(limits, *l)
	}

	results, err := s.categorizer.AnalyzeBudgets(txs, limits, analytics.BudgetOptions{
		Granularity: r.URL.Query().Get("period"),
		Reference:   time.Now(),
		Period:      periodCfg,
		AlertsOnly:  r.URL.Query().Get("alertsOnly") == "true",
	})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if results == nil {
		results = []model.BudgetAnalysis{}
	}

	resp := budgetResponse{Results: results}
	if currency := r.URL.Query().Get("currency"); currency != "" {
		for i := range resp.Results {
			converted, err := analytics.ConvertAmount(resp.Results[i].Spent, "EUR", currency)
			if err != nil {
				s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			resp.Results[i].Spent = converted
			if resp.Results[i].Limit != nil {
				limit, _ := analytics.ConvertAmount(*resp.Results[i].Limit, "EUR", currency)
				resp.Results[i].Limit = &limit
			}
		}
		resp.Currency = currency
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *FinanceService) handleForecast(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	months := s.cfg.Analytics.ForecastMonths
	if v := r.URL.Query().Get("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid months %q", errBadRequest, v))
			return
		}
		months = parsed
	}

	txs, err := s.loadAllTransactions(r, claims.UID, nil, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	forecast, err := s.categorizer.ForecastExpenses(txs, r.URL.Query().Get("period"), months, time.Now())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.writeJSON(w, http.StatusOK, forecast)
}

type duplicatesResponse struct {
	Alerts    []model.DuplicateAlert `json:"alerts"`
	Threshold float64                `json:"threshold"`
}

func (s *FinanceService) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, settings, err := s.periodConfigFor(r, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	threshold := settings.DuplicateThreshold
	if threshold <= 0 {
		threshold = s.cfg.Analytics.DuplicateThreshold
	}
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: invalid threshold %q", errBadRequest, v))
			return
		}
		threshold = parsed
	}

	txs, err := s.loadAllTransactions(r, claims.UID, nil, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	alerts := analytics.DetectDuplicates(txs, threshold)
	if alerts == nil {
		alerts = []model.DuplicateAlert{}
	}
	s.writeJSON(w, http.StatusOK, duplicatesResponse{Alerts: alerts, Threshold: threshold})
}

func (s *FinanceService) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	defPtrs, err := s.store.ListRecurringTransactions(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defs := make([]model.RecurringTransaction, 0, len(defPtrs))
	for _, d := range defPtrs {
		defs = append(defs, *d)
	}

	txs, err := s.loadAllTransactions(r, claims.UID, nil, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report := analytics.AnalyzeSubscriptions(defs, txs, time.Now())
	if report.Suggestions == nil {
		report.Suggestions = []model.SubscriptionSuggestion{}
	}
	if report.Unused == nil {
		report.Unused = []model.RecurringTransaction{}
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *FinanceService) handleSavingsStreak(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, err := s.loadAllTransactions(r, claims.UID, nil, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, analytics.CalculateSavingsStreak(txs))
}
