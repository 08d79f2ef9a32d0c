package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finsightapp/backend/internal/analytics"
	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/model"
)

func (s *FinanceService) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid transaction body: %v", errBadRequest, err))
		return
	}

	now := time.Now()
	tx.ID = uuid.New().String()
	tx.UserID = claims.UID
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.RecipientName == "" && tx.Description != "" {
		tx.RecipientName = analytics.FormatMerchantName(tx.Description)
	}
	tx.Category = s.categorizer.CategorizeTransaction(tx)

	if err := s.store.CreateTransaction(r.Context(), &tx); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tx)
}

type listTransactionsResponse struct {
	Transactions  []*model.Transaction `json:"transactions"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

func (s *FinanceService) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, nextToken, err := s.store.ListTransactions(r.Context(), claims.UID, startDate, endDate, 100, r.URL.Query().Get("pageToken"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []*model.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, listTransactionsResponse{Transactions: txs, NextPageToken: nextToken})
}

func (s *FinanceService) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid transaction body: %v", errBadRequest, err))
		return
	}
	tx.ID = existing.ID
	tx.UserID = existing.UserID
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now()

	if err := s.store.UpdateTransaction(r.Context(), &tx); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *FinanceService) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), existing.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// handleImportTransactions bulk-imports bank-export rows. One malformed
// row is skipped rather than failing the whole batch.
func (s *FinanceService) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var rows []model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid import body: %v", errBadRequest, err))
		return
	}

	now := time.Now()
	resp := importResponse{}
	for _, tx := range rows {
		if tx.Date.IsZero() {
			resp.Skipped++
			continue
		}
		tx.ID = uuid.New().String()
		tx.UserID = claims.UID
		tx.CreatedAt = now
		tx.UpdatedAt = now
		if tx.RecipientName == "" && tx.Description != "" {
			tx.RecipientName = analytics.FormatMerchantName(tx.Description)
		}
		tx.Category = s.categorizer.CategorizeTransaction(tx)

		if err := s.store.CreateTransaction(r.Context(), &tx); err != nil {
			s.log.Warn().Err(err).Str("description", tx.Description).Msg("skipping unimportable transaction")
			resp.Skipped++
			continue
		}
		resp.Imported++
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type recategorizeResponse struct {
	Examined int `json:"examined"`
	Updated  int `json:"updated"`
}

// handleRecategorize re-runs the categorizer over the user's whole
// history, fixing empty labels, generic defaults and category leaks.
func (s *FinanceService) handleRecategorize(w http.ResponseWriter, r *http.Request) {
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

	resp := recategorizeResponse{Examined: len(txs)}
	for _, tx := range txs {
		category := s.categorizer.CategorizeTransaction(tx)
		if category == tx.Category {
			continue
		}
		tx.Category = category
		tx.UpdatedAt = time.Now()
		if err := s.store.UpdateTransaction(r.Context(), &tx); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Updated++
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// parseDateRange reads optional RFC 3339 start/end query parameters.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid start date %q", errBadRequest, v)
		}
		startDate = &t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid end date %q", errBadRequest, v)
		}
		endDate = &t
	}
	return startDate, endDate, nil
}
