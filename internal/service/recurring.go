package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/model"
)

var validIntervals = map[model.RecurringInterval]bool{
	model.IntervalDaily:     true,
	model.IntervalWeekly:    true,
	model.IntervalBiweekly:  true,
	model.IntervalMonthly:   true,
	model.IntervalQuarterly: true,
	model.IntervalYearly:    true,
}

func (s *FinanceService) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var rt model.RecurringTransaction
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid recurring transaction body: %v", errBadRequest, err))
		return
	}
	if rt.Name == "" {
		s.writeError(w, r, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}
	if !validIntervals[rt.Interval] {
		s.writeError(w, r, fmt.Errorf("%w: unknown interval %q", errBadRequest, rt.Interval))
		return
	}

	now := time.Now()
	rt.ID = uuid.New().String()
	rt.UserID = claims.UID
	rt.CreatedAt = now
	rt.UpdatedAt = now

	if err := s.store.CreateRecurringTransaction(r.Context(), &rt); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rt)
}

func (s *FinanceService) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rts, err := s.store.ListRecurringTransactions(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rts == nil {
		rts = []*model.RecurringTransaction{}
	}
	s.writeJSON(w, http.StatusOK, rts)
}

func (s *FinanceService) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetRecurringTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	var rt model.RecurringTransaction
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid recurring transaction body: %v", errBadRequest, err))
		return
	}
	if !validIntervals[rt.Interval] {
		s.writeError(w, r, fmt.Errorf("%w: unknown interval %q", errBadRequest, rt.Interval))
		return
	}
	rt.ID = existing.ID
	rt.UserID = existing.UserID
	rt.CreatedAt = existing.CreatedAt
	rt.UpdatedAt = time.Now()

	if err := s.store.UpdateRecurringTransaction(r.Context(), &rt); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rt)
}

func (s *FinanceService) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetRecurringTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	if err := s.store.DeleteRecurringTransaction(r.Context(), existing.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
