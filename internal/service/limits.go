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

func (s *FinanceService) handleCreateCategoryLimit(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var limit model.CategoryLimit
	if err := json.NewDecoder(r.Body).Decode(&limit); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid limit body: %v", errBadRequest, err))
		return
	}
	if limit.Category == "" || limit.MonthlyLimit <= 0 {
		s.writeError(w, r, fmt.Errorf("%w: category and positive monthlyLimit are required", errBadRequest))
		return
	}
	if limit.AlertThreshold < 0 || limit.AlertThreshold > 100 {
		s.writeError(w, r, fmt.Errorf("%w: alertThreshold must be between 0 and 100", errBadRequest))
		return
	}

	now := time.Now()
	limit.ID = uuid.New().String()
	limit.UserID = claims.UID
	limit.CreatedAt = now
	limit.UpdatedAt = now

	if err := s.store.CreateCategoryLimit(r.Context(), &limit); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, limit)
}

func (s *FinanceService) handleListCategoryLimits(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limits, err := s.store.ListCategoryLimits(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limits == nil {
		limits = []*model.CategoryLimit{}
	}
	s.writeJSON(w, http.StatusOK, limits)
}

func (s *FinanceService) handleUpdateCategoryLimit(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetCategoryLimit(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	var limit model.CategoryLimit
	if err := json.NewDecoder(r.Body).Decode(&limit); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid limit body: %v", errBadRequest, err))
		return
	}
	limit.ID = existing.ID
	limit.UserID = existing.UserID
	limit.CreatedAt = existing.CreatedAt
	limit.UpdatedAt = time.Now()

	if err := s.store.UpdateCategoryLimit(r.Context(), &limit); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, limit)
}

func (s *FinanceService) handleDeleteCategoryLimit(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetCategoryLimit(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing.UserID != claims.UID {
		s.writeError(w, r, auth.ErrUnauthenticated)
		return
	}

	if err := s.store.DeleteCategoryLimit(r.Context(), existing.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
