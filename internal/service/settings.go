package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finsightapp/backend/internal/analytics"
	"github.com/finsightapp/backend/internal/auth"
	"github.com/finsightapp/backend/internal/model"
)

func (s *FinanceService) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	settings, err := s.store.GetAnalyticsSettings(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *FinanceService) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var settings model.AnalyticsSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid settings body: %v", errBadRequest, err))
		return
	}
	settings.UserID = claims.UID
	settings.UpdatedAt = time.Now()

	// Reject invalid period configuration up front so a broken setting
	// never reaches the analytics endpoints.
	if _, err := analytics.ResolvePeriod(time.Now(), analytics.PeriodConfigFromSettings(settings)); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if settings.DuplicateThreshold < 0 {
		s.writeError(w, r, fmt.Errorf("%w: duplicateThreshold must not be negative", errBadRequest))
		return
	}

	if err := s.store.UpdateAnalyticsSettings(r.Context(), &settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}
