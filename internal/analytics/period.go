// Package analytics implements the finance analytics engine: pure,
// stateless functions that turn in-memory transaction collections into
// categorized spending, budget compliance, forecasts, duplicate alerts and
// subscription recommendations. Nothing in this package performs I/O.
package analytics

import (
	"fmt"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// PeriodConfig describes how a user's budgeting period is anchored.
// When UsePaydayPeriod is false the period is the calendar month and the
// remaining fields are ignored.
type PeriodConfig struct {
	UsePaydayPeriod       bool
	PeriodStartDay        int
	PeriodEndDay          int // 0 means "one full month from start"
	PaydayStartCutoffHour int
	PaydayCutoffHour      int
}

// PeriodConfigFromSettings maps stored user settings onto a PeriodConfig.
func PeriodConfigFromSettings(s model.AnalyticsSettings) PeriodConfig {
	return PeriodConfig{
		UsePaydayPeriod:       s.UsePaydayPeriod,
		PeriodStartDay:        s.PeriodStartDay,
		PeriodEndDay:          s.PeriodEndDay,
		PaydayStartCutoffHour: s.PaydayStartCutoffHour,
		PaydayCutoffHour:      s.PaydayCutoffHour,
	}
}

// ResolvePeriod turns a reference date and a period configuration into a
// concrete half-open [start, end) range.
//
// Payday periods are bounded by a day-of-month and an hour-of-day cutoff on
// each side: salary landing on the boundary day at/after the start cutoff
// opens the new period, while anything on the end boundary day at/after the
// end cutoff already belongs to the next one. Days 29-31 are rejected
// because they do not exist in every month.
func ResolvePeriod(ref time.Time, cfg PeriodConfig) (model.Period, error) {
	if !cfg.UsePaydayPeriod {
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return model.Period{
			Start: start,
			End:   start.AddDate(0, 1, 0),
			Label: start.Format("January 2006"),
		}, nil
	}

	if cfg.PeriodStartDay < 1 || cfg.PeriodStartDay > 28 {
		return model.Period{}, fmt.Errorf("period start day must be between 1 and 28, got %d", cfg.PeriodStartDay)
	}
	if cfg.PeriodEndDay != 0 && (cfg.PeriodEndDay < 1 || cfg.PeriodEndDay > 28) {
		return model.Period{}, fmt.Errorf("period end day must be between 1 and 28, got %d", cfg.PeriodEndDay)
	}
	if cfg.PaydayStartCutoffHour < 0 || cfg.PaydayStartCutoffHour > 23 {
		return model.Period{}, fmt.Errorf("payday start cutoff hour must be between 0 and 23, got %d", cfg.PaydayStartCutoffHour)
	}
	if cfg.PaydayCutoffHour < 0 || cfg.PaydayCutoffHour > 23 {
		return model.Period{}, fmt.Errorf("payday cutoff hour must be between 0 and 23, got %d", cfg.PaydayCutoffHour)
	}

	// Most recent occurrence of the start boundary at/before ref.
	start := time.Date(ref.Year(), ref.Month(), cfg.PeriodStartDay, cfg.PaydayStartCutoffHour, 0, 0, 0, ref.Location())
	if ref.Before(start) {
		start = start.AddDate(0, -1, 0)
	}

	var end time.Time
	if cfg.PeriodEndDay == 0 {
		end = start.AddDate(0, 1, 0)
	} else {
		end = time.Date(start.Year(), start.Month(), cfg.PeriodEndDay, cfg.PaydayCutoffHour, 0, 0, 0, start.Location())
		if !end.After(start) {
			end = end.AddDate(0, 1, 0)
		}
	}

	return model.Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s to %s", start.Format("2 Jan"), end.Format("2 Jan 2006")),
	}, nil
}

// ResolveWeek returns the calendar week (Sunday to Sunday) containing ref.
func ResolveWeek(ref time.Time) model.Period {
	dayStart := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	start := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	return model.Period{
		Start: start,
		End:   start.AddDate(0, 0, 7),
		Label: "Week of " + start.Format("Jan 02"),
	}
}
