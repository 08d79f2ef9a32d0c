package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// Budget granularities.
const (
	GranularityMonthly = "monthly"
	GranularityWeekly  = "weekly"
)

// BudgetOptions controls one budget analysis run.
type BudgetOptions struct {
	Granularity string // "monthly" (default) or "weekly"
	Reference   time.Time
	Period      PeriodConfig
	AlertsOnly  bool
}

// AnalyzeBudgets aggregates expense transactions into per-category totals
// for the resolved period and compares them against configured limits.
// Categories with spend but no configured limit are reported with a nil
// limit and never alert. With AlertsOnly set, only categories at/above
// their alert threshold are returned.
func (c *Categorizer) AnalyzeBudgets(txs []model.Transaction, limits []model.CategoryLimit, opts BudgetOptions) ([]model.BudgetAnalysis, error) {
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	var period model.Period
	switch opts.Granularity {
	case GranularityWeekly:
		period = ResolveWeek(ref)
	case GranularityMonthly, "":
		var err error
		period, err = ResolvePeriod(ref, opts.Period)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown budget granularity %q", opts.Granularity)
	}

	spent := make(map[string]float64)
	for _, tx := range txs {
		if !period.Contains(tx.Date) || !tx.IsExpense() {
			continue
		}
		category := c.CategorizeTransaction(tx)
		spent[category] += math.Abs(tx.Amount)
	}

	limitByCategory := make(map[string]model.CategoryLimit, len(limits))
	for _, l := range limits {
		limitByCategory[l.Category] = l
	}

	var results []model.BudgetAnalysis

	for _, l := range limits {
		limit := l.MonthlyLimit
		if opts.Granularity == GranularityWeekly {
			if l.WeeklyLimit == nil {
				// No weekly ceiling configured; report as unlimited below.
				delete(limitByCategory, l.Category)
				continue
			}
			limit = *l.WeeklyLimit
		}
		if limit <= 0 {
			delete(limitByCategory, l.Category)
			continue
		}

		total := spent[l.Category]
		used := total / limit * 100
		level := model.AlertLevelInfo
		switch {
		case total > limit:
			level = model.AlertLevelCritical
		case used >= l.Threshold():
			level = model.AlertLevelWarning
		}

		if opts.AlertsOnly && level == model.AlertLevelInfo {
			continue
		}

		lim := limit
		results = append(results, model.BudgetAnalysis{
			Category:         l.Category,
			Period:           period,
			Limit:            &lim,
			Spent:            total,
			UsedPercent:      used,
			RemainingPercent: math.Max(0, 100-used),
			IsOverLimit:      total > limit,
			AlertLevel:       level,
		})
	}

	if !opts.AlertsOnly {
		for category, total := range spent {
			if _, ok := limitByCategory[category]; ok {
				continue
			}
			results = append(results, model.BudgetAnalysis{
				Category:         category,
				Period:           period,
				Limit:            nil,
				Spent:            total,
				RemainingPercent: 100,
				AlertLevel:       model.AlertLevelInfo,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Spent != results[j].Spent {
			return results[i].Spent > results[j].Spent
		}
		return results[i].Category < results[j].Category
	})

	return results, nil
}
