package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsightapp/backend/internal/model"
)

// Monthly-equivalent multipliers per billing interval.
var monthlyFactors = map[model.RecurringInterval]float64{
	model.IntervalDaily:     30,
	model.IntervalWeekly:    4.33,
	model.IntervalBiweekly:  2.17,
	model.IntervalMonthly:   1,
	model.IntervalQuarterly: 1.0 / 3.0,
	model.IntervalYearly:    1.0 / 12.0,
}

// MonthlyEquivalentCost normalizes a recurring amount to a per-month
// figure regardless of its native billing interval. Unknown intervals are
// treated as monthly.
func MonthlyEquivalentCost(amount float64, interval model.RecurringInterval) float64 {
	factor, ok := monthlyFactors[interval]
	if !ok {
		factor = 1
	}
	return math.Abs(amount) * factor
}

// SubscriptionReport is the outcome of matching recurring definitions
// against actual transaction history.
type SubscriptionReport struct {
	Suggestions []model.SubscriptionSuggestion `json:"suggestions"`
	Unused      []model.RecurringTransaction   `json:"unused"`
}

// AnalyzeSubscriptions matches each recurring definition against the
// transaction history, estimates usage frequency over the trailing six
// months and recommends charges worth reviewing. Suggestion rules are
// evaluated in a fixed order and only the first matching rule fires per
// definition. Results are sorted by priority, then potential savings.
func AnalyzeSubscriptions(defs []model.RecurringTransaction, txs []model.Transaction, ref time.Time) SubscriptionReport {
	if ref.IsZero() {
		ref = time.Now()
	}
	sixMonthsAgo := ref.AddDate(0, -6, 0)

	var report SubscriptionReport

	for _, def := range defs {
		var lastSeen time.Time
		recentMatches := 0
		for _, tx := range txs {
			if !matchesDefinition(def, tx) {
				continue
			}
			if tx.Date.After(lastSeen) {
				lastSeen = tx.Date
			}
			if tx.Date.After(sixMonthsAgo) {
				recentMatches++
			}
		}

		monthlyCost := MonthlyEquivalentCost(def.Amount, def.Interval)
		yearlyCost := monthlyCost * 12
		usage := float64(recentMatches) / 6.0

		if recentMatches == 0 {
			report.Unused = append(report.Unused, def)
		}

		if suggestion, ok := suggestFor(def, monthlyCost, yearlyCost, usage, recentMatches, lastSeen, ref); ok {
			report.Suggestions = append(report.Suggestions, suggestion)
		}
	}

	priorityRank := map[model.SuggestionPriority]int{
		model.PriorityHigh:   0,
		model.PriorityMedium: 1,
		model.PriorityLow:    2,
	}
	sort.SliceStable(report.Suggestions, func(i, j int) bool {
		pi, pj := priorityRank[report.Suggestions[i].Priority], priorityRank[report.Suggestions[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return report.Suggestions[i].PotentialSavingsPerYear > report.Suggestions[j].PotentialSavingsPerYear
	})

	return report
}

// suggestFor applies the ordered suggestion rules to one definition.
func suggestFor(def model.RecurringTransaction, monthlyCost, yearlyCost, usage float64, recentMatches int, lastSeen time.Time, ref time.Time) (model.SubscriptionSuggestion, bool) {
	base := model.SubscriptionSuggestion{
		ID:                      uuid.New().String(),
		Subscription:            def,
		PotentialSavingsPerYear: yearlyCost,
	}
	if !lastSeen.IsZero() {
		last := lastSeen
		base.LastUsedDate = &last
	}
	freq := usage
	base.UsageFrequencyPerMonth = &freq

	switch {
	case recentMatches == 0 && !lastSeen.IsZero():
		daysSince := int(ref.Sub(lastSeen).Hours() / 24)
		base.Priority = model.PriorityMedium
		if daysSince > 180 {
			base.Priority = model.PriorityHigh
		}
		base.Reason = fmt.Sprintf("No matching charges in the last 6 months; last seen %d days ago", daysSince)
		return base, true

	case usage < 0.5 && monthlyCost > 10:
		switch {
		case monthlyCost > 50:
			base.Priority = model.PriorityHigh
		case monthlyCost > 25:
			base.Priority = model.PriorityMedium
		default:
			base.Priority = model.PriorityLow
		}
		base.Reason = fmt.Sprintf("Low usage: %.1f charges per month at %.2f/month", usage, monthlyCost)
		return base, true

	case yearlyCost > 500 && usage < 2:
		base.Priority = model.PriorityHigh
		base.Reason = fmt.Sprintf("High cost, low usage: %.2f/year with %.1f charges per month", yearlyCost, usage)
		return base, true

	case monthlyCost > 50 && !def.IsPaid:
		base.Priority = model.PriorityMedium
		base.Reason = fmt.Sprintf("Expensive unconfirmed subscription at %.2f/month", monthlyCost)
		return base, true
	}

	return model.SubscriptionSuggestion{}, false
}

// matchesDefinition reports whether a transaction looks like a posting of
// the recurring definition: amount within 5% and a name, recipient or
// description substring match.
func matchesDefinition(def model.RecurringTransaction, tx model.Transaction) bool {
	defAmount := math.Abs(def.Amount)
	txAmount := math.Abs(tx.Amount)
	if defAmount == 0 {
		return false
	}
	if math.Abs(txAmount-defAmount)/defAmount > 0.05 {
		return false
	}

	txText := normalizeText(tx.Description + " " + tx.RecipientName)
	for _, needle := range []string{def.Name, def.RecipientName, def.Description} {
		n := normalizeText(needle)
		if n == "" {
			continue
		}
		if strings.Contains(txText, n) {
			return true
		}
	}
	return false
}
