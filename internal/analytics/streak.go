package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// CalculateSavingsStreak buckets transactions by calendar month, computes
// net savings (income minus expenses) per month, and finds the current and
// longest runs of months with positive savings. The current streak is
// counted backward from the most recent month with data and resets the
// moment a non-positive month is hit; gap months with no transactions
// count as zero savings and therefore break streaks.
func CalculateSavingsStreak(txs []model.Transaction) model.SavingsStreak {
	type bucket struct {
		income   float64
		expenses float64
	}

	buckets := make(map[time.Time]*bucket)
	var earliest, latest time.Time
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		month := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, tx.Date.Location())
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		if tx.IsExpense() {
			b.expenses += math.Abs(tx.Amount)
		} else {
			b.income += math.Abs(tx.Amount)
		}
		if earliest.IsZero() || month.Before(earliest) {
			earliest = month
		}
		if month.After(latest) {
			latest = month
		}
	}

	result := model.SavingsStreak{MonthlySavings: []model.MonthlySavings{}}
	if len(buckets) == 0 {
		return result
	}

	// Walk every month from earliest to latest so gaps appear as zero.
	var months []model.MonthlySavings
	for m := earliest; !m.After(latest); m = m.AddDate(0, 1, 0) {
		ms := model.MonthlySavings{Month: m}
		if b, ok := buckets[m]; ok {
			ms.Income = b.income
			ms.Expenses = b.expenses
		}
		ms.Savings = ms.Income - ms.Expenses
		months = append(months, ms)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month.Before(months[j].Month) })

	longest, run := 0, 0
	for _, ms := range months {
		if ms.Savings > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	current := 0
	for i := len(months) - 1; i >= 0; i-- {
		if months[i].Savings <= 0 {
			break
		}
		current++
	}

	result.CurrentStreak = current
	result.LongestStreak = longest
	result.MonthlySavings = months
	if current > 0 {
		start := months[len(months)-current].Month
		result.StreakStartDate = &start
	}
	return result
}
