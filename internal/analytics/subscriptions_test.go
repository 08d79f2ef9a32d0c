package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsightapp/backend/internal/model"
)

func TestMonthlyEquivalentCost(t *testing.T) {
	tests := []struct {
		interval model.RecurringInterval
		amount   float64
		want     float64
	}{
		{model.IntervalDaily, 2, 60},
		{model.IntervalWeekly, 10, 43.3},
		{model.IntervalBiweekly, 10, 21.7},
		{model.IntervalMonthly, 15.99, 15.99},
		{model.IntervalQuarterly, 30, 10},
		{model.IntervalYearly, 120, 10},
		{model.RecurringInterval("fortnightly-ish"), 20, 20}, // unknown defaults to monthly
	}

	for _, tt := range tests {
		got := MonthlyEquivalentCost(tt.amount, tt.interval)
		assert.InDelta(t, tt.want, got, 0.001, "interval %s", tt.interval)
	}

	// Negative amounts normalize to positive cost.
	assert.InDelta(t, 9.99, MonthlyEquivalentCost(-9.99, model.IntervalMonthly), 0.001)
}

func TestAnalyzeSubscriptionsUnusedSubscription(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	lastCharge := ref.AddDate(0, 0, -200)

	defs := []model.RecurringTransaction{
		{
			ID:       "gym",
			Name:     "ELIXIA",
			Amount:   45,
			Interval: model.IntervalMonthly,
		},
	}
	txs := []model.Transaction{
		{
			Date:        lastCharge,
			Amount:      -45,
			Description: "ELIXIA HELSINKI",
			Type:        model.TransactionTypeExpense,
		},
	}

	report := AnalyzeSubscriptions(defs, txs, ref)

	require.Len(t, report.Unused, 1)
	assert.Equal(t, "gym", report.Unused[0].ID)

	require.Len(t, report.Suggestions, 1)
	s := report.Suggestions[0]
	assert.Equal(t, model.PriorityHigh, s.Priority)
	assert.InDelta(t, 540, s.PotentialSavingsPerYear, 0.001)
	require.NotNil(t, s.LastUsedDate)
	assert.True(t, s.LastUsedDate.Equal(lastCharge))
}

func TestAnalyzeSubscriptionsCheapButIdleStillSuggested(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	defs := []model.RecurringTransaction{
		{ID: "hbo", Name: "HBO Max", Amount: 9.99, Interval: model.IntervalMonthly},
	}
	// The idle rule runs before the cost rules, so even a cheap
	// subscription is flagged once its charges stop.
	txs := []model.Transaction{
		{
			Date:        ref.AddDate(0, -6, -2),
			Amount:      -9.99,
			Description: "HBO MAX",
			Type:        model.TransactionTypeExpense,
		},
	}

	report := AnalyzeSubscriptions(defs, txs, ref)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, model.PriorityHigh, report.Suggestions[0].Priority)
}

func TestAnalyzeSubscriptionsLowUsage(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	defs := []model.RecurringTransaction{
		{ID: "sauna", Name: "Urban Sauna", Amount: 30, Interval: model.IntervalMonthly},
	}
	// Two visits in six months: usage 0.33/month with a 30/month cost.
	txs := []model.Transaction{
		{Date: ref.AddDate(0, -1, 0), Amount: -30, Description: "URBAN SAUNA", Type: model.TransactionTypeExpense},
		{Date: ref.AddDate(0, -4, 0), Amount: -30, Description: "URBAN SAUNA", Type: model.TransactionTypeExpense},
	}

	report := AnalyzeSubscriptions(defs, txs, ref)
	assert.Empty(t, report.Unused)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, model.PriorityMedium, report.Suggestions[0].Priority)
	assert.Contains(t, report.Suggestions[0].Reason, "Low usage")
}

func TestAnalyzeSubscriptionsActiveCheapSubscriptionIsFine(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	defs := []model.RecurringTransaction{
		{ID: "spotify", Name: "Spotify", Amount: 11.99, Interval: model.IntervalMonthly, IsPaid: true},
	}
	var txs []model.Transaction
	for i := 0; i < 6; i++ {
		txs = append(txs, model.Transaction{
			Date:        ref.AddDate(0, -i, 5),
			Amount:      -11.99,
			Description: "SPOTIFY STOCKHOLM",
			Type:        model.TransactionTypeExpense,
		})
	}

	report := AnalyzeSubscriptions(defs, txs, ref)
	assert.Empty(t, report.Suggestions)
	assert.Empty(t, report.Unused)
}

func TestAnalyzeSubscriptionsExpensiveUnconfirmed(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	// Weekly charges keep usage high, so the earlier idle and low-usage
	// rules pass over it and the unconfirmed rule fires.
	defs := []model.RecurringTransaction{
		{ID: "box", Name: "Lounasboxi", Amount: 15, Interval: model.IntervalWeekly, IsPaid: false},
	}
	var txs []model.Transaction
	for i := 0; i < 24; i++ {
		txs = append(txs, model.Transaction{
			Date:        ref.AddDate(0, 0, -7*i-1),
			Amount:      -15,
			Description: "LOUNASBOXI OY",
			Type:        model.TransactionTypeExpense,
		})
	}

	report := AnalyzeSubscriptions(defs, txs, ref)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, model.PriorityMedium, report.Suggestions[0].Priority)
	assert.Contains(t, report.Suggestions[0].Reason, "unconfirmed")
}

func TestAnalyzeSubscriptionsSortsByPriorityThenSavings(t *testing.T) {
	ref := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)

	defs := []model.RecurringTransaction{
		{ID: "cheap-idle", Name: "Magazine", Amount: 12, Interval: model.IntervalMonthly},
		{ID: "pricey-idle", Name: "Golf Club", Amount: 95, Interval: model.IntervalMonthly},
	}
	txs := []model.Transaction{
		{Date: ref.AddDate(0, -2, 0), Amount: -12, Description: "MAGAZINE", Type: model.TransactionTypeExpense},
		{Date: ref.AddDate(0, -2, 0), Amount: -95, Description: "GOLF CLUB", Type: model.TransactionTypeExpense},
	}

	report := AnalyzeSubscriptions(defs, txs, ref)
	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "pricey-idle", report.Suggestions[0].Subscription.ID)
	assert.Equal(t, model.PriorityHigh, report.Suggestions[0].Priority)
	assert.Equal(t, "cheap-idle", report.Suggestions[1].Subscription.ID)
}

func TestMatchesDefinitionAmountTolerance(t *testing.T) {
	def := model.RecurringTransaction{Name: "Netflix", Amount: 15.99}

	within := model.Transaction{Amount: -16.49, Description: "NETFLIX.COM"}
	outside := model.Transaction{Amount: -18.00, Description: "NETFLIX.COM"}
	wrongName := model.Transaction{Amount: -15.99, Description: "DISNEY PLUS"}

	assert.True(t, matchesDefinition(def, within))
	assert.False(t, matchesDefinition(def, outside))
	assert.False(t, matchesDefinition(def, wrongName))
}
