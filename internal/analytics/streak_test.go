package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsightapp/backend/internal/model"
)

// saving puts one income and one expense row into the given month so the
// month nets to the requested savings figure.
func saving(year int, month time.Month, net float64) []model.Transaction {
	return []model.Transaction{
		{
			Date:   time.Date(year, month, 5, 0, 0, 0, 0, time.UTC),
			Amount: 1000 + net,
			Type:   model.TransactionTypeIncome,
		},
		{
			Date:   time.Date(year, month, 20, 0, 0, 0, 0, time.UTC),
			Amount: -1000,
			Type:   model.TransactionTypeExpense,
		},
	}
}

func TestCalculateSavingsStreak(t *testing.T) {
	// Net monthly savings Jan..Jun: +50, +20, -10, +5, +5, +5.
	var txs []model.Transaction
	txs = append(txs, saving(2024, time.January, 50)...)
	txs = append(txs, saving(2024, time.February, 20)...)
	txs = append(txs, saving(2024, time.March, -10)...)
	txs = append(txs, saving(2024, time.April, 5)...)
	txs = append(txs, saving(2024, time.May, 5)...)
	txs = append(txs, saving(2024, time.June, 5)...)

	streak := CalculateSavingsStreak(txs)

	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	require.NotNil(t, streak.StreakStartDate)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), *streak.StreakStartDate)
	require.Len(t, streak.MonthlySavings, 6)
	assert.InDelta(t, 50, streak.MonthlySavings[0].Savings, 0.001)
	assert.InDelta(t, -10, streak.MonthlySavings[2].Savings, 0.001)
}

func TestCalculateSavingsStreakLongestBeatsCurrent(t *testing.T) {
	// Four positive months, a loss, then two positive months: longest 4,
	// current 2.
	var txs []model.Transaction
	for _, month := range []time.Month{time.January, time.February, time.March, time.April} {
		txs = append(txs, saving(2024, month, 100)...)
	}
	txs = append(txs, saving(2024, time.May, -50)...)
	txs = append(txs, saving(2024, time.June, 30)...)
	txs = append(txs, saving(2024, time.July, 30)...)

	streak := CalculateSavingsStreak(txs)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 4, streak.LongestStreak)
}

// A month with no transactions nets to zero and breaks the streak.
func TestCalculateSavingsStreakGapMonthBreaks(t *testing.T) {
	var txs []model.Transaction
	txs = append(txs, saving(2024, time.January, 100)...)
	txs = append(txs, saving(2024, time.March, 100)...)

	streak := CalculateSavingsStreak(txs)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	require.Len(t, streak.MonthlySavings, 3)
	assert.InDelta(t, 0, streak.MonthlySavings[1].Savings, 0.001)
}

func TestCalculateSavingsStreakBreakEvenIsNotSaving(t *testing.T) {
	streak := CalculateSavingsStreak(saving(2024, time.June, 0))
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.Nil(t, streak.StreakStartDate)
}

func TestCalculateSavingsStreakEmpty(t *testing.T) {
	streak := CalculateSavingsStreak(nil)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.NotNil(t, streak.MonthlySavings)
	assert.Empty(t, streak.MonthlySavings)
	assert.Nil(t, streak.StreakStartDate)
}
