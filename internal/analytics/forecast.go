package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/finsightapp/backend/internal/model"
)

// Forecast target periods.
const (
	ForecastPeriodMonth   = "month"
	ForecastPeriodQuarter = "quarter"
	ForecastPeriodYear    = "year"
)

// DefaultForecastMonths is the trailing history window used when the
// caller does not specify one.
const DefaultForecastMonths = 6

// ForecastExpenses buckets expense totals by calendar month over the
// trailing monthsOfHistory months ending at ref, fits a linear trend and
// projects it over the target period, clamped to be non-negative.
//
// Months with no transactions contribute a true zero. That keeps the math
// simple but skews the trend for users with less actual history than the
// window; callers wanting accuracy on young accounts should shorten
// monthsOfHistory themselves.
func (c *Categorizer) ForecastExpenses(txs []model.Transaction, target string, monthsOfHistory int, ref time.Time) (model.ExpenseForecast, error) {
	if monthsOfHistory == 0 {
		monthsOfHistory = DefaultForecastMonths
	}
	if monthsOfHistory < 0 {
		return model.ExpenseForecast{}, fmt.Errorf("months of history must be positive, got %d", monthsOfHistory)
	}

	var monthsAhead int
	switch target {
	case ForecastPeriodMonth, "":
		target = ForecastPeriodMonth
		monthsAhead = 1
	case ForecastPeriodQuarter:
		monthsAhead = 3
	case ForecastPeriodYear:
		monthsAhead = 12
	default:
		return model.ExpenseForecast{}, fmt.Errorf("unknown forecast period %q", target)
	}

	if ref.IsZero() {
		ref = time.Now()
	}
	currentMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	// Zero-initialized buckets, oldest first, ending at the current month.
	history := make([]model.MonthlyTotal, monthsOfHistory)
	index := make(map[string]int, monthsOfHistory)
	for i := 0; i < monthsOfHistory; i++ {
		month := currentMonth.AddDate(0, i-monthsOfHistory+1, 0)
		history[i] = model.MonthlyTotal{Month: month}
		index[month.Format("2006-01")] = i
	}

	for _, tx := range txs {
		if !tx.IsExpense() || tx.Date.IsZero() {
			continue
		}
		if i, ok := index[tx.Date.Format("2006-01")]; ok {
			history[i].Total += math.Abs(tx.Amount)
		}
	}

	values := make([]float64, len(history))
	var sum float64
	nonZero := 0
	for i, h := range history {
		values[i] = h.Total
		sum += h.Total
		if h.Total > 0 {
			nonZero++
		}
	}
	mean := sum / float64(len(values))

	slope, intercept, rSquared := linearFit(values)

	// Extrapolate the fitted line month by month past the window.
	n := float64(len(values))
	var projected float64
	for k := 1; k <= monthsAhead; k++ {
		projected += math.Max(0, intercept+slope*(n-1+float64(k)))
	}

	confidence := "low"
	if nonZero >= 3 {
		switch {
		case rSquared >= 0.8:
			confidence = "high"
		case rSquared >= 0.4:
			confidence = "medium"
		}
	}

	return model.ExpenseForecast{
		TargetPeriod:   target,
		MonthsAhead:    monthsAhead,
		ProjectedTotal: projected,
		MonthlyAverage: mean,
		TrendSlope:     slope,
		Confidence:     confidence,
		History:        history,
	}, nil
}

// linearFit computes a least-squares line through the series where
// x = 0, 1, 2, ... (the index), returning slope, intercept and R-squared.
// With exactly two points this degenerates to the slope between them.
func linearFit(points []float64) (slope, intercept, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		if n == 1 {
			return 0, points[0], 0
		}
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
