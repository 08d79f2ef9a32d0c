// Package model defines the domain types shared by the store, the analytics
// engine and the HTTP service.
package model

import "time"

// TransactionType marks the economic direction of a transaction when the
// source data carries it explicitly. Most bank exports leave it empty and
// rely on the sign of the amount.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction is the atomic unit of the tracker: one bank-style record.
type Transaction struct {
	ID              string          `json:"id" firestore:"id"`
	UserID          string          `json:"userId" firestore:"userId"`
	Date            time.Time       `json:"date" firestore:"date"`
	Amount          float64         `json:"amount" firestore:"amount"`
	Type            TransactionType `json:"type,omitempty" firestore:"type"`
	Category        string          `json:"category,omitempty" firestore:"category"`
	Description     string          `json:"description,omitempty" firestore:"description"`
	RecipientName   string          `json:"recipientName,omitempty" firestore:"recipientName"`
	ReferenceNumber string          `json:"referenceNumber,omitempty" firestore:"referenceNumber"`
	ArchiveID       string          `json:"archiveId,omitempty" firestore:"archiveId"`
	Account         string          `json:"account,omitempty" firestore:"account"`
	Currency        string          `json:"currency,omitempty" firestore:"currency"`
	Tags            []string        `json:"tags,omitempty" firestore:"tags"`
	CreatedAt       time.Time       `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" firestore:"updatedAt"`
}

// IsExpense reports whether the transaction represents money going out.
// Only the amount and the explicit type are authoritative for the sign;
// a transaction is always exactly one of expense or income.
func (t *Transaction) IsExpense() bool {
	if t.Type == TransactionTypeExpense {
		return true
	}
	if t.Type == TransactionTypeIncome {
		return false
	}
	return t.Amount < 0
}

// IsIncome reports whether the transaction represents money coming in.
func (t *Transaction) IsIncome() bool {
	return !t.IsExpense()
}

// CategoryLimit is the budget ceiling for one category.
type CategoryLimit struct {
	ID             string    `json:"id" firestore:"id"`
	UserID         string    `json:"userId" firestore:"userId"`
	Category       string    `json:"category" firestore:"category"`
	MonthlyLimit   float64   `json:"monthlyLimit" firestore:"monthlyLimit"`
	WeeklyLimit    *float64  `json:"weeklyLimit,omitempty" firestore:"weeklyLimit"`
	AlertThreshold float64   `json:"alertThreshold,omitempty" firestore:"alertThreshold"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultAlertThreshold is the percentage of a limit at which a budget is
// flagged before being fully over.
const DefaultAlertThreshold = 80.0

// Threshold returns the configured alert threshold, falling back to the
// default when unset.
func (l *CategoryLimit) Threshold() float64 {
	if l.AlertThreshold <= 0 {
		return DefaultAlertThreshold
	}
	return l.AlertThreshold
}

// Period is a half-open instant range [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether ts falls inside the period.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.Start) && ts.Before(p.End)
}

// RecurringInterval is the native billing interval of a recurring charge.
type RecurringInterval string

const (
	IntervalDaily     RecurringInterval = "daily"
	IntervalWeekly    RecurringInterval = "weekly"
	IntervalBiweekly  RecurringInterval = "biweekly"
	IntervalMonthly   RecurringInterval = "monthly"
	IntervalQuarterly RecurringInterval = "quarterly"
	IntervalYearly    RecurringInterval = "yearly"
)

// RecurringTransaction is an expected recurring charge (subscription or
// bill), independent of whether it has actually posted.
type RecurringTransaction struct {
	ID            string            `json:"id" firestore:"id"`
	UserID        string            `json:"userId" firestore:"userId"`
	Name          string            `json:"name" firestore:"name"`
	Amount        float64           `json:"amount" firestore:"amount"`
	Category      string            `json:"category,omitempty" firestore:"category"`
	Interval      RecurringInterval `json:"interval" firestore:"interval"`
	RecipientName string            `json:"recipientName,omitempty" firestore:"recipientName"`
	Description   string            `json:"description,omitempty" firestore:"description"`
	IsPaid        bool              `json:"isPaid" firestore:"isPaid"`
	CreatedAt     time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" firestore:"updatedAt"`
}

// AlertLevel grades a budget analysis result.
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "info"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

// BudgetAnalysis is the per-category outcome of a budget run.
type BudgetAnalysis struct {
	Category         string     `json:"category"`
	Period           Period     `json:"period"`
	Limit            *float64   `json:"limit"`
	Spent            float64    `json:"spent"`
	UsedPercent      float64    `json:"usedPercent"`
	RemainingPercent float64    `json:"remainingPercent"`
	IsOverLimit      bool       `json:"isOverLimit"`
	AlertLevel       AlertLevel `json:"alertLevel"`
}

// DuplicateAlert groups a transaction with its probable duplicates.
type DuplicateAlert struct {
	ID                  string        `json:"id"`
	Transaction         Transaction   `json:"transaction"`
	SimilarTransactions []Transaction `json:"similarTransactions"`
	SimilarityScore     float64       `json:"similarityScore"`
	Reason              string        `json:"reason"`
}

// SuggestionPriority ranks subscription suggestions.
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// SubscriptionSuggestion recommends reviewing or cancelling one recurring
// charge.
type SubscriptionSuggestion struct {
	ID                      string               `json:"id"`
	Subscription            RecurringTransaction `json:"subscription"`
	Reason                  string               `json:"reason"`
	Priority                SuggestionPriority   `json:"priority"`
	PotentialSavingsPerYear float64              `json:"potentialSavingsPerYear"`
	LastUsedDate            *time.Time           `json:"lastUsedDate,omitempty"`
	UsageFrequencyPerMonth  *float64             `json:"usageFrequencyPerMonth,omitempty"`
}

// MonthlySavings is the income/expense balance of one calendar month.
type MonthlySavings struct {
	Month    time.Time `json:"month"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
	Savings  float64   `json:"savings"`
}

// SavingsStreak summarizes consecutive months with positive net savings.
type SavingsStreak struct {
	CurrentStreak   int              `json:"currentStreak"`
	LongestStreak   int              `json:"longestStreak"`
	StreakStartDate *time.Time       `json:"streakStartDate,omitempty"`
	MonthlySavings  []MonthlySavings `json:"monthlySavings"`
}

// MonthlyTotal is one bucket of the forecast history.
type MonthlyTotal struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}

// ExpenseForecast projects near-future expense totals from historical
// monthly buckets.
type ExpenseForecast struct {
	TargetPeriod    string         `json:"targetPeriod"`
	MonthsAhead     int            `json:"monthsAhead"`
	ProjectedTotal  float64        `json:"projectedTotal"`
	MonthlyAverage  float64        `json:"monthlyAverage"`
	TrendSlope      float64        `json:"trendSlope"`
	Confidence      string         `json:"confidence"`
	History         []MonthlyTotal `json:"history"`
}

// AnalyticsSettings holds the per-user knobs consumed by the engine.
type AnalyticsSettings struct {
	UserID                string    `json:"userId" firestore:"userId"`
	UsePaydayPeriod       bool      `json:"usePaydayPeriod" firestore:"usePaydayPeriod"`
	PeriodStartDay        int       `json:"periodStartDay" firestore:"periodStartDay"`
	PeriodEndDay          int       `json:"periodEndDay,omitempty" firestore:"periodEndDay"`
	PaydayStartCutoffHour int       `json:"paydayStartCutoffHour" firestore:"paydayStartCutoffHour"`
	PaydayCutoffHour      int       `json:"paydayCutoffHour" firestore:"paydayCutoffHour"`
	DuplicateThreshold    float64   `json:"duplicateThreshold,omitempty" firestore:"duplicateThreshold"`
	UpdatedAt             time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultAnalyticsSettings returns the settings used before a user has
// saved any.
func DefaultAnalyticsSettings(userID string) AnalyticsSettings {
	return AnalyticsSettings{
		UserID:         userID,
		PeriodStartDay: 1,
	}
}
