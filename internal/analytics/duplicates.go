package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/finsightapp/backend/internal/model"
)

// DefaultDuplicateThreshold is the unitless similarity score at/above
// which two transactions are considered probable duplicates.
const DefaultDuplicateThreshold = 150.0

// Similarity signal weights. The score of a pair is the sum of the
// signals that fire.
const (
	scoreAmountExact    = 100.0
	scoreAmountWithin1  = 80.0
	scoreAmountWithin5  = 50.0
	scoreDescExact      = 80.0
	scoreDescOverlapMax = 60.0
	scoreRecipientExact = 70.0
	scoreReferenceExact = 90.0
	scoreSameDay        = 50.0
	scoreWithin1Day     = 30.0
	scoreWithin7Days    = 20.0
	scoreSameCategory   = 20.0
)

// DetectDuplicates pairwise-compares transactions and groups probable
// duplicates under the newest transaction of each cluster. A transaction
// absorbed into a group is marked visited and can never anchor a group of
// its own, so clusters are reported exactly once. Output is deterministic
// for a fixed threshold and input.
func DetectDuplicates(txs []model.Transaction, threshold float64) []model.DuplicateAlert {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	sorted := make([]model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	visited := make(map[string]bool, len(sorted))
	var alerts []model.DuplicateAlert

	for i, anchor := range sorted {
		if visited[anchor.ID] {
			continue
		}

		var group []model.Transaction
		var bestScore float64
		var bestReason string

		for j := i + 1; j < len(sorted); j++ {
			candidate := sorted[j]
			if visited[candidate.ID] {
				continue
			}
			score, reason := similarityScore(anchor, candidate)
			if score < threshold {
				continue
			}
			group = append(group, candidate)
			visited[candidate.ID] = true
			if score > bestScore {
				bestScore = score
				bestReason = reason
			}
		}

		if len(group) == 0 {
			continue
		}
		visited[anchor.ID] = true
		alerts = append(alerts, model.DuplicateAlert{
			ID:                  uuid.New().String(),
			Transaction:         anchor,
			SimilarTransactions: group,
			SimilarityScore:     bestScore,
			Reason:              bestReason,
		})
	}

	return alerts
}

// similarityScore combines the independent signals into a weighted sum and
// a human-readable reason. Amounts are compared by absolute value; a zero
// amount can only match through the non-amount signals.
func similarityScore(a, b model.Transaction) (float64, string) {
	var score float64
	var reasons []string

	amountA := math.Abs(a.Amount)
	amountB := math.Abs(b.Amount)
	if amountA > 0 || amountB > 0 {
		diff := math.Abs(amountA - amountB)
		base := math.Max(amountA, amountB)
		switch {
		case diff == 0:
			score += scoreAmountExact
			reasons = append(reasons, "identical amount")
		case diff/base <= 0.01:
			score += scoreAmountWithin1
			reasons = append(reasons, "amount within 1%")
		case diff/base <= 0.05:
			score += scoreAmountWithin5
			reasons = append(reasons, "amount within 5%")
		}
	}

	descA := normalizeText(a.Description)
	descB := normalizeText(b.Description)
	if descA != "" && descA == descB {
		score += scoreDescExact
		reasons = append(reasons, "identical description")
	} else if overlap := wordOverlap(descA, descB); overlap > 0 {
		score += overlap * scoreDescOverlapMax
		reasons = append(reasons, "similar description")
	}

	if r := normalizeText(a.RecipientName); r != "" && r == normalizeText(b.RecipientName) {
		score += scoreRecipientExact
		reasons = append(reasons, "same recipient")
	}

	if ref := strings.TrimSpace(a.ReferenceNumber); ref != "" && ref == strings.TrimSpace(b.ReferenceNumber) {
		score += scoreReferenceExact
		reasons = append(reasons, "same reference number")
	}

	if !a.Date.IsZero() && !b.Date.IsZero() {
		days := math.Abs(a.Date.Sub(b.Date).Hours() / 24)
		sameDay := a.Date.Year() == b.Date.Year() && a.Date.YearDay() == b.Date.YearDay()
		switch {
		case sameDay:
			score += scoreSameDay
			reasons = append(reasons, "same day")
		case days <= 1:
			score += scoreWithin1Day
			reasons = append(reasons, "1 day apart")
		case days <= 7:
			score += scoreWithin7Days
			reasons = append(reasons, "within a week")
		}
	}

	if a.Category != "" && a.Category == b.Category {
		score += scoreSameCategory
		reasons = append(reasons, "same category")
	}

	return score, strings.Join(reasons, ", ")
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// wordOverlap returns the shared-word ratio of two normalized strings,
// scaled against the longer one. Empty input yields zero.
func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	set := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		set[w] = true
	}
	shared := 0
	for _, w := range wordsB {
		if set[w] {
			shared++
			set[w] = false
		}
	}
	if shared == 0 {
		return 0
	}
	longer := len(wordsA)
	if len(wordsB) > longer {
		longer = len(wordsB)
	}
	return float64(shared) / float64(longer)
}
