package analytics

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/finsightapp/backend/internal/model"
)

// Well-known category labels produced by the rule set.
const (
	CategoryBills         = "Bills"
	CategoryCardPayment   = "Card Payment"
	CategoryATMWithdrawal = "ATM Withdrawal"
	CategoryIncome        = "Income"
	CategoryOther         = "Other"
)

var (
	// Masked card numbers as banks print them, e.g. "4920 12******".
	maskedCardPattern = regexp.MustCompile(`\d{4} \d{2}\*{6}`)
	// Card-network timestamps embedded in descriptions,
	// e.g. "(..1234) 2024-01-02 13:45".
	cardTimestampPattern = regexp.MustCompile(`\(\.\.\d{4}\) \d{4}-\d{2}-\d{2} \d{2}:\d{2}`)
	posMarkerPattern     = regexp.MustCompile(`(?i)\bPOS[: ]`)
	atmMarkerPattern     = regexp.MustCompile(`(?i)\bATM\b|\bCASH WITHDRAWAL\b|\bOTTO\.`)

	merchantCleanPrefix = regexp.MustCompile(`(?i)^(pos |eftpos |visa |mastercard |amex |paypal \*)`)
	merchantCleanSuffix = regexp.MustCompile(`(?i)\s+(oy|oyj|ab|pty|ltd|inc|corp|llc)\.?$`)
	merchantLongDigits  = regexp.MustCompile(`\d{6,}`)
	merchantSpecials    = regexp.MustCompile(`[*#]+`)
)

// RuleInput carries the free-text and metadata fields a single rule may
// inspect. Text is the description, possibly concatenated with the bank
// archive id to recover patterns split across fields.
type RuleInput struct {
	Text            string
	ReferenceNumber string
	RecipientName   string
	Amount          float64
}

// Rule is one entry of the ordered categorization table: a predicate over
// the input and the category it yields. First match wins.
type Rule struct {
	Name     string
	Category string
	Match    func(in RuleInput) bool
}

// Categorizer classifies transaction text into category labels using an
// ordered rule table. It is safe for concurrent use after construction.
type Categorizer struct {
	rules            []Rule
	incomeCategories map[string]bool
}

// DefaultKeywords is the built-in merchant keyword table, keyed by the
// category each keyword yields. Keywords are matched case-insensitively as
// substrings of the combined description/recipient text.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		"Groceries": {
			"k-market", "k-supermarket", "k-citymarket", "s-market", "prisma",
			"lidl", "alepa", "sale ", "grocery", "supermarket", "aldi", "coles",
			"woolworths", "market",
		},
		"Dining": {
			"restaurant", "ravintola", "cafe", "kahvila", "coffee", "mcdonald",
			"burger", "kebab", "pizza", "sushi", "wolt", "foodora", "uber eats",
		},
		"Transport": {
			"hsl", "vr ", "taxi", "taksi", "uber", "bolt", "fuel", "petrol",
			"neste", "shell", "st1", "parking", "pysäköinti", "bus", "train",
		},
		"Utilities": {
			"electric", "sähkö", "energia", "vesi", "water", "internet",
			"broadband", "telia", "elisa", "dna ", "phone", "mobile",
		},
		"Entertainment": {
			"netflix", "spotify", "disney", "hbo", "viaplay", "cinema",
			"finnkino", "steam", "playstation", "xbox", "concert",
		},
		"Shopping": {
			"verkkokauppa", "amazon", "ebay", "zalando", "ikea", "clas ohlson",
			"tokmanni", "h&m", "store", "shop",
		},
		"Healthcare": {
			"apteekki", "pharmacy", "terveystalo", "mehiläinen", "doctor",
			"dental", "hammas", "hospital", "medical",
		},
		"Housing": {
			"vuokra", "rent", "mortgage", "asuntolaina", "taloyhtiö", "vastike",
		},
	}
}

// DefaultIncomeCategories is the allow-list of labels that may appear on
// income transactions. Anything else on an income row is forced to
// "Income" so expense categories never leak onto income.
func DefaultIncomeCategories() []string {
	return []string{CategoryIncome, "Salary", "Benefits", "Refund", "Investment"}
}

// NewCategorizer builds a categorizer from merchant keyword lists and an
// income-category allow-list. Nil arguments select the built-in defaults.
func NewCategorizer(keywords map[string][]string, incomeCategories []string) *Categorizer {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	if incomeCategories == nil {
		incomeCategories = DefaultIncomeCategories()
	}

	income := make(map[string]bool, len(incomeCategories))
	for _, c := range incomeCategories {
		income[strings.ToLower(c)] = true
	}

	c := &Categorizer{incomeCategories: income}
	c.rules = buildRules(keywords)
	return c
}

// buildRules assembles the ordered rule table. Order is the priority:
// reference number, point-of-sale markers, ATM markers, merchant keywords,
// card-network timestamps.
func buildRules(keywords map[string][]string) []Rule {
	rules := []Rule{
		{
			Name:     "reference-number",
			Category: CategoryBills,
			Match: func(in RuleInput) bool {
				return strings.TrimSpace(in.ReferenceNumber) != ""
			},
		},
		{
			Name:     "pos-marker",
			Category: CategoryCardPayment,
			Match: func(in RuleInput) bool {
				return posMarkerPattern.MatchString(in.Text) || maskedCardPattern.MatchString(in.Text)
			},
		},
		{
			Name:     "atm-marker",
			Category: CategoryATMWithdrawal,
			Match: func(in RuleInput) bool {
				return atmMarkerPattern.MatchString(in.Text)
			},
		},
	}

	// Keyword rules in a stable order so equal inputs always categorize
	// identically regardless of map iteration.
	for _, category := range sortedKeys(keywords) {
		words := keywords[category]
		cat := category
		kws := make([]string, len(words))
		for i, w := range words {
			kws[i] = strings.ToLower(w)
		}
		rules = append(rules, Rule{
			Name:     "keywords:" + strings.ToLower(cat),
			Category: cat,
			Match: func(in RuleInput) bool {
				text := strings.ToLower(in.Text + " " + in.RecipientName)
				for _, kw := range kws {
					if strings.Contains(text, kw) {
						return true
					}
				}
				return false
			},
		})
	}

	rules = append(rules, Rule{
		Name:     "card-timestamp",
		Category: CategoryCardPayment,
		Match: func(in RuleInput) bool {
			return cardTimestampPattern.MatchString(in.Text)
		},
	})

	return rules
}

// Categorize runs the rule table over the input, returning the first
// matching rule's category. The second result is false when no rule
// matched and the caller should keep the existing label.
func (c *Categorizer) Categorize(in RuleInput) (string, bool) {
	for _, r := range c.rules {
		if r.Match(in) {
			return r.Category, true
		}
	}
	return "", false
}

// NeedsRecategorization reports whether a stored category value should be
// re-run through the categorizer: it is empty, the generic default, or a
// category leak (raw bank text such as a masked card number, a POS marker
// or a card-network timestamp stored where a label belongs).
func (c *Categorizer) NeedsRecategorization(category string) bool {
	if strings.TrimSpace(category) == "" || category == CategoryOther {
		return true
	}
	return maskedCardPattern.MatchString(category) ||
		posMarkerPattern.MatchString(category) ||
		cardTimestampPattern.MatchString(category)
}

// CategorizeTransaction resolves the effective category of one transaction.
// Income rows keep their label only if it is on the income allow-list;
// everything else is forced to "Income". Expense rows with a trusted
// existing label keep it, except that the card-network timestamp pattern
// always forces re-evaluation because banks routinely mislabel those rows.
func (c *Categorizer) CategorizeTransaction(tx model.Transaction) string {
	if tx.IsIncome() {
		if c.incomeCategories[strings.ToLower(tx.Category)] {
			return tx.Category
		}
		return CategoryIncome
	}

	in := RuleInput{
		Text:            strings.TrimSpace(tx.Description + " " + tx.ArchiveID),
		ReferenceNumber: tx.ReferenceNumber,
		RecipientName:   tx.RecipientName,
		Amount:          tx.Amount,
	}

	forced := cardTimestampPattern.MatchString(in.Text)
	if !forced && !c.NeedsRecategorization(tx.Category) {
		return tx.Category
	}

	if category, ok := c.Categorize(in); ok {
		return category
	}
	if tx.Category != "" {
		return tx.Category
	}
	return CategoryOther
}

// FormatMerchantName cleans a raw merchant string for display: strips
// card-scheme prefixes, company-form suffixes and number noise, then
// title-cases the words.
func FormatMerchantName(raw string) string {
	cleaned := merchantCleanPrefix.ReplaceAllString(raw, "")
	cleaned = merchantCleanSuffix.ReplaceAllString(cleaned, "")
	cleaned = merchantLongDigits.ReplaceAllString(cleaned, "")
	cleaned = merchantSpecials.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	caser := cases.Title(language.English)
	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 2 {
			words[i] = caser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}

	result := strings.Join(words, " ")
	if len(result) > 50 {
		result = result[:50]
	}
	return result
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
