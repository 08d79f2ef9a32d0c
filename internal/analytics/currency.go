package analytics

import (
	"fmt"
	"strings"
)

// Static exchange rates, expressed as units of the currency per one euro.
// The engine never fetches live rates; reports that mix currencies get an
// approximate conversion from this table.
var eurRates = map[string]float64{
	"EUR": 1,
	"USD": 1.09,
	"GBP": 0.85,
	"SEK": 11.3,
	"NOK": 11.6,
	"DKK": 7.46,
	"CHF": 0.94,
	"PLN": 4.3,
	"JPY": 163.0,
}

// ConvertAmount converts an amount between two currencies using the static
// rate table. Unknown currency codes are an error rather than a silent
// passthrough.
func ConvertAmount(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" {
		from = "EUR"
	}
	if to == "" {
		to = "EUR"
	}
	if from == to {
		return amount, nil
	}

	fromRate, ok := eurRates[from]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", from)
	}
	toRate, ok := eurRates[to]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", to)
	}
	return amount / fromRate * toRate, nil
}

// SupportedCurrencies lists the codes present in the static rate table.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(eurRates))
	for code := range eurRates {
		codes = append(codes, code)
	}
	return codes
}
