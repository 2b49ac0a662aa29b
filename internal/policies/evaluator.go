package policies

import (
	"sort"
	"time"
)

// Evaluate returns the refund percentage a cancellation earns, given the
// policy rules, the departure date and the moment of cancellation.
//
// Rules are evaluated from the largest DaysBefore down; the first rule whose
// threshold the cancellation still clears wins. With no matching rule the
// refund is zero. Days are counted in whole 24h periods, truncated.
func Evaluate(rules RuleSet, departureDate, cancelledAt time.Time) int {
	if len(rules) == 0 {
		return 0
	}

	daysUntil := int(departureDate.Sub(cancelledAt).Hours() / 24)
	if daysUntil < 0 {
		return 0
	}

	sorted := make(RuleSet, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DaysBefore > sorted[j].DaysBefore
	})

	for _, rule := range sorted {
		if daysUntil >= rule.DaysBefore {
			return rule.RefundPct
		}
	}

	return 0
}
