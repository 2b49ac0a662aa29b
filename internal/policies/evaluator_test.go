package policies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func standardRules() RuleSet {
	return RuleSet{
		{DaysBefore: 30, RefundPct: 80},
		{DaysBefore: 7, RefundPct: 50},
		{DaysBefore: 0, RefundPct: 0},
	}
}

func TestEvaluate_StandardPolicy(t *testing.T) {
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		daysAhead int
		expected  int
	}{
		{"31 days before earns 80 percent", 31, 80},
		{"exactly 30 days before earns 80 percent", 30, 80},
		{"10 days before earns 50 percent", 10, 50},
		{"exactly 7 days before earns 50 percent", 7, 50},
		{"2 days before earns nothing", 2, 0},
		{"same day earns nothing", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cancelledAt := departure.AddDate(0, 0, -tt.daysAhead)
			assert.Equal(t, tt.expected, Evaluate(standardRules(), departure, cancelledAt))
		})
	}
}

func TestEvaluate_UnsortedRulesGiveSameResult(t *testing.T) {
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	shuffled := RuleSet{
		{DaysBefore: 0, RefundPct: 0},
		{DaysBefore: 30, RefundPct: 80},
		{DaysBefore: 7, RefundPct: 50},
	}

	cancelledAt := departure.AddDate(0, 0, -10)
	assert.Equal(t, 50, Evaluate(shuffled, departure, cancelledAt))
}

func TestEvaluate_AfterDeparture(t *testing.T) {
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	cancelledAt := departure.AddDate(0, 0, 1)

	assert.Equal(t, 0, Evaluate(standardRules(), departure, cancelledAt))
}

func TestEvaluate_EmptyRules(t *testing.T) {
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, Evaluate(nil, departure, departure.AddDate(0, 0, -60)))
}

func TestEvaluate_PartialDaysTruncate(t *testing.T) {
	departure := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	// 6 days and 23 hours before departure counts as 6 days
	cancelledAt := departure.Add(-(6*24 + 23) * time.Hour)

	assert.Equal(t, 0, Evaluate(standardRules(), departure, cancelledAt))
}
