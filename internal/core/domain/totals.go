package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TotalRule selects how a debt's total is computed when it is first created.
type TotalRule string

const (
	// RuleAmount sums the unit amounts and ignores quantity. This is how
	// debts have always been created, so it is the default.
	RuleAmount TotalRule = "amount"
	// RuleExtended sums amount × quantity, the same formula recomputation uses.
	RuleExtended TotalRule = "extended"
)

// ParseTotalRule parses a rule name; the empty string yields RuleAmount.
func ParseTotalRule(s string) (TotalRule, error) {
	switch TotalRule(strings.ToLower(strings.TrimSpace(s))) {
	case "", RuleAmount:
		return RuleAmount, nil
	case RuleExtended:
		return RuleExtended, nil
	default:
		return "", fmt.Errorf("unknown total rule %q", s)
	}
}

// SumAmounts returns Σ amount over items.
func SumAmounts(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// SumExtended returns Σ amount × quantity over items.
func SumExtended(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Total applies the rule to items.
func (r TotalRule) Total(items []Item) decimal.Decimal {
	if r == RuleExtended {
		return SumExtended(items)
	}
	return SumAmounts(items)
}
