package insight

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// RecurringPattern is a group of transactions judged likely to be the same
// repeating charge. It is derived from transaction history on every request
// and never stored.
type RecurringPattern struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	Category    string          `json:"category"`
	LastDate    string          `json:"last_date"`
	Occurrences int             `json:"occurrences"`
}

const (
	// minHistory is the minimum number of stored transactions before
	// detection produces anything; fewer is not enough signal.
	minHistory = 10
	// minOccurrences is how often a charge must appear to count.
	minOccurrences = 2
)

var (
	// amountTolerance caps how far each member may drift from the group
	// mean, as a fraction of the mean's absolute value.
	amountTolerance = decimal.RequireFromString("0.1")

	// Average day-gap bounds for a roughly monthly cadence, inclusive.
	minAvgGap = decimal.NewFromInt(25)
	maxAvgGap = decimal.NewFromInt(35)
)

// DetectRecurring scans the full transaction history for roughly monthly
// charges with stable amounts. Grouping is deliberately coarse: transactions
// sharing the first three words of their lowercased description land in one
// group, so unrelated merchants with the same leading words collide.
func DetectRecurring(txs []ledger.Transaction) []RecurringPattern {
	if len(txs) < minHistory {
		return nil
	}

	groups := make(map[string][]ledger.Transaction)

	var order []string

	for _, tx := range txs {
		key := groupKey(tx.Description)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}

		groups[key] = append(groups[key], tx)
	}

	var patterns []RecurringPattern

	for _, key := range order {
		group := groups[key]
		if len(group) < minOccurrences {
			continue
		}

		mean := meanAmount(group)
		if !amountsStable(group, mean) {
			continue
		}

		dates, ok := parseGroupDates(group)
		if !ok {
			// A malformed date makes the cadence unknowable; drop the
			// group instead of failing the whole pass.
			continue
		}

		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		if !roughlyMonthly(dates) {
			continue
		}

		first := group[0]

		patterns = append(patterns, RecurringPattern{
			Description: first.Description,
			Amount:      mean.Abs(),
			Frequency:   "Monthly",
			Category:    categoryOrDefault(first.Category),
			LastDate:    dates[len(dates)-1].Format(time.DateOnly),
			Occurrences: len(group),
		})
	}

	return patterns
}

// groupKey normalizes a description to its first three lowercased words.
func groupKey(description string) string {
	words := strings.Fields(strings.ToLower(description))
	if len(words) > 3 {
		words = words[:3]
	}

	return strings.Join(words, " ")
}

func meanAmount(group []ledger.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range group {
		sum = sum.Add(tx.Amount)
	}

	return sum.Div(decimal.NewFromInt(int64(len(group))))
}

// amountsStable reports whether every amount deviates from the mean by
// strictly less than the tolerance fraction of the mean's absolute value.
func amountsStable(group []ledger.Transaction, mean decimal.Decimal) bool {
	limit := mean.Abs().Mul(amountTolerance)

	for _, tx := range group {
		if tx.Amount.Sub(mean).Abs().Cmp(limit) >= 0 {
			return false
		}
	}

	return true
}

func parseGroupDates(group []ledger.Transaction) ([]time.Time, bool) {
	dates := make([]time.Time, 0, len(group))

	for _, tx := range group {
		d, err := parseDate(tx.Date)
		if err != nil {
			return nil, false
		}

		dates = append(dates, d)
	}

	return dates, true
}

// roughlyMonthly checks that the average gap between consecutive sorted
// dates falls within [25, 35] days.
func roughlyMonthly(dates []time.Time) bool {
	if len(dates) < 2 {
		return false
	}

	totalDays := 0
	for i := 1; i < len(dates); i++ {
		totalDays += int(dates[i].Sub(dates[i-1]).Hours() / 24)
	}

	avg := decimal.NewFromInt(int64(totalDays)).Div(decimal.NewFromInt(int64(len(dates) - 1)))

	return avg.Cmp(minAvgGap) >= 0 && avg.Cmp(maxAvgGap) <= 0
}

func categoryOrDefault(category string) string {
	if category == "" {
		return "Uncategorized"
	}

	return category
}
