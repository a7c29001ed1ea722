package insight

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// Spending is the trailing-30-day summary bucketed by keyword heuristics.
type Spending struct {
	Groceries     decimal.Decimal `json:"groceries"`
	Bills         decimal.Decimal `json:"bills"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
	Income        decimal.Decimal `json:"income"`
}

// Keyword lists are fixed, matched case-insensitively as substrings. The
// classifier is heuristic by design; false positives are expected.
var (
	groceryKeywords = []string{
		"grocery", "market", "food", "walmart", "target", "costco",
		"whole foods", "aldi", "kroger", "publix",
	}
	billKeywords = []string{
		"electric", "water", "gas", "internet", "phone", "insurance",
		"rent", "mortgage", "utilities", "cable",
	}
	incomeKeywords = []string{
		"payroll", "salary", "deposit", "payment", "direct dep",
		"paycheck", "wages", "employer",
	}
	// Credits matching these are movements of the user's own money, not
	// income, and are excluded from every bucket.
	ignoreKeywords = []string{
		"round-up", "round up", "transfer", "refund", "reversal", "credit",
	}
)

var (
	largeCredit  = decimal.NewFromInt(100)
	mediumCredit = decimal.NewFromInt(50)
)

const spendingWindowDays = 30

// CategorizeSpending sums the last 30 days of transactions into the four
// fixed buckets. Transactions older than the window are skipped; ones with
// unparseable dates are kept rather than dropped.
func CategorizeSpending(txs []ledger.Transaction, now time.Time) Spending {
	cutoff := now.AddDate(0, 0, -spendingWindowDays)

	var out Spending

	for _, tx := range txs {
		if d, err := parseDate(tx.Date); err == nil && d.Before(cutoff) {
			continue
		}

		desc := strings.ToLower(tx.Description)
		category := strings.ToLower(tx.Category)

		switch {
		case tx.Amount.IsPositive():
			if containsAny(desc, ignoreKeywords) {
				continue
			}

			switch {
			case containsAny(desc, incomeKeywords):
				out.Income = out.Income.Add(tx.Amount)
			case tx.Amount.GreaterThan(largeCredit):
				// Large deposits are assumed to be income.
				out.Income = out.Income.Add(tx.Amount)
			case tx.Amount.GreaterThan(mediumCredit) &&
				!strings.Contains(desc, "transfer") &&
				!strings.Contains(desc, "refund"):
				out.Income = out.Income.Add(tx.Amount)
			}
			// Small ambiguous credits fall through uncounted.

		case tx.Amount.IsNegative():
			abs := tx.Amount.Abs()

			switch {
			case containsAny(desc, groceryKeywords) || containsAny(category, groceryKeywords):
				out.Groceries = out.Groceries.Add(abs)
			case containsAny(desc, billKeywords) || containsAny(category, billKeywords):
				out.Bills = out.Bills.Add(abs)
			default:
				out.Miscellaneous = out.Miscellaneous.Add(abs)
			}
		}
	}

	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}

	return false
}
