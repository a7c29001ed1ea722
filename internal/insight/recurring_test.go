package insight_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/insight"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(date, desc, amount string) ledger.Transaction {
	return ledger.Transaction{
		Date:        date,
		Amount:      amt(amount),
		Description: desc,
	}
}

// noise produces n unrelated one-off transactions so the history clears the
// minimum size without adding any repeating charge.
func noise(n int) []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, tx("2024-01-02", fmt.Sprintf("oneoff%d", i), "-7.77"))
	}

	return txs
}

func TestDetectRecurring_TooLittleHistory(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2024-01-15", "Netflix Subscription", "-15.99"),
		tx("2024-02-14", "Netflix Subscription", "-15.99"),
		tx("2024-03-16", "Netflix Subscription", "-15.99"),
	}

	assert.Empty(t, insight.DetectRecurring(txs))
}

func TestDetectRecurring_MonthlyCharge(t *testing.T) {
	txs := append(noise(7),
		tx("2024-01-15", "Netflix Subscription", "-15.99"),
		tx("2024-02-14", "Netflix Subscription", "-15.99"),
		tx("2024-03-16", "Netflix Subscription", "-15.99"),
	)

	patterns := insight.DetectRecurring(txs)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "Netflix Subscription", p.Description)
	assert.True(t, p.Amount.Equal(amt("15.99")), "got %s", p.Amount)
	assert.Equal(t, "Monthly", p.Frequency)
	assert.Equal(t, "Uncategorized", p.Category)
	assert.Equal(t, "2024-03-16", p.LastDate)
	assert.Equal(t, 3, p.Occurrences)
}

func TestDetectRecurring_AmountTolerance(t *testing.T) {
	tests := []struct {
		name    string
		amounts [2]string
		want    int
	}{
		// Deviation of exactly 10% of the mean is over the line.
		{"exactly ten percent", [2]string{"-90", "-110"}, 0},
		{"just under ten percent", [2]string{"-90.2", "-109.8"}, 1},
		{"identical", [2]string{"-50", "-50"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := append(noise(8),
				tx("2024-01-10", "Gym Membership Fee", tt.amounts[0]),
				tx("2024-02-09", "Gym Membership Fee", tt.amounts[1]),
			)

			assert.Len(t, insight.DetectRecurring(txs), tt.want)
		})
	}
}

func TestDetectRecurring_GapBounds(t *testing.T) {
	tests := []struct {
		name   string
		second string
		want   int
	}{
		{"24 days is too tight", "2024-02-03", 0},
		{"25 days", "2024-02-04", 1},
		{"35 days", "2024-02-14", 1},
		{"36 days is too loose", "2024-02-15", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := append(noise(8),
				tx("2024-01-10", "Cloud Storage Plan", "-9.99"),
				tx(tt.second, "Cloud Storage Plan", "-9.99"),
			)

			assert.Len(t, insight.DetectRecurring(txs), tt.want)
		})
	}
}

func TestDetectRecurring_GroupsByFirstThreeWords(t *testing.T) {
	txs := append(noise(8),
		tx("2024-01-10", "SPOTIFY USA Premium Plan 123", "-10.99"),
		tx("2024-02-09", "spotify usa premium plan 456", "-10.99"),
	)

	patterns := insight.DetectRecurring(txs)
	require.Len(t, patterns, 1)
	assert.Equal(t, "SPOTIFY USA Premium Plan 123", patterns[0].Description)
	assert.Equal(t, 2, patterns[0].Occurrences)
}

func TestDetectRecurring_MalformedDateDropsGroupOnly(t *testing.T) {
	txs := append(noise(6),
		tx("2024-01-10", "Gym Membership Fee", "-30"),
		tx("not-a-date", "Gym Membership Fee", "-30"),
		tx("2024-01-15", "Netflix Subscription", "-15.99"),
		tx("2024-02-14", "Netflix Subscription", "-15.99"),
	)

	patterns := insight.DetectRecurring(txs)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Netflix Subscription", patterns[0].Description)
}

func TestDetectRecurring_KeepsCategoryFromFirstMember(t *testing.T) {
	first := tx("2024-01-10", "City Power Electric", "-85")
	first.Category = "Utilities"

	txs := append(noise(8),
		first,
		tx("2024-02-09", "City Power Electric", "-85"),
	)

	patterns := insight.DetectRecurring(txs)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Utilities", patterns[0].Category)
}
