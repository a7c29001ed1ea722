package insight_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/penny/internal/insight"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

var today = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestProjectBills_ManualBill(t *testing.T) {
	bills := []ledger.Bill{
		{Name: "Rent", Amount: amt("1500"), DueDay: 1, Category: "Housing"},
	}

	got := insight.ProjectBills(bills, nil, today)
	require.Len(t, got, 3)

	var dates []string
	for _, p := range got {
		assert.Equal(t, "Rent", p.Name)
		assert.True(t, p.Amount.Equal(amt("1500")))
		assert.Equal(t, insight.OriginManualBill, p.Origin)
		dates = append(dates, p.Date)
	}

	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, dates)
}

func TestProjectBills_DueDayClampsToShortMonth(t *testing.T) {
	bills := []ledger.Bill{
		{Name: "Card Payment", Amount: amt("200"), DueDay: 31},
	}

	got := insight.ProjectBills(bills, nil, today)
	require.Len(t, got, 3)

	var dates []string
	for _, p := range got {
		dates = append(dates, p.Date)
	}

	// February 2024 has 29 days, so the 31st clamps to the 28th.
	assert.Equal(t, []string{"2024-01-31", "2024-02-28", "2024-03-31"}, dates)
}

func TestProjectBills_DetectedRecurring(t *testing.T) {
	recurring := []insight.RecurringPattern{
		{Description: "Netflix Subscription", Amount: amt("15.99"), LastDate: "2024-01-10"},
	}

	got := insight.ProjectBills(nil, recurring, today)
	require.Len(t, got, 3)

	var dates []string
	for _, p := range got {
		assert.Equal(t, "Netflix Subscription", p.Name)
		assert.Equal(t, insight.OriginDetectedRecurring, p.Origin)
		dates = append(dates, p.Date)
	}

	assert.Equal(t, []string{"2024-02-09", "2024-03-10", "2024-04-09"}, dates)
}

func TestProjectBills_MalformedLastDateSkipped(t *testing.T) {
	recurring := []insight.RecurringPattern{
		{Description: "Broken", Amount: amt("9.99"), LastDate: "whenever"},
		{Description: "Spotify Premium", Amount: amt("10.99"), LastDate: "2024-01-05"},
	}

	got := insight.ProjectBills(nil, recurring, today)
	require.Len(t, got, 3)

	for _, p := range got {
		assert.Equal(t, "Spotify Premium", p.Name)
	}
}

func TestProjectBills_SortedByDate(t *testing.T) {
	bills := []ledger.Bill{
		{Name: "Rent", Amount: amt("1500"), DueDay: 28},
		{Name: "Internet", Amount: amt("60"), DueDay: 3},
	}
	recurring := []insight.RecurringPattern{
		{Description: "Gym Membership", Amount: amt("30"), LastDate: "2024-01-02"},
	}

	got := insight.ProjectBills(bills, recurring, today)
	require.Len(t, got, 9)

	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].Date < got[j].Date
	}))
}
