package insight

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// Origin tags where a projection came from.
type Origin string

const (
	OriginManualBill        Origin = "manual_bill"
	OriginDetectedRecurring Origin = "detected_recurring"
)

// Projection is a predicted future charge, derived on every request.
type Projection struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Origin Origin          `json:"origin"`
}

const projectionPeriods = 3

// ProjectBills predicts the next ~90 days of charges from tracked bills and
// detected recurring patterns. Months are approximated as fixed 30-day steps
// from today rather than true calendar months, and the result is sorted by
// ISO date string, which orders chronologically.
func ProjectBills(bills []ledger.Bill, recurring []RecurringPattern, today time.Time) []Projection {
	var out []Projection

	for _, bill := range bills {
		for offset := 0; offset < projectionPeriods; offset++ {
			anchor := today.AddDate(0, 0, spendingWindowDays*offset)

			out = append(out, Projection{
				Name:   bill.Name,
				Amount: bill.Amount,
				Date:   dueDate(anchor, bill.DueDay).Format(time.DateOnly),
				Origin: OriginManualBill,
			})
		}
	}

	for _, rec := range recurring {
		last, err := parseDate(rec.LastDate)
		if err != nil {
			continue
		}

		for k := 1; k <= projectionPeriods; k++ {
			out = append(out, Projection{
				Name:   rec.Description,
				Amount: rec.Amount,
				Date:   last.AddDate(0, 0, spendingWindowDays*k).Format(time.DateOnly),
				Origin: OriginDetectedRecurring,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out
}

// dueDate pins the anchor's month to the bill's due day. Months too short to
// contain the due day clamp to day 28.
func dueDate(anchor time.Time, day int) time.Time {
	year, month, _ := anchor.Date()
	if day > daysIn(year, month) {
		day = 28
	}

	return time.Date(year, month, day, 0, 0, 0, 0, anchor.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
