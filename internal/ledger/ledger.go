package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single bank movement. Negative amounts are expenses,
// positive amounts are credits. The date is kept as the raw ISO-8601 string
// delivered by the upstream source; consumers parse it themselves and decide
// how to treat malformed values.
type Transaction struct {
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category,omitempty"`
	MerchantName string          `json:"merchant_name,omitempty"`
}

// Key identifies a transaction for de-duplication purposes.
type Key struct {
	Date        string
	Description string
	Amount      string
}

func (t Transaction) Key() Key {
	return Key{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.String(),
	}
}

// KeySet builds the de-duplication index for a transaction list.
func KeySet(txs []Transaction) map[Key]struct{} {
	set := make(map[Key]struct{}, len(txs))
	for _, tx := range txs {
		set[tx.Key()] = struct{}{}
	}

	return set
}

// Bill is a tracked monthly obligation, entered by hand or promoted from a
// detected recurring pattern.
type Bill struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDay       int             `json:"due_day"`
	Category     string          `json:"category"`
	AutoDetected bool            `json:"auto_detected,omitempty"`
}

// Income is a declared income source.
type Income struct {
	Source    string          `json:"source"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	DateAdded time.Time       `json:"date_added"`
}

// Debt is a credit card or loan balance.
type Debt struct {
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	MinPayment   decimal.Decimal `json:"min_payment"`
}

// Budget holds the three discretionary monthly allocations.
type Budget struct {
	Groceries     decimal.Decimal `json:"groceries"`
	Savings       decimal.Decimal `json:"savings"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
}

// LinkedAccount is an external bank connection. The access token and cursor
// are opaque values owned by the aggregator; the cursor marks where the next
// transaction sync resumes.
type LinkedAccount struct {
	InstitutionName string     `json:"institution_name"`
	AccessToken     string     `json:"access_token"`
	ItemID          string     `json:"item_id"`
	Cursor          string     `json:"cursor,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
}

// Ledger is the whole financial record set. It is loaded wholesale, mutated
// in memory and written back wholesale; last write wins.
type Ledger struct {
	Income       []Income        `json:"income"`
	Bills        []Bill          `json:"bills"`
	Budget       Budget          `json:"budget"`
	Transactions []Transaction   `json:"transactions"`
	Debts        []Debt          `json:"debts"`
	Accounts     []LinkedAccount `json:"linked_accounts"`
}

// Stats are the aggregate numbers shown on the dashboard.
type Stats struct {
	Income         decimal.Decimal `json:"income"`
	Bills          decimal.Decimal `json:"bills"`
	DebtMin        decimal.Decimal `json:"debt_min"`
	Debt           decimal.Decimal `json:"debt"`
	Groceries      decimal.Decimal `json:"groceries"`
	Savings        decimal.Decimal `json:"savings"`
	Miscellaneous  decimal.Decimal `json:"miscellaneous"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// Stats computes the dashboard aggregates: total allocation is bills plus
// minimum debt payments plus the three budget buckets, and remaining is
// income minus that allocation.
func (l *Ledger) Stats() Stats {
	var s Stats

	for _, inc := range l.Income {
		s.Income = s.Income.Add(inc.Amount)
	}

	for _, b := range l.Bills {
		s.Bills = s.Bills.Add(b.Amount)
	}

	for _, d := range l.Debts {
		s.DebtMin = s.DebtMin.Add(d.MinPayment)
		s.Debt = s.Debt.Add(d.Balance)
	}

	s.Groceries = l.Budget.Groceries
	s.Savings = l.Budget.Savings
	s.Miscellaneous = l.Budget.Miscellaneous

	s.TotalAllocated = s.Bills.Add(s.DebtMin).Add(s.Groceries).Add(s.Savings).Add(s.Miscellaneous)
	s.Remaining = s.Income.Sub(s.TotalAllocated)

	return s
}
