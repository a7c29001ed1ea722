package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// ErrInvalidPromotion is returned when a recurring-pattern promotion payload
// fails validation.
var ErrInvalidPromotion = errors.New("invalid promotion")

// Service runs the three analysis passes over a ledger snapshot and merges
// their results with the aggregate stats. All derived data is recomputed on
// every call; nothing is cached or persisted.
type Service struct {
	ledger *ledger.Service
	clock  func() time.Time

	detect     func([]ledger.Transaction) []RecurringPattern
	categorize func([]ledger.Transaction, time.Time) Spending
	project    func([]ledger.Bill, []RecurringPattern, time.Time) []Projection
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(led *ledger.Service, opts ...Option) *Service {
	s := &Service{
		ledger:     led,
		clock:      time.Now,
		detect:     DetectRecurring,
		categorize: CategorizeSpending,
		project:    ProjectBills,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Report bundles the three derived collections with the aggregate stats.
type Report struct {
	Recurring   []RecurringPattern
	Spending    Spending
	Projections []Projection
	Stats       ledger.Stats
}

// Analyze loads the ledger once and runs all three passes.
func (s *Service) Analyze(ctx context.Context) (*Report, error) {
	led, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return s.analyze(led), nil
}

// analyze runs the passes in order; the projector consumes the detector's
// output. Each pass is isolated so one failing never blocks the others or
// the stat computation.
func (s *Service) analyze(led *ledger.Ledger) *Report {
	now := s.clock()
	report := &Report{Stats: led.Stats()}

	runPass("recurring", func() {
		report.Recurring = s.detect(led.Transactions)
	})
	runPass("categorize", func() {
		report.Spending = s.categorize(led.Transactions, now)
	})
	runPass("project", func() {
		report.Projections = s.project(led.Bills, report.Recurring, now)
	})

	return report
}

// runPass isolates one analysis pass. A panic leaves that pass's result at
// its zero value and only shows up in the log.
func runPass(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("insight pass failed", "pass", name, "panic", r)
		}
	}()

	fn()
}

// Account is a linked account with the access credential stripped for
// display.
type Account struct {
	InstitutionName string     `json:"institution_name"`
	ItemID          string     `json:"item_id"`
	CreatedAt       time.Time  `json:"created_at"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
}

// Dashboard is everything the overview page needs in one load.
type Dashboard struct {
	Stats       ledger.Stats
	Accounts    []Account
	Recent      []ledger.Transaction
	Recurring   []RecurringPattern
	Spending    Spending
	Projections []Projection
}

const recentLimit = 10

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	led, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	report := s.analyze(led)

	accounts := make([]Account, 0, len(led.Accounts))
	for _, a := range led.Accounts {
		accounts = append(accounts, Account{
			InstitutionName: a.InstitutionName,
			ItemID:          a.ItemID,
			CreatedAt:       a.CreatedAt,
			LastSync:        a.LastSync,
		})
	}

	return &Dashboard{
		Stats:       report.Stats,
		Accounts:    accounts,
		Recent:      recentTransactions(led.Transactions, recentLimit),
		Recurring:   report.Recurring,
		Spending:    report.Spending,
		Projections: report.Projections,
	}, nil
}

// recentTransactions returns up to n transactions, newest first.
func recentTransactions(txs []ledger.Transaction, n int) []ledger.Transaction {
	if n > len(txs) {
		n = len(txs)
	}

	out := make([]ledger.Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		out = append(out, txs[i])
	}

	return out
}

// PromoteParams is the payload for turning a detected recurring pattern into
// a tracked bill.
type PromoteParams struct {
	Name     string
	Amount   decimal.Decimal
	DueDay   int
	Category string
}

// PromoteRecurring appends a bill built from a detected recurring pattern.
// The due day defaults to the 1st and the category to "Other".
func (s *Service) PromoteRecurring(ctx context.Context, params PromoteParams) (*ledger.Bill, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPromotion)
	}

	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPromotion)
	}

	if params.DueDay == 0 {
		params.DueDay = 1
	}

	if params.DueDay < 1 || params.DueDay > 31 {
		return nil, fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidPromotion)
	}

	if params.Category == "" {
		params.Category = "Other"
	}

	bill := ledger.Bill{
		Name:         params.Name,
		Amount:       params.Amount,
		DueDay:       params.DueDay,
		Category:     params.Category,
		AutoDetected: true,
	}

	if err := s.ledger.AddBill(ctx, bill); err != nil {
		return nil, fmt.Errorf("adding bill: %w", err)
	}

	return &bill, nil
}
