package banksync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// maxPagesPerAccount bounds one sync call against a misbehaving remote that
// never reports the end of its stream. The saved cursor picks up where the
// capped call stopped.
const maxPagesPerAccount = 20

// Service pulls transactions from the aggregator into the ledger. Account
// bookkeeping goes through the ledger service; SyncAll works on the raw
// repository so one run is a single load and a single save.
type Service struct {
	repo   ledger.Repository
	ledger *ledger.Service
	client Client
	clock  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(repo ledger.Repository, client Client, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ledger: ledger.NewService(repo),
		client: client,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateLinkToken starts the account-linking flow.
func (s *Service) CreateLinkToken(ctx context.Context) (string, error) {
	return s.client.CreateLinkToken(ctx)
}

// Link exchanges a public token for long-lived credentials and records the
// linked account.
func (s *Service) Link(ctx context.Context, publicToken, institutionName string) (*ledger.LinkedAccount, error) {
	if institutionName == "" {
		institutionName = "Bank Account"
	}

	access, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging public token: %w", err)
	}

	account := ledger.LinkedAccount{
		InstitutionName: institutionName,
		AccessToken:     access.AccessToken,
		ItemID:          access.ItemID,
		CreatedAt:       s.clock(),
	}

	if err := s.ledger.AddAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("recording linked account: %w", err)
	}

	return &account, nil
}

// Disconnect removes the linked account with the given item id.
func (s *Service) Disconnect(ctx context.Context, itemID string) error {
	return s.ledger.RemoveAccount(ctx, itemID)
}

// Result summarizes one sync run. Partial success is the norm: a failing
// account contributes an entry to Errors while the others still import.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// SyncAll pulls new transactions for every linked account, de-duplicating by
// the (date, description, amount) key, and persists the updated cursors and
// transactions in one save at the end.
func (s *Service) SyncAll(ctx context.Context) (*Result, error) {
	led, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	seen := ledger.KeySet(led.Transactions)
	result := &Result{}

	for i := range led.Accounts {
		account := &led.Accounts[i]

		imported, err := s.syncAccount(ctx, led, account, seen)
		result.Imported += imported

		if err != nil {
			slog.Error("account sync failed",
				"institution", account.InstitutionName, "error", err)
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: %v", account.InstitutionName, err))
		}
	}

	if err := s.repo.Save(ctx, led); err != nil {
		return nil, fmt.Errorf("saving ledger: %w", err)
	}

	return result, nil
}

func (s *Service) syncAccount(ctx context.Context, led *ledger.Ledger, account *ledger.LinkedAccount, seen map[ledger.Key]struct{}) (int, error) {
	cursor := account.Cursor
	imported := 0

	for page := 0; page < maxPagesPerAccount; page++ {
		batch, err := s.client.SyncTransactions(ctx, account.AccessToken, cursor)
		if err != nil {
			// The cursor keeps its pre-call value, so the next sync
			// retries from the last good page.
			return imported, err
		}

		for _, rec := range batch.Added {
			tx := rec.Transaction()

			key := tx.Key()
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			led.Transactions = append(led.Transactions, tx)
			imported++
		}

		cursor = batch.NextCursor
		account.Cursor = cursor

		if !batch.HasMore {
			break
		}
	}

	now := s.clock()
	account.LastSync = &now

	return imported, nil
}
