package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIndexOutOfRange is returned when a delete targets a position that
	// does not exist in the stored list.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDuplicate is returned when a transaction with the same
	// (date, description, amount) key is already recorded.
	ErrDuplicate = errors.New("duplicate transaction")
	// ErrAccountNotFound is returned when no linked account matches the
	// given item id.
	ErrAccountNotFound = errors.New("linked account not found")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Load(ctx context.Context) (*Ledger, error)
	Save(ctx context.Context, l *Ledger) error
}

// Service exposes the record-store operations. Every mutation loads the whole
// ledger, applies the change and writes the whole ledger back.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot returns the current ledger for read-only use.
func (s *Service) Snapshot(ctx context.Context) (*Ledger, error) {
	return s.repo.Load(ctx)
}

func (s *Service) update(ctx context.Context, mutate func(l *Ledger) error) error {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	if err := mutate(l); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	return nil
}

func (s *Service) AddIncome(ctx context.Context, inc Income) error {
	if inc.DateAdded.IsZero() {
		inc.DateAdded = time.Now()
	}

	return s.update(ctx, func(l *Ledger) error {
		l.Income = append(l.Income, inc)
		return nil
	})
}

func (s *Service) DeleteIncome(ctx context.Context, index int) error {
	return s.update(ctx, func(l *Ledger) error {
		if index < 0 || index >= len(l.Income) {
			return ErrIndexOutOfRange
		}

		l.Income = append(l.Income[:index], l.Income[index+1:]...)

		return nil
	})
}

func (s *Service) AddBill(ctx context.Context, bill Bill) error {
	return s.update(ctx, func(l *Ledger) error {
		l.Bills = append(l.Bills, bill)
		return nil
	})
}

func (s *Service) DeleteBill(ctx context.Context, index int) error {
	return s.update(ctx, func(l *Ledger) error {
		if index < 0 || index >= len(l.Bills) {
			return ErrIndexOutOfRange
		}

		l.Bills = append(l.Bills[:index], l.Bills[index+1:]...)

		return nil
	})
}

func (s *Service) AddDebt(ctx context.Context, debt Debt) error {
	return s.update(ctx, func(l *Ledger) error {
		l.Debts = append(l.Debts, debt)
		return nil
	})
}

func (s *Service) DeleteDebt(ctx context.Context, index int) error {
	return s.update(ctx, func(l *Ledger) error {
		if index < 0 || index >= len(l.Debts) {
			return ErrIndexOutOfRange
		}

		l.Debts = append(l.Debts[:index], l.Debts[index+1:]...)

		return nil
	})
}

func (s *Service) SetBudget(ctx context.Context, b Budget) error {
	return s.update(ctx, func(l *Ledger) error {
		l.Budget = b
		return nil
	})
}

func (s *Service) Budget(ctx context.Context) (Budget, error) {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return Budget{}, err
	}

	return l.Budget, nil
}

func (s *Service) Transactions(ctx context.Context) ([]Transaction, error) {
	l, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	return l.Transactions, nil
}

// AddTransaction records a manually entered transaction, rejecting exact
// duplicates of an already stored one.
func (s *Service) AddTransaction(ctx context.Context, tx Transaction) error {
	return s.update(ctx, func(l *Ledger) error {
		if _, dup := KeySet(l.Transactions)[tx.Key()]; dup {
			return ErrDuplicate
		}

		l.Transactions = append(l.Transactions, tx)

		return nil
	})
}

// ImportBatch appends the given transactions, silently skipping any whose
// (date, description, amount) key is already stored or appears earlier in the
// same batch. It returns the number actually inserted.
func (s *Service) ImportBatch(ctx context.Context, txs []Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	imported := 0

	err := s.update(ctx, func(l *Ledger) error {
		seen := KeySet(l.Transactions)

		for _, tx := range txs {
			key := tx.Key()
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			l.Transactions = append(l.Transactions, tx)
			imported++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return imported, nil
}

func (s *Service) AddAccount(ctx context.Context, account LinkedAccount) error {
	return s.update(ctx, func(l *Ledger) error {
		l.Accounts = append(l.Accounts, account)
		return nil
	})
}

func (s *Service) RemoveAccount(ctx context.Context, itemID string) error {
	return s.update(ctx, func(l *Ledger) error {
		kept := l.Accounts[:0]

		for _, account := range l.Accounts {
			if account.ItemID != itemID {
				kept = append(kept, account)
			}
		}

		if len(kept) == len(l.Accounts) {
			return ErrAccountNotFound
		}

		l.Accounts = kept

		return nil
	})
}
