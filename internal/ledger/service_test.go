package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

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

// newRepo wires a mock whose Load returns the given ledger and whose Save
// captures the written state into saved.
func newRepo(t *testing.T, led *ledger.Ledger, saved **ledger.Ledger) *ledger.MockRepository {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(led, nil).AnyTimes()
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *ledger.Ledger) error {
			*saved = l
			return nil
		}).
		AnyTimes()

	return repo
}

func TestService_AddIncome_DefaultsDateAdded(t *testing.T) {
	var saved *ledger.Ledger
	svc := ledger.NewService(newRepo(t, &ledger.Ledger{}, &saved))

	err := svc.AddIncome(context.Background(), ledger.Income{
		Source:    "Salary",
		Amount:    amt("4200"),
		Frequency: "Monthly",
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	require.Len(t, saved.Income, 1)
	assert.False(t, saved.Income[0].DateAdded.IsZero())
}

func TestService_DeleteByIndex(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		wantErr error
	}{
		{"first", 0, nil},
		{"last", 1, nil},
		{"negative", -1, ledger.ErrIndexOutOfRange},
		{"past end", 2, ledger.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := &ledger.Ledger{
				Bills: []ledger.Bill{
					{Name: "Rent", Amount: amt("1500"), DueDay: 1},
					{Name: "Internet", Amount: amt("60"), DueDay: 3},
				},
			}

			var saved *ledger.Ledger
			svc := ledger.NewService(newRepo(t, led, &saved))

			err := svc.DeleteBill(context.Background(), tt.index)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, saved, "failed delete must not write")

				return
			}

			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Len(t, saved.Bills, 1)
		})
	}
}

func TestService_AddTransaction_RejectsDuplicate(t *testing.T) {
	led := &ledger.Ledger{
		Transactions: []ledger.Transaction{
			tx("2024-01-15", "Coffee", "-4.50"),
		},
	}

	var saved *ledger.Ledger
	svc := ledger.NewService(newRepo(t, led, &saved))

	err := svc.AddTransaction(context.Background(), tx("2024-01-15", "Coffee", "-4.50"))
	require.ErrorIs(t, err, ledger.ErrDuplicate)

	err = svc.AddTransaction(context.Background(), tx("2024-01-16", "Coffee", "-4.50"))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Len(t, saved.Transactions, 2)
}

func TestService_ImportBatch(t *testing.T) {
	led := &ledger.Ledger{
		Transactions: []ledger.Transaction{
			tx("2024-01-15", "Coffee", "-4.50"),
		},
	}

	var saved *ledger.Ledger
	svc := ledger.NewService(newRepo(t, led, &saved))

	batch := []ledger.Transaction{
		tx("2024-01-15", "Coffee", "-4.50"),  // already stored
		tx("2024-01-16", "Groceries", "-80"), // new
		tx("2024-01-16", "Groceries", "-80"), // repeated within the batch
		tx("2024-01-17", "Lunch", "-12"),     // new
	}

	inserted, err := svc.ImportBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	require.NotNil(t, saved)
	assert.Len(t, saved.Transactions, 3)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)

	svc := ledger.NewService(repo)

	inserted, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestService_RemoveAccount(t *testing.T) {
	led := &ledger.Ledger{
		Accounts: []ledger.LinkedAccount{
			{InstitutionName: "First National", ItemID: "item-1"},
			{InstitutionName: "Credit Union", ItemID: "item-2"},
		},
	}

	var saved *ledger.Ledger
	svc := ledger.NewService(newRepo(t, led, &saved))

	err := svc.RemoveAccount(context.Background(), "item-1")
	require.NoError(t, err)

	require.NotNil(t, saved)
	require.Len(t, saved.Accounts, 1)
	assert.Equal(t, "item-2", saved.Accounts[0].ItemID)

	err = svc.RemoveAccount(context.Background(), "missing")
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestService_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("disk gone"))

	svc := ledger.NewService(repo)

	err := svc.AddBill(context.Background(), ledger.Bill{Name: "Rent", Amount: amt("1500"), DueDay: 1})
	require.Error(t, err)
}

func TestLedger_Stats(t *testing.T) {
	led := &ledger.Ledger{
		Income: []ledger.Income{
			{Source: "Salary", Amount: amt("4200")},
			{Source: "Side work", Amount: amt("300")},
		},
		Bills: []ledger.Bill{
			{Name: "Rent", Amount: amt("1500")},
			{Name: "Internet", Amount: amt("60")},
		},
		Debts: []ledger.Debt{
			{Name: "Card", Balance: amt("2400"), MinPayment: amt("75")},
		},
		Budget: ledger.Budget{
			Groceries:     amt("500"),
			Savings:       amt("400"),
			Miscellaneous: amt("200"),
		},
	}

	s := led.Stats()

	assert.True(t, s.Income.Equal(amt("4500")))
	assert.True(t, s.Bills.Equal(amt("1560")))
	assert.True(t, s.DebtMin.Equal(amt("75")))
	assert.True(t, s.Debt.Equal(amt("2400")))
	assert.True(t, s.TotalAllocated.Equal(amt("2735")))
	assert.True(t, s.Remaining.Equal(amt("1765")))
}
