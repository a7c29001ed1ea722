package banksync

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

// ErrNotConfigured is returned by a Client whose aggregator credentials are
// missing.
var ErrNotConfigured = errors.New("bank aggregator is not configured")

// Record is a raw transaction row as the aggregator reports it. The
// aggregator's sign convention is inverted: positive means money leaving the
// account.
type Record struct {
	Date         string
	Amount       decimal.Decimal
	Description  string
	Category     string
	MerchantName string
}

// Transaction converts an aggregator record into a ledger transaction,
// flipping the sign so that expenses are negative.
func (r Record) Transaction() ledger.Transaction {
	category := r.Category
	if category == "" {
		category = "Uncategorized"
	}

	merchant := r.MerchantName
	if merchant == "" {
		merchant = r.Description
	}

	return ledger.Transaction{
		Date:         r.Date,
		Amount:       r.Amount.Neg(),
		Description:  r.Description,
		Category:     category,
		MerchantName: merchant,
	}
}

// Batch is one page of a cursor-paginated transaction sync.
type Batch struct {
	Added      []Record
	NextCursor string
	HasMore    bool
}

// ItemAccess is the long-lived credential pair returned by the public-token
// exchange.
type ItemAccess struct {
	AccessToken string
	ItemID      string
}

//go:generate mockgen -source=client.go -destination=client_mock.go -package=banksync
type Client interface {
	CreateLinkToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ItemAccess, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*Batch, error)
}
