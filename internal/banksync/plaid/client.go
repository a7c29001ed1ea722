// Package plaid implements banksync.Client against Plaid's JSON API, using
// only the transactions product.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/banksync"
)

const (
	hostSandbox    = "https://sandbox.plaid.com"
	hostProduction = "https://production.plaid.com"

	// syncPageSize is how many transactions to request per sync page.
	syncPageSize = 500
)

// Config carries the aggregator credentials and environment selection; it is
// passed in at construction so the client never reads ambient state.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // "sandbox" or "production"
	ClientName  string
	Timeout     time.Duration

	// Host overrides the environment-derived API host.
	Host string
}

type Client struct {
	cfg  Config
	host string
	http *http.Client
}

func New(cfg Config) *Client {
	host := cfg.Host
	if host == "" {
		host = hostSandbox
		if cfg.Environment == "production" {
			host = hostProduction
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:  cfg,
		host: host,
		http: &http.Client{Timeout: timeout},
	}
}

// auth is embedded in every request body; Plaid takes credentials in the
// payload rather than in headers.
type auth struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

func (a *auth) setCredentials(clientID, secret string) {
	a.ClientID = clientID
	a.Secret = secret
}

// authorized is satisfied by every request type through its embedded auth.
type authorized interface {
	setCredentials(clientID, secret string)
}

type linkTokenRequest struct {
	auth

	ClientName   string   `json:"client_name"`
	Language     string   `json:"language"`
	CountryCodes []string `json:"country_codes"`
	Products     []string `json:"products"`
	User         struct {
		ClientUserID string `json:"client_user_id"`
	} `json:"user"`
}

func (c *Client) CreateLinkToken(ctx context.Context) (string, error) {
	req := linkTokenRequest{
		ClientName:   c.cfg.ClientName,
		Language:     "en",
		CountryCodes: []string{"US"},
		Products:     []string{"transactions"},
	}
	req.User.ClientUserID = "user-" + uuid.NewString()

	var resp struct {
		LinkToken string `json:"link_token"`
	}

	if err := c.post(ctx, "/link/token/create", &req, &resp); err != nil {
		return "", err
	}

	return resp.LinkToken, nil
}

type exchangeRequest struct {
	auth

	PublicToken string `json:"public_token"`
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*banksync.ItemAccess, error) {
	req := exchangeRequest{PublicToken: publicToken}

	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}

	if err := c.post(ctx, "/item/public_token/exchange", &req, &resp); err != nil {
		return nil, err
	}

	return &banksync.ItemAccess{
		AccessToken: resp.AccessToken,
		ItemID:      resp.ItemID,
	}, nil
}

type syncRequest struct {
	auth

	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count"`
}

type syncResponse struct {
	Added []struct {
		Date         string          `json:"date"`
		Amount       decimal.Decimal `json:"amount"`
		Name         string          `json:"name"`
		MerchantName string          `json:"merchant_name"`
		Category     []string        `json:"category"`
	} `json:"added"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*banksync.Batch, error) {
	req := syncRequest{
		AccessToken: accessToken,
		Cursor:      cursor,
		Count:       syncPageSize,
	}

	var resp syncResponse
	if err := c.post(ctx, "/transactions/sync", &req, &resp); err != nil {
		return nil, err
	}

	batch := &banksync.Batch{
		Added:      make([]banksync.Record, 0, len(resp.Added)),
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}

	for _, t := range resp.Added {
		var category string
		if len(t.Category) > 0 {
			category = t.Category[0]
		}

		batch.Added = append(batch.Added, banksync.Record{
			Date:         t.Date,
			Amount:       t.Amount,
			Description:  t.Name,
			Category:     category,
			MerchantName: t.MerchantName,
		})
	}

	return batch, nil
}

// post fills in the credentials, sends the payload and decodes the response,
// translating Plaid error bodies into Go errors.
func (c *Client) post(ctx context.Context, path string, payload authorized, out any) error {
	if c.cfg.ClientID == "" || c.cfg.Secret == "" {
		return banksync.ErrNotConfigured
	}

	payload.setCredentials(c.cfg.ClientID, c.cfg.Secret)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrorCode    string `json:"error_code"`
			ErrorMessage string `json:"error_message"`
		}

		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.ErrorMessage != "" {
			return fmt.Errorf("plaid %s: %s (%s)", path, apiErr.ErrorMessage, apiErr.ErrorCode)
		}

		return fmt.Errorf("plaid %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
