package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pokearena/arena-server/internal/constants"

	"github.com/google/uuid"
)

// Client talks to the external payment rail. Collect pulls a stake from a
// player into escrow; Transfer pays out of escrow. Either call failing is
// fatal to the operation that triggered it — the engine never commits a
// settlement whose disbursement was rejected.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client against the rail base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Collect escrows amount lamports from a player's wallet.
func (c *Client) Collect(ctx context.Context, from string, amount int64) error {
	return c.post(ctx, c.baseURL+"/collections", map[string]interface{}{
		"from":            from,
		"amount":          amount,
		"idempotency_key": uuid.NewString(),
	})
}

// Transfer sends amount lamports from escrow to a player's wallet.
func (c *Client) Transfer(ctx context.Context, to string, amount int64) error {
	return c.post(ctx, c.baseURL+"/transfers", map[string]interface{}{
		"to":              to,
		"amount":          amount,
		"idempotency_key": uuid.NewString(),
	})
}

func (c *Client) post(ctx context.Context, url string, payload map[string]interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payment rail request failed: %d %s", resp.StatusCode, string(raw))
	}
	return nil
}
