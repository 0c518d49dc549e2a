// Package payment holds the client for the external payment confirmation
// service. The reservation engine invokes it strictly before any ledger or
// booking write, so a declined or timed-out payment never needs storage
// compensation.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"event-booking/internal/status"
	"event-booking/utils"
)

const statusConfirmed = "confirmed"

type Request struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Payer     string          `json:"payer"`
	Reference string          `json:"reference"`
}

type Receipt struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// Gateway is the payment boundary: one synchronous call, no retries. Any
// non-success outcome (decline, timeout, open breaker) surfaces as
// status.ErrPaymentFailed.
type Gateway interface {
	Process(ctx context.Context, req *Request) (*Receipt, error)
}

type Client struct {
	baseURL string
	hc      *http.Client
	breaker *utils.CircuitBreaker
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		breaker: utils.NewCircuitBreaker("payment-gateway"),
	}
}

func (c *Client) Process(ctx context.Context, req *Request) (*Receipt, error) {
	var receipt *Receipt

	err := c.breaker.Execute(ctx, func() error {
		r, err := c.post(ctx, req)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrPaymentFailed, err)
	}
	return receipt, nil
}

func (c *Client) post(ctx context.Context, req *Request) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/process", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if receipt.Status != statusConfirmed {
		return nil, fmt.Errorf("gateway declined: status %q", receipt.Status)
	}
	return &receipt, nil
}
