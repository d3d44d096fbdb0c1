package referral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client forwards commission on each spend to the external referral service.
// It satisfies ledger.CommissionApplier.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new referral service client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type commissionRequest struct {
	SpenderID string  `json:"spender_id"`
	Amount    float64 `json:"amount"`
}

// ApplyCommission reports a spend so the referral service can credit the
// spender's upline. The referral service owns the commission rate.
func (c *Client) ApplyCommission(ctx context.Context, spenderID string, amount float64) error {
	body, err := json.Marshal(commissionRequest{SpenderID: spenderID, Amount: amount})
	if err != nil {
		return fmt.Errorf("failed to marshal commission request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/commissions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build commission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("referral service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("referral service returned status %d", resp.StatusCode)
	}
	return nil
}

// Noop is the commission applier used when no referral program is
// configured.
type Noop struct{}

func (Noop) ApplyCommission(context.Context, string, float64) error { return nil }
