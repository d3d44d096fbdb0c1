package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/strayline/casevault/internal/domain"
)

// Validator checks that an auth token belongs to a live session for the
// claimed user. Every state-changing request passes through it.
type Validator interface {
	Validate(ctx context.Context, userID, authToken string) error
}

// HTTPValidator asks the external session service.
type HTTPValidator struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPValidator creates a validator backed by the session service
func NewHTTPValidator(baseURL string) *HTTPValidator {
	return &HTTPValidator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type validateRequest struct {
	UserID    string `json:"user_id"`
	AuthToken string `json:"auth_token"`
}

func (v *HTTPValidator) Validate(ctx context.Context, userID, authToken string) error {
	if authToken == "" {
		return domain.ErrSessionInvalid
	}

	body, err := json.Marshal(validateRequest{UserID: userID, AuthToken: authToken})
	if err != nil {
		return fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/sessions/validate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrSessionInvalid
	default:
		return fmt.Errorf("session service returned status %d", resp.StatusCode)
	}
}

// StaticValidator accepts a single shared token, used for local development
// and tests where no session service runs.
type StaticValidator struct {
	token string
}

// NewStaticValidator creates a validator that accepts exactly one token
func NewStaticValidator(token string) *StaticValidator {
	return &StaticValidator{token: token}
}

func (v *StaticValidator) Validate(_ context.Context, _ string, authToken string) error {
	if v.token == "" || authToken != v.token {
		return domain.ErrSessionInvalid
	}
	return nil
}
