// internal/common/botcheck/botcheck.go
package botcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request carries the ambient request signals the verification service scores.
type Request struct {
	Token     string
	ClientIP  string
	UserAgent string
}

// Checker returns true when the request is judged to be automated.
type Checker interface {
	IsBot(ctx context.Context, req Request) (bool, error)
}

// HTTPChecker verifies a client-supplied challenge token against an external
// verification endpoint (reCAPTCHA-style success response).
type HTTPChecker struct {
	secretKey  string
	verifyURL  string
	httpClient *http.Client
}

func NewHTTPChecker(secretKey, verifyURL string) *HTTPChecker {
	return &HTTPChecker{
		secretKey:  secretKey,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyResponse struct {
	Success bool     `json:"success"`
	Score   float64  `json:"score"`
	Errors  []string `json:"error-codes"`
}

func (c *HTTPChecker) IsBot(ctx context.Context, verification Request) (bool, error) {
	data := url.Values{}
	data.Set("secret", c.secretKey)
	data.Set("response", verification.Token)
	if verification.ClientIP != "" {
		data.Set("remoteip", verification.ClientIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify request failed with status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return !result.Success, nil
}
