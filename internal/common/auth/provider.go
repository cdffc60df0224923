// internal/common/auth/provider.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Verifier resolves a bearer session token to the identity provider's
// subject identifier. Admin role is not part of the token; it is looked up
// in the admin_users table keyed by the subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ProviderClient verifies end-user session tokens against the external
// identity provider's userinfo endpoint.
type ProviderClient struct {
	baseURL      string
	userinfoPath string
	httpClient   *http.Client
}

func NewProviderClient(baseURL, userinfoPath string) *ProviderClient {
	return &ProviderClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		userinfoPath: userinfoPath,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type userinfoResponse struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// Verify calls the provider's userinfo endpoint with the bearer token and
// returns the subject identifier. Any non-200 response means the caller is
// not authenticated.
func (c *ProviderClient) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty session token")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.userinfoPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if info.Subject == "" {
		return "", fmt.Errorf("userinfo response missing subject")
	}

	return info.Subject, nil
}
