package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProviderVerifier delegates verification to an external identity provider.
// The provider owns the trust decision; this client only normalizes the
// result into Claims. Network failures make the source unavailable so the
// chain can fall back to local verification.
type ProviderVerifier struct {
	BaseURL string
	HTTP    *http.Client
}

// NewProviderVerifier creates a verifier for the given provider base URL
func NewProviderVerifier(base string) *ProviderVerifier {
	return &ProviderVerifier{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"data"`
}

// Verify posts the token to the provider's verification endpoint
func (p *ProviderVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	if p.BaseURL == "" {
		return nil, ErrVerifierUnavailable
	}

	body, _ := json.Marshal(verifyRequest{Token: tokenString})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider http %d", ErrVerifierUnavailable, res.StatusCode)
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: provider http %d", ErrTokenRejected, res.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	if !out.Success {
		return nil, ErrTokenRejected
	}

	return &Claims{
		UserID:   out.Data.ID,
		Username: out.Data.Username,
		Email:    out.Data.Email,
		Role:     out.Data.Role,
	}, nil
}
