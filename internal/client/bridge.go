package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TokenSource yields a bearer token for the task API. ok=false with a nil
// error is the structured "no session" signal; callers must not probe
// error messages to detect it.
type TokenSource interface {
	AcquireToken(ctx context.Context) (token string, ok bool, err error)
}

// TokenBridge exchanges the session cookie for a short-lived bearer token
// on every call. Nothing is cached here: the session is re-validated each
// time, so a revoked or expired session is noticed immediately.
type TokenBridge struct {
	httpClient *http.Client
	tokenURL   string
}

func NewTokenBridge(httpClient *http.Client, baseURL string) *TokenBridge {
	return &TokenBridge{
		httpClient: httpClient,
		tokenURL:   baseURL + "/auth/token",
	}
}

func (b *TokenBridge) AcquireToken(ctx context.Context) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to build token request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", false, fmt.Errorf("failed to decode token response: %w", err)
		}
		return body.Token, true, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}
}
