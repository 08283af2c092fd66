// Package session observes the identity provider from the client side.
// The session itself lives in an HttpOnly cookie held by the provider's
// cookie jar; this layer only sees pending/ready/absent.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"sync/atomic"

	"taskify/internal/models"
)

type State int

const (
	StatePending State = iota
	StateReady
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAbsent:
		return "absent"
	default:
		return "pending"
	}
}

var (
	// ErrRequestInFlight suppresses the second of two rapid sign-in or
	// sign-up submissions; exactly one request goes out.
	ErrRequestInFlight = errors.New("authentication request already in flight")

	// ErrInvalidCredentials is deliberately generic: wrong password and
	// unknown email read the same.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Provider struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	state State
	user  *models.User

	inFlight atomic.Bool
}

// NewProvider builds a provider with a fresh cookie jar. The returned
// provider starts in the pending state until Refresh resolves it.
func NewProvider(baseURL string, httpClient *http.Client) (*Provider, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &Provider{
		httpClient: httpClient,
		baseURL:    baseURL,
		state:      StatePending,
	}, nil
}

// HTTPClient exposes the cookie-jar-bearing client so the token bridge
// and task client ride the same session.
func (p *Provider) HTTPClient() *http.Client {
	return p.httpClient
}

// Current reports the last observed session state without a network call.
func (p *Provider) Current(ctx context.Context) (State, *models.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.user
}

// Refresh re-validates the session against the provider and resolves
// pending into ready or absent.
func (p *Provider) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/session", nil)
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			User *models.User `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode session response: %w", err)
		}
		p.setState(StateReady, body.User)
		return nil
	case http.StatusUnauthorized:
		p.setState(StateAbsent, nil)
		return nil
	default:
		return fmt.Errorf("session endpoint returned status %d", resp.StatusCode)
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	return p.submitCredentials(ctx, "/auth/login", email, password)
}

func (p *Provider) SignUp(ctx context.Context, email, password string) error {
	return p.submitCredentials(ctx, "/auth/signup", email, password)
}

func (p *Provider) submitCredentials(ctx context.Context, path, email, password string) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrRequestInFlight
	}
	defer p.inFlight.Store(false)

	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return ErrInvalidCredentials
	}

	var body struct {
		User *models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}

	p.setState(StateReady, body.User)
	return nil
}

// SignOut ends the session. The local state flips to absent even when the
// provider call fails, so teardown always completes.
func (p *Provider) SignOut(ctx context.Context) error {
	defer p.setState(StateAbsent, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("logout endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *Provider) setState(state State, user *models.User) {
	p.mu.Lock()
	p.state = state
	p.user = user
	p.mu.Unlock()
}
