package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UsersServiceClient is an HTTP Delegate backed by the users service API.
type UsersServiceClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewUsersServiceClient creates a client for the users service at baseURL.
func NewUsersServiceClient(baseURL, apiKey string, timeout time.Duration) *UsersServiceClient {
	return &UsersServiceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Delegate = (*UsersServiceClient)(nil)

// RedirectURL returns the OAuth consent URL for provider.
func (c *UsersServiceClient) RedirectURL(ctx context.Context, provider string) (string, error) {
	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	path := "/oauth/" + url.PathEscape(provider) + "/redirect_url"
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

// ExchangeCode trades an OAuth callback code for a session token.
func (c *UsersServiceClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	var out struct {
		SessionToken string `json:"session_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/sessions", "", map[string]string{"code": code}, &out); err != nil {
		return "", err
	}
	if out.SessionToken == "" {
		return "", ErrUnauthenticated
	}
	return out.SessionToken, nil
}

// Authenticate resolves a session token to its user.
func (c *UsersServiceClient) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrUnauthenticated
	}
	return &user, nil
}

// DeleteSession revokes a session token.
func (c *UsersServiceClient) DeleteSession(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/sessions", token, nil, nil)
}

func (c *UsersServiceClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("users service %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("users service %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("users service %s %s: decode: %w", method, path, err)
	}
	return nil
}
