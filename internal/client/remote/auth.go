package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkraev/mycolog/internal/common"
)

// AuthClient performs the unauthenticated account calls against the backend.
// Unlike HTTPStore it never retries: a failed login should surface to the
// user immediately, not after a backoff dance.
type AuthClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: defaultRequestTimeout,
	}
}

func (c *AuthClient) Configured() bool {
	return c.baseURL != ""
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new account. The username must be unused;
// common.ErrUserExists reports a taken name.
func (c *AuthClient) Register(ctx context.Context, username, password string) error {
	_, err := c.post(ctx, "/api/v1/auth/register", credentials{Username: username, Password: password})
	return err
}

// Login exchanges credentials for a bearer token. Wrong credentials yield
// common.ErrUnauthorized.
func (c *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.post(ctx, "/api/v1/auth/login", credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", common.ErrInternal)
	}
	return resp.Token, nil
}

func (c *AuthClient) post(ctx context.Context, path string, in credentials) (*tokenResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, common.ErrUserExists
	}
	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &tr, nil
}
