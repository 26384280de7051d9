package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/sethvargo/go-retry"
)

const defaultRequestTimeout = 12 * time.Second

// TokenSource supplies the bearer token for outbound requests. Returning ""
// sends the request unauthenticated (the server will reject it with 401).
type TokenSource func(ctx context.Context) (string, error)

// HTTPStore talks JSON over HTTP to the mycolog backend. Transient failures
// (network errors, 5xx) are retried with fibonacci backoff; each attempt runs
// under a bounded timeout.
type HTTPStore struct {
	baseURL string
	token   TokenSource
	client  *http.Client
	timeout time.Duration
	retries uint64
}

func NewHTTPStore(baseURL string, token TokenSource) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{},
		timeout: defaultRequestTimeout,
		retries: 2,
	}
}

func (s *HTTPStore) Configured() bool {
	return s.baseURL != ""
}

func (s *HTTPStore) Lookup(ctx context.Context, localID string) (*Record, error) {
	path := "/api/v1/records/lookup?local_id=" + url.QueryEscape(localID)
	var rec Record
	if err := s.do(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *HTTPStore) List(ctx context.Context) ([]*Record, error) {
	var resp struct {
		Records []*Record `json:"records"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/v1/records", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (s *HTTPStore) Insert(ctx context.Context, rec *Record) error {
	return s.do(ctx, http.MethodPost, "/api/v1/records", rec, rec)
}

func (s *HTTPStore) Update(ctx context.Context, serverID int64, rec *Record) error {
	path := fmt.Sprintf("/api/v1/records/%d", serverID)
	return s.do(ctx, http.MethodPut, path, rec, nil)
}

// do performs one API call with retries. Non-2xx statuses below 500 are
// permanent and mapped to sentinel errors where the engine needs to branch.
func (s *HTTPStore) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = b
	}

	backoff := retry.WithMaxRetries(s.retries, retry.NewFibonacci(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(callCtx, method, s.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		token, err := s.token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			b, _ := io.ReadAll(resp.Body)
			return retry.RetryableError(fmt.Errorf("server error: %s; body: %s", resp.Status, string(b)))
		}
		if err := mapStatus(resp.StatusCode); err != nil {
			return err
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	})
}

func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return common.ErrUnauthorized
	case code == http.StatusConflict:
		return common.ErrDuplicateRecord
	default:
		return fmt.Errorf("unexpected status: %d", code)
	}
}
