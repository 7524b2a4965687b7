// Package api wraps the remote hospital-management backend's REST surface.
// It attaches bearer tokens, normalizes the backend's inconsistent response
// envelopes into typed slices, and surfaces every failure as a value; no
// code outside this package touches raw JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sajithv/hospmeals/internal/domain"
)

type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a client for the backend at baseURL. The timeout is the
// only guard against a hung call; there are no retries and no request
// deduplication.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: hc, logger: logger}
}

// LoginResult is the body of a successful POST /auth/login.
// The role is stored as the backend sent it; an unrecognized role is not an
// auth failure, it simply never matches any allowed set downstream.
type LoginResult struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		observe("login", outcomeError)
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		observe("login", outcomeError)
		c.logger.Warn("login rejected", "status", resp.StatusCode())
		return nil, &AuthError{Op: "login", Status: resp.StatusCode()}
	}
	if out.Token == "" {
		observe("login", outcomeError)
		return nil, &AuthError{Op: "login", Status: resp.StatusCode()}
	}
	observe("login", outcomeOK)
	return &out, nil
}

// Register creates an account. The backend answers 201 on success.
func (c *Client) Register(ctx context.Context, email, password string, role domain.Role) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password, "role": string(role)}).
		Post("/auth/register")
	if err != nil {
		observe("register", outcomeError)
		return fmt.Errorf("register request failed: %w", err)
	}
	if resp.IsError() {
		observe("register", outcomeError)
		return &AuthError{Op: "register", Status: resp.StatusCode()}
	}
	observe("register", outcomeOK)
	return nil
}

// authed returns a request with the bearer token attached, or ErrNoSession
// when the token is empty. The fail-fast happens before any network use.
func (c *Client) authed(ctx context.Context, token string) (*resty.Request, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// envelope is the {success, <resourceKey>: ...} wrapper most list endpoints
// use. The resource key varies per endpoint, so the rest of the body is
// kept raw and picked out by name.
type envelope struct {
	Success bool
	Fields  map[string]json.RawMessage
}

func (e *envelope) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	e.Fields = m
	if raw, ok := m["success"]; ok {
		if err := json.Unmarshal(raw, &e.Success); err != nil {
			return err
		}
	}
	return nil
}

// listWrapped fetches a {success, key: [...]} list endpoint.
func listWrapped[T any](ctx context.Context, c *Client, token, path, key, op string) ([]T, error) {
	req, err := c.authed(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get(path)
	if err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	if resp.IsError() {
		observe(op, outcomeError)
		return nil, &RequestError{Op: op, Status: resp.StatusCode()}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s: malformed response body: %w", op, err)
	}
	if !env.Success {
		observe(op, outcomeError)
		return nil, &RequestError{Op: op, Status: resp.StatusCode()}
	}

	raw, ok := env.Fields[key]
	if !ok {
		// An empty collection is sometimes sent with the key omitted.
		observe(op, outcomeOK)
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		observe(op, outcomeError)
		return nil, fmt.Errorf("%s: malformed %q field: %w", op, key, err)
	}
	observe(op, outcomeOK)
	return items, nil
}

// mutateResult is the loose shape of mutation responses. Success is a
// pointer so that endpoints answering with no envelope at all (the
// /patient quirk) are judged by HTTP status alone.
type mutateResult struct {
	Success *bool `json:"success"`
}

// mutate runs a POST/PUT/DELETE and normalizes the two failure shapes
// (non-2xx, and 2xx with success:false) into one RequestError.
func (c *Client) mutate(ctx context.Context, token, method, path, op string, body any) error {
	req, err := c.authed(ctx, token)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		observe(op, outcomeError)
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	if resp.IsError() {
		observe(op, outcomeError)
		c.logger.Warn("backend call failed", "op", op, "status", resp.StatusCode())
		return &RequestError{Op: op, Status: resp.StatusCode()}
	}

	var out mutateResult
	if len(resp.Body()) > 0 {
		// Non-JSON 2xx bodies are tolerated; status already said OK.
		if err := json.Unmarshal(resp.Body(), &out); err == nil {
			if out.Success != nil && !*out.Success {
				observe(op, outcomeError)
				return &RequestError{Op: op, Status: resp.StatusCode()}
			}
		}
	}
	observe(op, outcomeOK)
	return nil
}
