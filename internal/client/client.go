// Package client is a Go client for the ticketing API. Concurrent requests
// that hit an expired access token share a single refresh call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "ticketing/internal/errors"
	"ticketing/internal/model"
)

const (
	refreshKey     = "refresh"
	refreshTimeout = 30 * time.Second
)

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Code   string
	Msg    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Msg)
}

// Client talks to the ticketing API with bearer tokens.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	refreshGroup singleflight.Group
}

// New creates a client. A nil httpClient uses a client with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetTokens installs a token pair, for example one persisted by the caller.
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// Tokens returns the current token pair.
func (c *Client) Tokens() (accessToken, refreshToken string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

type loginResponse struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
	Role         model.Role `json:"role"`
}

// Login authenticates and keeps the returned tokens.
func (c *Client) Login(ctx context.Context, email, password string) (model.Role, error) {
	var out loginResponse
	err := c.send(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	c.SetTokens(out.Token, out.RefreshToken)
	return out.Role, nil
}

// Logout revokes the refresh token and forgets both tokens.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.Tokens()
	err := c.send(ctx, http.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": refresh}, nil)
	c.SetTokens("", "")
	return err
}

// ListEvents returns active events.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Book reserves a seat on the event.
func (c *Client) Book(ctx context.Context, eventID string) (*model.Booking, error) {
	var out struct {
		Booking *model.Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodPost, "/bookings/"+eventID, nil, &out); err != nil {
		return nil, err
	}
	return out.Booking, nil
}

// Cancel releases the caller's seat on the event.
func (c *Client) Cancel(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+eventID, nil, nil)
}

// MyBookings lists the caller's bookings.
func (c *Client) MyBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/my", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// do sends an authenticated request. When the access token is rejected as
// missing or expired it refreshes once and retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	access, _ := c.Tokens()
	err := c.send(ctx, method, path, access, body, out)
	if !needsRefresh(err) {
		return err
	}
	if refreshErr := c.refresh(ctx, access); refreshErr != nil {
		return refreshErr
	}
	access, _ = c.Tokens()
	return c.send(ctx, method, path, access, body, out)
}

func needsRefresh(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Code == "TOKEN_EXPIRED"
}

// refresh obtains a new access token. Callers that saw the same stale token
// share one request; a caller whose stale token was already replaced
// returns immediately. The shared request is detached from the caller that
// started it, so one caller giving up does not fail the others.
func (c *Client) refresh(ctx context.Context, stale string) error {
	ch := c.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		access, refresh := c.Tokens()
		if access != stale {
			return nil, nil
		}
		if refresh == "" {
			return nil, &APIError{Status: http.StatusBadRequest, Code: "REFRESH_TOKEN_REQUIRED", Msg: apperrors.ErrRefreshTokenRequired.Error()}
		}
		var out struct {
			Token string `json:"token"`
		}
		if err := c.send(refreshCtx, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": refresh}, &out); err != nil {
			return nil, err
		}
		c.SetTokens(out.Token, refresh)
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var e apperrors.ErrorResponse
		_ = json.Unmarshal(data, &e)
		if e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Code: e.Code, Msg: e.Error}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
