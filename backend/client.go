// Package backend is the HTTP+JSON client for the university REST API. It
// implements the eventbot.Backend contract; callers treat every RPC as an
// opaque remote call with its own timeout policy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	eventbot "github.com/campusgram/eventbot"
)

var (
	// ErrDenied is returned when the backend answers with a non-2xx status.
	ErrDenied = errors.New("backend denied the request")
	// ErrNotFound is returned on a 404, e.g. for an unlinked chat.
	ErrNotFound = errors.New("backend record not found")
	// ErrUnavailable is returned on transport failures and undecodable bodies.
	ErrUnavailable = errors.New("backend unavailable")
)

// Client talks to the university REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ eventbot.Backend = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*eventbot.TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	pair := &eventbot.TokenPair{}
	if err := c.do(ctx, http.MethodPost, "/api/token/", "", body, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*eventbot.TokenPair, error) {
	body := map[string]string{"refresh": refreshToken}
	pair := &eventbot.TokenPair{}
	if err := c.do(ctx, http.MethodPost, "/api/token/refresh/", "", body, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

func (c *Client) LinkChat(ctx context.Context, accessToken string, chatID int64) error {
	body := map[string]int64{"tg_id": chatID}
	return c.do(ctx, http.MethodPatch, "/user/link_telegram/", accessToken, body, nil)
}

func (c *Client) FetchRole(ctx context.Context, accessToken string, chatID int64) (string, error) {
	var record struct {
		Role string `json:"role"`
	}
	path := fmt.Sprintf("/users/%d/", chatID)
	if err := c.do(ctx, http.MethodGet, path, accessToken, nil, &record); err != nil {
		return "", err
	}
	return record.Role, nil
}

func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*eventbot.Profile, error) {
	profile := &eventbot.Profile{}
	if err := c.do(ctx, http.MethodGet, "/me/", accessToken, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) FetchGroups(ctx context.Context, accessToken string) ([]eventbot.Group, error) {
	var groups []eventbot.Group
	if err := c.do(ctx, http.MethodGet, "/group/", accessToken, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) FetchEvents(ctx context.Context, accessToken string) ([]eventbot.EventRecord, error) {
	var events []eventbot.EventRecord
	if err := c.do(ctx, http.MethodGet, "/event/", accessToken, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, accessToken string, draft eventbot.EventDraft) error {
	return c.do(ctx, http.MethodPost, "/event/", accessToken, draft, nil)
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d on %s", ErrDenied, resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}
