// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"querydesk/internal/core"
)

// Responses larger than this are cut off; the contract is small JSON bodies.
const maxResponseBytes = 4 << 20

// HistoryEntry is one recorded mutation as the backend reports it.
type HistoryEntry struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Reverted    bool      `json:"reverted"`
}

// Client talks to the assistant backend. The cookie jar carries the session
// cookie the connect call establishes, so every later call travels the same
// credentialed channel.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for the backend at baseURL. Every request is
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Connect submits credentials for a new session. The body is the flat
// {db_type, mode, <credential fields>} object the backend expects.
func (c *Client) Connect(ctx context.Context, cfg core.ConnectionConfig, creds map[string]string) error {
	body := map[string]string{
		"db_type": string(cfg.DBType),
		"mode":    string(cfg.Mode),
	}
	for name, value := range creds {
		body[name] = value
	}
	return c.do(ctx, OpConnect, http.MethodPost, "/connect", body, nil)
}

// Disconnect tears down the backend session. Callers treat failures as
// best-effort; local state is cleared regardless.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.do(ctx, OpDisconnect, http.MethodPost, "/disconnect", nil, nil)
}

// Query runs a natural-language query in the current session.
func (c *Client) Query(ctx context.Context, text string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	err := c.do(ctx, OpQuery, http.MethodPost, "/query", map[string]string{"query": text}, &out)
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// History fetches the session's ordered change log.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var out struct {
		History []HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, OpHistory, http.MethodGet, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// Revert asks the backend to undo the change at the given history position.
func (c *Client) Revert(ctx context.Context, index int) error {
	return c.do(ctx, OpRevert, http.MethodPost, "/revert", map[string]int{"history_id": index}, nil)
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, OpHealth, http.MethodGet, "/health", nil, nil)
}

// do performs one JSON round trip and normalizes failures: a non-2xx with a
// decodable {"error": string} body becomes an application Error; anything
// else becomes a transport Error with the generic message. No second-level
// parsing of nested error payloads is attempted.
func (c *Client) do(ctx context.Context, op Op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return transportError(op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return transportError(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return transportError(op, err)
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return transportError(op, err)
			}
		}
		return nil
	}

	var appErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &appErr); err != nil || strings.TrimSpace(appErr.Error) == "" {
		return transportError(op, errors.New(http.StatusText(res.StatusCode)))
	}
	return &Error{Op: op, Message: appErr.Error}
}
