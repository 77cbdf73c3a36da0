// Package upstream reads a user's records from the finance backend's REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/errs"
	"github.com/tinoosan/finsight/internal/ledger"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client implements insight.Source over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithLogger sets the logger used for dropped records.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient returns a client for the API rooted at baseURL. An empty token
// sends no Authorization header.
func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: upstream url %q", errs.ErrInvalid, baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Accounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	var raw []accountDTO
	if err := c.get(ctx, "/accounts", userID, "accounts", &raw); err != nil {
		return nil, err
	}
	out := make([]ledger.Account, 0, len(raw))
	for i, r := range raw {
		a, err := r.toAccount()
		if err != nil {
			c.drop("account", i, err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *Client) Transactions(ctx context.Context, userID uuid.UUID) ([]ledger.Transaction, error) {
	var raw []transactionDTO
	if err := c.get(ctx, "/transactions", userID, "transactions", &raw); err != nil {
		return nil, err
	}
	out := make([]ledger.Transaction, 0, len(raw))
	for i, r := range raw {
		tx, err := r.toTransaction()
		if err != nil {
			c.drop("transaction", i, err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context, userID uuid.UUID) ([]ledger.Category, error) {
	var raw []categoryDTO
	if err := c.get(ctx, "/categories", userID, "categories", &raw); err != nil {
		return nil, err
	}
	out := make([]ledger.Category, 0, len(raw))
	for i, r := range raw {
		cat, err := r.toCategory()
		if err != nil {
			c.drop("category", i, err)
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}

// Ping checks that the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", errs.ErrUpstream, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %v", errs.ErrUpstream, err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) drop(kind string, index int, err error) {
	decodeErrors.WithLabelValues(kind).Inc()
	c.logger.Warn("dropping undecodable record", "kind", kind, "index", index, "err", err)
}

// get fetches path for userID and decodes the collection into out. The body
// may be a bare array or an object holding the array under key.
func (c *Client) get(ctx context.Context, path string, userID uuid.UUID, key string, out any) error {
	u := c.baseURL + path + "?" + url.Values{"user_id": {userID.String()}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", errs.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", errs.ErrUpstream, path, err)
	}
	defer resp.Body.Close()
	requestDuration.WithLabelValues(path, statusClass(resp.StatusCode)).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: GET %s", errs.ErrUnauthorized, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: GET %s: status %d: %s", errs.ErrUpstream, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", errs.ErrUpstream, path, err)
	}
	if err := decodeCollection(body, key, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", errs.ErrUpstream, path, err)
	}
	return nil
}

func decodeCollection(body []byte, key string, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	inner, ok := wrapped[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return nil
	}
	return json.Unmarshal(inner, out)
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
