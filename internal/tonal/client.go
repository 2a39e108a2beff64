// Package tonal is a small REST client for the Tonal platform API.
package tonal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"golang.org/x/time/rate"

	"github.com/claude/tonalmcp/internal/config"
)

const (
	maxAttempts      = 3
	cacheSize        = 16 * 1024 * 1024
	tokenExpirySlack = time.Minute
)

// Client talks to the platform on behalf of one account. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	authURL    string
	clientID   string
	username   string
	password   string
	cacheTTL   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *freecache.Cache
	log        *slog.Logger

	// backoff returns the pause before a retry attempt (1-based).
	backoff func(attempt int) time.Duration
	now     func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	userID    string
}

// New creates a Client from the tonal config section.
func New(cfg config.TonalConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authURL:    strings.TrimRight(cfg.AuthURL, "/"),
		clientID:   cfg.ClientID,
		username:   cfg.Username,
		password:   cfg.Password,
		cacheTTL:   cfg.MovementCacheTTL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		cache:      freecache.NewCache(cacheSize),
		log:        log,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
		now: time.Now,
	}
}

type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached token or logs in again.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}
	if c.username == "" || c.password == "" {
		return "", ErrMissingCredentials
	}

	form := map[string]string{
		"grant_type": "password",
		"username":   c.username,
		"password":   c.password,
		"scope":      "openid offline_access",
	}
	if c.clientID != "" {
		form["client_id"] = c.clientID
	}
	data, err := json.Marshal(form)
	if err != nil {
		return "", fmt.Errorf("tonal: marshal login: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/oauth/token", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("tonal: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tonal: login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("tonal: read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Method: http.MethodPost, Path: "/oauth/token", Body: string(body)}
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", ErrLoginFailed, apiErr)
		}
		return "", apiErr
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("tonal: decode login response: %w", err)
	}
	token := tok.IDToken
	if token == "" {
		token = tok.AccessToken
	}
	if token == "" {
		return "", fmt.Errorf("tonal: login response carried no token")
	}

	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenExpirySlack
	if ttl <= 0 {
		ttl = time.Duration(tok.ExpiresIn) * time.Second
	}
	c.token = token
	c.expiresAt = c.now().Add(ttl)
	c.log.Info("tonal login ok", "expires_at", c.expiresAt.Format(time.RFC3339))
	return token, nil
}

func (c *Client) invalidateToken(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == stale {
		c.token = ""
	}
}

// do sends one API call. GETs are retried on transport errors, 429 and 5xx.
// A 401 drops the cached token and retries once with a fresh login.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("tonal: marshal %s: %w", path, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	reauthed, retryNow := false, false
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 && !retryNow {
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return err
			}
		}
		retryNow = false

		body, err := c.send(ctx, method, path, params, payload)
		var apiErr *APIError
		switch {
		case err == nil:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("tonal: decode %s: %w", path, err)
			}
			return nil
		case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrLoginFailed), ctx.Err() != nil:
			return err
		case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && !reauthed:
			reauthed, retryNow = true, true
			c.log.Warn("tonal token rejected, logging in again", "path", path)
			// The fresh token retries the same attempt without a pause.
			attempt--
		case errors.As(err, &apiErr) && !retryable(apiErr.StatusCode):
			return err
		}
		lastErr = err
		if attempts > 1 {
			c.log.Debug("tonal request failed", "method", method, "path", path, "attempt", attempt+1, "error", err)
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("tonal: after %d attempts: %w", attempts, lastErr)
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload []byte) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("tonal: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tonal: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tonal: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidateToken(token)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Body: string(respBody)}
	}
	return respBody, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
