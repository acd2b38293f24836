// Package apiclient is the typed HTTP gateway the client app talks to
// the server through. Every call unwraps the response envelope, maps
// failures onto error kinds the UI can dispatch on, and transparently
// refreshes an expired access token once before giving up.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/arjunks/kharcha/internal/api"
)

const defaultTimeout = 10 * time.Second

// CredentialStore is where the client keeps the token pair between
// calls. The session package provides the persistent implementation.
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(pair api.TokenPair) error
	ClearTokens() error
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore

	// refreshMu serializes token refreshes so parallel 401s trigger a
	// single refresh round trip.
	refreshMu sync.Mutex
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, creds CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   creds,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do runs one request/response cycle: encode the body, attach the
// bearer token, classify transport failures, unwrap the envelope, and
// decode Data into out when out is non-nil. A 401 triggers one token
// refresh followed by one retry; a second 401 surfaces as KindAuth.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.attempt(ctx, method, path, body, out, true); err != nil {
		return err
	}

	return nil
}

func (c *Client) attempt(ctx context.Context, method, path string, body, out any, allowRefresh bool) error {
	var payload []byte

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "encoding request body", cause: err}
		}

		payload = b
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "building request", cause: err}
	}

	req.Header.Set("Content-Type", "application/json")

	if token := c.creds.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && allowRefresh && !isAuthPath(path) {
		if err := c.refresh(ctx); err != nil {
			return err
		}

		return c.attempt(ctx, method, path, body, out, false)
	}

	var env api.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Kind: KindServer, Message: "decoding response", Status: resp.StatusCode, cause: err}
	}

	// A success=false body is a failure regardless of the HTTP status.
	if !env.Success {
		return envelopeError(resp.StatusCode, &env)
	}

	if out != nil {
		if err := env.Decode(out); err != nil {
			return &Error{Kind: KindServer, Message: "decoding response data", Status: resp.StatusCode, cause: err}
		}
	}

	return nil
}

// refresh exchanges the stored refresh token for a new pair. On any
// failure the stored credentials are cleared so the app falls back to
// the sign-in screen instead of looping on a dead token.
func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.creds.RefreshToken()
	if refreshToken == "" {
		return &Error{Kind: KindAuth, Message: "session expired"}
	}

	var pair api.TokenPair

	err := c.attempt(ctx, http.MethodPost, "/api/v1/auth/refresh",
		api.RefreshRequest{RefreshToken: refreshToken}, &pair, false)
	if err != nil {
		if clearErr := c.creds.ClearTokens(); clearErr != nil {
			return &Error{Kind: KindAuth, Message: "session expired", cause: clearErr}
		}

		return &Error{Kind: KindAuth, Message: "session expired", cause: err}
	}

	if err := c.creds.SetTokens(pair); err != nil {
		return &Error{Kind: KindAuth, Message: "storing refreshed tokens", cause: err}
	}

	return nil
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/auth/")
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out", cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request timed out", cause: err}
	}

	return &Error{Kind: KindNetwork, Message: "request failed", cause: err}
}

func envelopeError(status int, env *api.Envelope) *Error {
	msg := env.FlattenErrors()
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}

	e := &Error{Message: msg, Status: status, Fields: env.Errors}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || len(env.Errors) > 0:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}

	return e
}
